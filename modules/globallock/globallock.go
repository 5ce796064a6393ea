// Copyright 2024 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package globallock

import (
	"context"
	"sync"

	"github.com/deskboard/deskboard/modules/setting"
)

// Locker provides mutual exclusion on a string key across goroutines, and
// across processes when backed by redis.
type Locker interface {
	// Lock tries to acquire a lock for the given key, it blocks until the lock
	// is acquired or the context is done.
	Lock(ctx context.Context, key string) (ReleaseFunc, error)
	// TryLock tries to acquire a lock for the given key, it returns
	// immediately whether the lock was acquired.
	TryLock(ctx context.Context, key string) (bool, ReleaseFunc, error)
}

// ReleaseFunc releases an acquired lock. It is safe to call more than once.
type ReleaseFunc func()

var (
	defaultLocker Locker
	initOnce      sync.Once
	initFunc      = func() {
		switch setting.GlobalLock.ServiceType {
		case "redis":
			defaultLocker = NewRedisLocker(setting.GlobalLock.ServiceConnStr)
		default:
			defaultLocker = NewMemoryLocker()
		}
	} // define initFunc as a variable to make it possible to change it in tests
)

// DefaultLocker returns the default locker.
func DefaultLocker() Locker {
	initOnce.Do(func() {
		initFunc()
	})
	return defaultLocker
}

// Lock tries to acquire a lock for the given key, it uses the default locker.
func Lock(ctx context.Context, key string) (ReleaseFunc, error) {
	return DefaultLocker().Lock(ctx, key)
}

// TryLock tries to acquire a lock for the given key, it uses the default locker.
func TryLock(ctx context.Context, key string) (bool, ReleaseFunc, error) {
	return DefaultLocker().TryLock(ctx, key)
}
