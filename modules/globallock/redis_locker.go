// Copyright 2024 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package globallock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

const redisLockKeyPrefix = "deskboard:globallock:"

type redisLocker struct {
	rs *redsync.Redsync

	mutexM sync.Map
}

var _ Locker = &redisLocker{}

// NewRedisLocker creates a locker backed by redis, connStr is a redis URL
func NewRedisLocker(connStr string) Locker {
	opts, err := redis.ParseURL(connStr)
	if err != nil {
		panic(err)
	}
	return &redisLocker{
		rs: redsync.New(goredis.NewPool(redis.NewClient(opts))),
	}
}

func (l *redisLocker) Lock(ctx context.Context, key string) (ReleaseFunc, error) {
	return l.lock(ctx, key, 0)
}

func (l *redisLocker) TryLock(ctx context.Context, key string) (bool, ReleaseFunc, error) {
	f, err := l.lock(ctx, key, 1)

	var errTaken *redsync.ErrTaken
	if errors.As(err, &errTaken) {
		err = nil
	}
	return err == nil && f != nil, f, err
}

func (l *redisLocker) lock(ctx context.Context, key string, tries int) (ReleaseFunc, error) {
	options := []redsync.Option{
		redsync.WithExpiry(time.Minute),
	}
	if tries > 0 {
		options = append(options, redsync.WithTries(tries))
	}
	mutex := l.rs.NewMutex(redisLockKeyPrefix+key, options...)
	if err := mutex.LockContext(ctx); err != nil {
		return nil, err
	}

	l.mutexM.Store(key, mutex)

	releaseOnce := sync.Once{}
	return func() {
		releaseOnce.Do(func() {
			l.mutexM.Delete(key)

			// if the lock is not released, it will expire on its own
			_, _ = mutex.Unlock()
		})
	}, nil
}
