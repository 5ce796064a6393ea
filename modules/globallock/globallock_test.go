// Copyright 2024 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package globallock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLocker(t *testing.T) {
	locker := NewMemoryLocker()

	release1, err := locker.Lock(t.Context(), "test")
	require.NoError(t, err)

	ok, release2, err := locker.TryLock(t.Context(), "test")
	require.NoError(t, err)
	assert.False(t, ok)
	release2()

	// a different key is not blocked
	ok, release3, err := locker.TryLock(t.Context(), "other")
	require.NoError(t, err)
	assert.True(t, ok)
	release3()

	release1()

	ok, release4, err := locker.TryLock(t.Context(), "test")
	require.NoError(t, err)
	assert.True(t, ok)
	release4()

	// release is idempotent
	release4()
}

func TestMemoryLockerBlocks(t *testing.T) {
	locker := NewMemoryLocker()

	release, err := locker.Lock(t.Context(), "test")
	require.NoError(t, err)

	acquired := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r, err := locker.Lock(context.Background(), "test")
		assert.NoError(t, err)
		close(acquired)
		r()
	}()

	select {
	case <-acquired:
		t.Fatal("lock should not have been acquired while held")
	case <-time.After(100 * time.Millisecond):
	}

	release()
	wg.Wait()

	select {
	case <-acquired:
	default:
		t.Fatal("lock should have been acquired after release")
	}
}

func TestMemoryLockerContextCancel(t *testing.T) {
	locker := NewMemoryLocker()

	release, err := locker.Lock(t.Context(), "test")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	_, err = locker.Lock(ctx, "test")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
