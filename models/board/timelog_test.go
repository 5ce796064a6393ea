// Copyright 2023 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package board

import (
	"context"
	"testing"

	"github.com/deskboard/deskboard/models/db"
	"github.com/deskboard/deskboard/models/unittest"
	"github.com/deskboard/deskboard/modules/timeutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockTaskSessions(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	b, columns := prepareTestBoard(t, "sessionlock")
	task := &Task{BoardID: b.ID, ColumnID: columns[0].ID, Code: "DESK-1", Title: "t"}
	require.NoError(t, NewTask(db.DefaultContext, task))

	// the lock is only meaningful while a transaction holds it
	assert.Error(t, LockTaskSessions(db.DefaultContext, task.ID))

	require.NoError(t, db.WithTx(db.DefaultContext, func(ctx context.Context) error {
		return LockTaskSessions(ctx, task.ID)
	}))
}

func TestGetActiveTimeLog(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	b, columns := prepareTestBoard(t, "activelog")
	task := &Task{BoardID: b.ID, ColumnID: columns[0].ID, Code: "DESK-1", Title: "t"}
	require.NoError(t, NewTask(db.DefaultContext, task))

	_, exists, err := GetActiveTimeLog(db.DefaultContext, task.ID, 7)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, db.Insert(db.DefaultContext, &TimeLog{
		TaskID:      task.ID,
		UserID:      7,
		StartedUnix: timeutil.TimeStampNow(),
		IsActive:    true,
	}))

	tl, exists, err := GetActiveTimeLog(db.DefaultContext, task.ID, 7)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.EqualValues(t, 7, tl.UserID)

	// the active flag is scoped to the pair, another user sees nothing
	_, exists, err = GetActiveTimeLog(db.DefaultContext, task.ID, 8)
	require.NoError(t, err)
	assert.False(t, exists)
}
