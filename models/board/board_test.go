// Copyright 2023 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package board

import (
	"testing"

	"github.com/deskboard/deskboard/models/db"
	"github.com/deskboard/deskboard/models/unittest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoardCreatesDefaultColumns(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())

	b := &Board{Name: "Sprint 12", OwnerID: 1}
	require.NoError(t, NewBoard(db.DefaultContext, b))
	assert.NotZero(t, b.ID)
	assert.True(t, b.IsActive)

	columns, err := b.GetColumns(db.DefaultContext)
	require.NoError(t, err)
	require.Len(t, columns, 3)
	assert.Equal(t, "Todo", columns[0].Name)
	assert.Equal(t, "open", columns[0].Status)
	assert.True(t, columns[0].Default)
	assert.Equal(t, "in_progress", columns[1].Status)
	assert.Equal(t, "done", columns[2].Status)
	for i, column := range columns {
		assert.EqualValues(t, i, column.Position)
	}
}

func TestNewBoardEmptyName(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())

	assert.Error(t, NewBoard(db.DefaultContext, &Board{Name: "  ", OwnerID: 1}))
}

func TestSetBoardActive(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())

	b := &Board{Name: "Ops", OwnerID: 1}
	require.NoError(t, NewBoard(db.DefaultContext, b))

	require.NoError(t, SetBoardActive(db.DefaultContext, b.ID, false))
	loaded, err := GetBoardByID(db.DefaultContext, b.ID)
	require.NoError(t, err)
	assert.False(t, loaded.IsActive)

	assert.True(t, IsErrBoardNotExist(SetBoardActive(db.DefaultContext, 9999, false)))
}

func TestDeleteBoardCascades(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())

	b := &Board{Name: "To be deleted", OwnerID: 1}
	require.NoError(t, NewBoard(db.DefaultContext, b))
	columns, err := b.GetColumns(db.DefaultContext)
	require.NoError(t, err)

	task := &Task{BoardID: b.ID, ColumnID: columns[0].ID, Code: "DESK-1", Title: "a task"}
	require.NoError(t, NewTask(db.DefaultContext, task))
	require.NoError(t, AddHistory(db.DefaultContext, &TaskHistory{
		TaskID: task.ID, Source: SourceManual, NewStatus: task.Status,
	}))
	require.NoError(t, db.Insert(db.DefaultContext, &TimeLog{TaskID: task.ID, UserID: 1, StartedUnix: 1, IsActive: true}))
	require.NoError(t, NewIntegration(db.DefaultContext, &Integration{
		BoardID: b.ID, Repo: "acme/backend", HookSecret: "s3cret",
	}))

	require.NoError(t, DeleteBoardByID(db.DefaultContext, b.ID))

	unittest.AssertNotExistsBean(t, &Board{ID: b.ID})
	unittest.AssertNotExistsBean(t, &Column{BoardID: b.ID})
	unittest.AssertNotExistsBean(t, &Task{BoardID: b.ID})
	unittest.AssertNotExistsBean(t, &TaskHistory{TaskID: task.ID})
	unittest.AssertNotExistsBean(t, &TimeLog{TaskID: task.ID})
	unittest.AssertNotExistsBean(t, &Integration{BoardID: b.ID})

	// deleting an already deleted board is a no-op
	require.NoError(t, DeleteBoardByID(db.DefaultContext, b.ID))
}
