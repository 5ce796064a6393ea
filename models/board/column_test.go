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

func prepareTestBoard(t *testing.T, name string) (*Board, ColumnList) {
	t.Helper()
	b := &Board{Name: name, OwnerID: 1}
	require.NoError(t, NewBoard(db.DefaultContext, b))
	columns, err := b.GetColumns(db.DefaultContext)
	require.NoError(t, err)
	require.Len(t, columns, 3)
	return b, columns
}

func TestNewColumnAppendsRight(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	b, _ := prepareTestBoard(t, "cols")

	column := &Column{BoardID: b.ID, Name: "Review", Status: "review"}
	require.NoError(t, NewColumn(db.DefaultContext, column))
	assert.EqualValues(t, 3, column.Position)
}

func TestNewColumnStatusConflict(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	b, _ := prepareTestBoard(t, "conflict")

	err := NewColumn(db.DefaultContext, &Column{BoardID: b.ID, Name: "Another todo", Status: "open"})
	assert.True(t, IsErrColumnStatusConflict(err), "expected status conflict, got %v", err)

	// same status on a different board is fine
	b2, _ := prepareTestBoard(t, "conflict2")
	otherBoardColumn := &Column{BoardID: b2.ID, Name: "Blocked", Status: "blocked"}
	assert.NoError(t, NewColumn(db.DefaultContext, otherBoardColumn))
}

func TestUpdateColumnStatusRenamesTaskStatus(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	b, columns := prepareTestBoard(t, "rename")

	task := &Task{BoardID: b.ID, ColumnID: columns[0].ID, Code: "DESK-1", Title: "t"}
	require.NoError(t, NewTask(db.DefaultContext, task))

	columns[0].Status = "backlog"
	require.NoError(t, UpdateColumn(db.DefaultContext, columns[0]))

	loaded, err := GetTaskByID(db.DefaultContext, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "backlog", loaded.Status)
}

func TestUpdateColumnStatusConflict(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	_, columns := prepareTestBoard(t, "renameconflict")

	columns[0].Status = "done"
	err := UpdateColumn(db.DefaultContext, columns[0])
	assert.True(t, IsErrColumnStatusConflict(err), "expected status conflict, got %v", err)
}

func TestDeleteColumnMovesTasksToDefault(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	b, columns := prepareTestBoard(t, "delete")

	def, doing := columns[0], columns[1]
	existing := &Task{BoardID: b.ID, ColumnID: def.ID, Code: "DESK-1", Title: "already here"}
	require.NoError(t, NewTask(db.DefaultContext, existing))
	moved := &Task{BoardID: b.ID, ColumnID: doing.ID, Code: "DESK-2", Title: "will move"}
	require.NoError(t, NewTask(db.DefaultContext, moved))

	require.NoError(t, DeleteColumn(db.DefaultContext, doing.ID))

	unittest.AssertNotExistsBean(t, &Column{ID: doing.ID})

	loaded, err := GetTaskByID(db.DefaultContext, moved.ID)
	require.NoError(t, err)
	assert.Equal(t, def.ID, loaded.ColumnID)
	assert.Equal(t, def.Status, loaded.Status)
	assert.EqualValues(t, 1, loaded.Position) // appended after the existing task
}

func TestDeleteDefaultColumn(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	_, columns := prepareTestBoard(t, "deldefault")

	assert.Error(t, DeleteColumn(db.DefaultContext, columns[0].ID))
	unittest.AssertExistsAndLoadBean(t, &Column{ID: columns[0].ID})
}

func TestMoveColumns(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	b, columns := prepareTestBoard(t, "movecols")

	// reverse the order
	require.NoError(t, MoveColumns(db.DefaultContext, b, map[int64]int64{
		0: columns[2].ID,
		1: columns[1].ID,
		2: columns[0].ID,
	}))

	reordered, err := b.GetColumns(db.DefaultContext)
	require.NoError(t, err)
	assert.Equal(t, columns[2].ID, reordered[0].ID)
	assert.Equal(t, columns[0].ID, reordered[2].ID)

	// a column of a different board is rejected
	b2, otherColumns := prepareTestBoard(t, "movecols2")
	_ = b2
	err = MoveColumns(db.DefaultContext, b, map[int64]int64{0: otherColumns[0].ID})
	assert.Error(t, err)
}
