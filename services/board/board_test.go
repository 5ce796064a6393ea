// Copyright 2024 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package board

import (
	"errors"
	"testing"

	board_model "github.com/deskboard/deskboard/models/board"
	"github.com/deskboard/deskboard/models/db"
	"github.com/deskboard/deskboard/models/unittest"
	"github.com/deskboard/deskboard/modules/util"
	"github.com/deskboard/deskboard/services/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEmployee = &auth.User{ID: 2, Name: "worker", Role: auth.RoleEmployee}

func TestStructureEditsNeedManagerRole(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())

	err := CreateBoard(db.DefaultContext, testEmployee, &board_model.Board{Name: "nope"})
	assert.True(t, errors.Is(err, util.ErrPermissionDenied), "expected permission denial, got %v", err)

	b, columns := prepareTestBoard(t, "roles")

	err = DeleteColumn(db.DefaultContext, testEmployee, columns[1].ID)
	assert.True(t, errors.Is(err, util.ErrPermissionDenied))
	unittest.AssertExistsAndLoadBean(t, &board_model.Column{ID: columns[1].ID})

	// any signed-in role may create and move tasks
	task := &board_model.Task{BoardID: b.ID, ColumnID: columns[0].ID, Code: "ROLE-1", Title: "t"}
	assert.NoError(t, CreateTask(db.DefaultContext, testEmployee, task))
}

func TestGetBoardState(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	b, columns := prepareTestBoard(t, "state")
	prepareTestTasks(t, b, columns[0], 2)
	prepareTestTasks(t, b, columns[2], 1)

	state, err := GetBoardState(db.DefaultContext, b.ID)
	require.NoError(t, err)
	require.Len(t, state.Columns, 3)
	assert.Len(t, state.Columns[0].Tasks, 2)
	assert.Empty(t, state.Columns[1].Tasks)
	assert.Len(t, state.Columns[2].Tasks, 1)
}

func TestDeleteBoardService(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	b, columns := prepareTestBoard(t, "svcdelete")
	prepareTestTasks(t, b, columns[0], 1)

	require.NoError(t, DeleteBoard(db.DefaultContext, testAdmin, b.ID))
	unittest.AssertNotExistsBean(t, &board_model.Board{ID: b.ID})
	unittest.AssertCount(t, &board_model.Task{}, 0)
}
