// Copyright 2024 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package board

import (
	"fmt"
	"testing"

	board_model "github.com/deskboard/deskboard/models/board"
	"github.com/deskboard/deskboard/models/db"
	"github.com/deskboard/deskboard/models/unittest"
	"github.com/deskboard/deskboard/services/auth"
	"github.com/deskboard/deskboard/services/broadcast"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAdmin = &auth.User{ID: 1, Name: "root", Role: auth.RoleAdmin}

func prepareTestBoard(t *testing.T, name string) (*board_model.Board, board_model.ColumnList) {
	t.Helper()
	b := &board_model.Board{Name: name, OwnerID: testAdmin.ID}
	require.NoError(t, board_model.NewBoard(db.DefaultContext, b))
	columns, err := b.GetColumns(db.DefaultContext)
	require.NoError(t, err)
	require.Len(t, columns, 3)
	return b, columns
}

var taskCodeSeq int

func prepareTestTasks(t *testing.T, b *board_model.Board, column *board_model.Column, n int) []*board_model.Task {
	t.Helper()
	tasks := make([]*board_model.Task, 0, n)
	for i := 0; i < n; i++ {
		taskCodeSeq++
		task := &board_model.Task{
			BoardID:  b.ID,
			ColumnID: column.ID,
			Code:     fmt.Sprintf("DESK-%d", taskCodeSeq),
			Title:    "task",
		}
		require.NoError(t, board_model.NewTask(db.DefaultContext, task))
		tasks = append(tasks, task)
	}
	return tasks
}

func columnTaskIDs(t *testing.T, column *board_model.Column) []int64 {
	t.Helper()
	tasks, err := column.GetTasks(db.DefaultContext)
	require.NoError(t, err)
	ids := make([]int64, 0, len(tasks))
	for position, task := range tasks {
		assert.EqualValues(t, position, task.Position, "positions must stay dense")
		ids = append(ids, task.ID)
	}
	return ids
}

func TestMoveTaskWithinColumn(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	b, columns := prepareTestBoard(t, "within")
	tasks := prepareTestTasks(t, b, columns[0], 3)

	moved, err := MoveTask(db.DefaultContext, MoveTaskOptions{
		TaskID:         tasks[2].ID,
		TargetColumnID: columns[0].ID,
		TargetIndex:    0,
		Source:         board_model.SourceManual,
		ChangedBy:      testAdmin.ID,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 0, moved.Position)
	assert.Equal(t, []int64{tasks[2].ID, tasks[0].ID, tasks[1].ID}, columnTaskIDs(t, columns[0]))

	history, err := board_model.ListHistory(db.DefaultContext, moved.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, columns[0].ID, history[0].OldColumnID)
	assert.Equal(t, columns[0].ID, history[0].NewColumnID)
	assert.EqualValues(t, 2, history[0].OldPosition)
	assert.EqualValues(t, 0, history[0].NewPosition)
}

func TestMoveTaskAcrossColumnsAdoptsStatus(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	b, columns := prepareTestBoard(t, "across")
	todo, doing := columns[0], columns[1]
	tasks := prepareTestTasks(t, b, todo, 3)

	moved, err := MoveTask(db.DefaultContext, MoveTaskOptions{
		TaskID:         tasks[1].ID,
		TargetColumnID: doing.ID,
		TargetIndex:    0,
		Source:         board_model.SourceManual,
		ChangedBy:      testAdmin.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, doing.ID, moved.ColumnID)
	assert.Equal(t, doing.Status, moved.Status)

	// the source column closed its gap, the target is dense too
	assert.Equal(t, []int64{tasks[0].ID, tasks[2].ID}, columnTaskIDs(t, todo))
	assert.Equal(t, []int64{tasks[1].ID}, columnTaskIDs(t, doing))

	history, err := board_model.ListHistory(db.DefaultContext, moved.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "open", history[0].OldStatus)
	assert.Equal(t, "in_progress", history[0].NewStatus)

	// shifted siblings do not get history rows
	unittest.AssertCount(t, &board_model.TaskHistory{}, 1)
}

func TestMoveTaskClampsIndex(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	b, columns := prepareTestBoard(t, "clamp")
	todo, doing := columns[0], columns[1]
	tasks := prepareTestTasks(t, b, todo, 2)
	prepareTestTasks(t, b, doing, 1)

	moved, err := MoveTask(db.DefaultContext, MoveTaskOptions{
		TaskID:         tasks[0].ID,
		TargetColumnID: doing.ID,
		TargetIndex:    99,
		Source:         board_model.SourceManual,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, moved.Position)

	moved, err = MoveTask(db.DefaultContext, MoveTaskOptions{
		TaskID:         tasks[1].ID,
		TargetColumnID: doing.ID,
		TargetIndex:    -5,
		Source:         board_model.SourceManual,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 0, moved.Position)
}

func TestMoveTaskWipLimit(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	b, columns := prepareTestBoard(t, "wip")
	todo, doing := columns[0], columns[1]

	doing.WipLimit = 1
	require.NoError(t, board_model.UpdateColumn(db.DefaultContext, doing))

	tasks := prepareTestTasks(t, b, todo, 2)
	prepareTestTasks(t, b, doing, 1)

	before := columnTaskIDs(t, todo)
	_, err := MoveTask(db.DefaultContext, MoveTaskOptions{
		TaskID:         tasks[0].ID,
		TargetColumnID: doing.ID,
		TargetIndex:    0,
		Source:         board_model.SourceManual,
	})
	assert.True(t, IsErrWipLimitExceeded(err), "expected WIP rejection, got %v", err)

	// the rejected move left both columns untouched
	assert.Equal(t, before, columnTaskIDs(t, todo))
	assert.Len(t, columnTaskIDs(t, doing), 1)
	unittest.AssertCount(t, &board_model.TaskHistory{}, 0)

	// reordering inside the full column is still allowed
	_, err = MoveTask(db.DefaultContext, MoveTaskOptions{
		TaskID:         tasks[0].ID,
		TargetColumnID: todo.ID,
		TargetIndex:    1,
		Source:         board_model.SourceManual,
	})
	assert.NoError(t, err)
}

func TestMoveTaskLocked(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	b, columns := prepareTestBoard(t, "locked")
	tasks := prepareTestTasks(t, b, columns[0], 1)

	require.NoError(t, board_model.SetTaskLocked(db.DefaultContext, tasks[0].ID, true))

	_, err := MoveTask(db.DefaultContext, MoveTaskOptions{
		TaskID:         tasks[0].ID,
		TargetColumnID: columns[1].ID,
		Source:         board_model.SourceManual,
	})
	assert.True(t, board_model.IsErrTaskLocked(err), "expected lock rejection, got %v", err)

	// the webhook pipeline moves through its own lock
	moved, err := MoveTask(db.DefaultContext, MoveTaskOptions{
		TaskID:         tasks[0].ID,
		TargetColumnID: columns[1].ID,
		Source:         board_model.SourceGithub,
	})
	require.NoError(t, err)
	assert.Equal(t, columns[1].ID, moved.ColumnID)
}

func TestMoveTaskRejectsForeignColumn(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	b, columns := prepareTestBoard(t, "foreign")
	_, otherColumns := prepareTestBoard(t, "foreign2")
	tasks := prepareTestTasks(t, b, columns[0], 1)

	_, err := MoveTask(db.DefaultContext, MoveTaskOptions{
		TaskID:         tasks[0].ID,
		TargetColumnID: otherColumns[0].ID,
		Source:         board_model.SourceManual,
	})
	assert.True(t, board_model.IsErrColumnNotExist(err), "expected column not found, got %v", err)
}

func TestMoveTaskBroadcasts(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	b, columns := prepareTestBoard(t, "events")
	tasks := prepareTestTasks(t, b, columns[0], 1)

	events := broadcast.GetManager().Register(b.ID)
	defer broadcast.GetManager().Unregister(b.ID, events)

	_, err := MoveTask(db.DefaultContext, MoveTaskOptions{
		TaskID:         tasks[0].ID,
		TargetColumnID: columns[1].ID,
		Source:         board_model.SourceManual,
	})
	require.NoError(t, err)

	event := <-events
	assert.Equal(t, broadcast.EventTaskMoved, event.Kind)
	assert.Equal(t, b.ID, event.BoardID)
}
