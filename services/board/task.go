// Copyright 2024 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package board

import (
	"context"

	board_model "github.com/deskboard/deskboard/models/board"
	"github.com/deskboard/deskboard/modules/globallock"
	"github.com/deskboard/deskboard/modules/util"
	"github.com/deskboard/deskboard/services/auth"
	"github.com/deskboard/deskboard/services/broadcast"
)

// CreateTask creates a task at the bottom of its column
func CreateTask(ctx context.Context, doer *auth.User, task *board_model.Task) error {
	if doer == nil {
		return util.NewPermissionDeniedErrorf("sign-in required")
	}
	release, err := globallock.Lock(ctx, boardLockKey(task.BoardID))
	if err != nil {
		return err
	}
	defer release()

	if err := board_model.NewTask(ctx, task); err != nil {
		return err
	}
	broadcast.Send(task.BoardID, broadcast.EventTaskCreated, task)
	return nil
}

// UpdateTask updates a task's title, assignee and estimate
func UpdateTask(ctx context.Context, doer *auth.User, task *board_model.Task) error {
	if doer == nil {
		return util.NewPermissionDeniedErrorf("sign-in required")
	}
	if err := board_model.UpdateTask(ctx, task); err != nil {
		return err
	}
	broadcast.Send(task.BoardID, broadcast.EventTaskUpdated, task)
	return nil
}

// DeleteTask deletes a task with its history and time logs
func DeleteTask(ctx context.Context, doer *auth.User, taskID int64) error {
	if doer == nil {
		return util.NewPermissionDeniedErrorf("sign-in required")
	}
	task, err := board_model.GetTaskByID(ctx, taskID)
	if err != nil {
		return err
	}
	release, err := globallock.Lock(ctx, boardLockKey(task.BoardID))
	if err != nil {
		return err
	}
	defer release()

	if err := board_model.DeleteTask(ctx, task.ID); err != nil {
		return err
	}
	broadcast.Send(task.BoardID, broadcast.EventTaskDeleted, map[string]any{
		"task_id":   task.ID,
		"column_id": task.ColumnID,
	})
	return nil
}
