// Copyright 2023 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package timetracker manages work sessions on tasks. A session is opened by
// StartTimer and closed by StopTimer; the closed session's rounded minutes
// are folded into the task's actual time.
package timetracker

import (
	"context"
	"math"
	"time"

	board_model "github.com/deskboard/deskboard/models/board"
	"github.com/deskboard/deskboard/models/db"
	"github.com/deskboard/deskboard/modules/timeutil"
	"github.com/deskboard/deskboard/services/broadcast"
)

// StartTimer opens a new active session for the user on the task. It fails
// with ErrSessionAlreadyActive when the pair already has a running session.
func StartTimer(ctx context.Context, taskID, userID int64) (*board_model.TimeLog, error) {
	task, err := board_model.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	tl := &board_model.TimeLog{
		TaskID:      task.ID,
		UserID:      userID,
		StartedUnix: timeutil.TimeStampNow(),
		IsActive:    true,
	}
	if err := db.WithTx(ctx, func(ctx context.Context) error {
		if err := board_model.LockTaskSessions(ctx, taskID); err != nil {
			return err
		}
		_, exists, err := board_model.GetActiveTimeLog(ctx, taskID, userID)
		if err != nil {
			return err
		}
		if exists {
			return board_model.ErrSessionAlreadyActive{TaskID: taskID, UserID: userID}
		}
		return db.Insert(ctx, tl)
	}); err != nil {
		return nil, err
	}

	broadcast.Send(task.BoardID, broadcast.EventTimerStarted, map[string]any{
		"task_id": task.ID,
		"user_id": userID,
	})
	return tl, nil
}

// StopTimer closes the user's active session on the task. The session length
// is rounded to whole minutes, half a minute rounds up, and added to the
// task's actual time in hours.
func StopTimer(ctx context.Context, taskID, userID int64) (*board_model.TimeLog, error) {
	task, err := board_model.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	var tl *board_model.TimeLog
	if err := db.WithTx(ctx, func(ctx context.Context) error {
		if err := board_model.LockTaskSessions(ctx, taskID); err != nil {
			return err
		}
		active, exists, err := board_model.GetActiveTimeLog(ctx, taskID, userID)
		if err != nil {
			return err
		}
		if !exists {
			return board_model.ErrNoActiveSession{TaskID: taskID, UserID: userID}
		}

		active.EndedUnix = timeutil.TimeStampNow()
		active.DurationMinutes = roundedMinutes(active.EndedUnix.AsTime().Sub(active.StartedUnix.AsTime()))
		active.IsActive = false
		if _, err := db.GetEngine(ctx).ID(active.ID).
			Cols("ended_unix", "duration_minutes", "is_active").Update(active); err != nil {
			return err
		}

		tl = active
		return board_model.AddTaskActualTime(ctx, taskID, float64(active.DurationMinutes)/60)
	}); err != nil {
		return nil, err
	}

	broadcast.Send(task.BoardID, broadcast.EventTimerStopped, map[string]any{
		"task_id":          task.ID,
		"user_id":          userID,
		"duration_minutes": tl.DurationMinutes,
	})
	return tl, nil
}

// GetActiveTimer returns the user's running session on the task, or nil
func GetActiveTimer(ctx context.Context, taskID, userID int64) (*board_model.TimeLog, error) {
	tl, exists, err := board_model.GetActiveTimeLog(ctx, taskID, userID)
	if err != nil || !exists {
		return nil, err
	}
	return tl, nil
}

// ListTimeLogs returns every session of a task, oldest first
func ListTimeLogs(ctx context.Context, taskID int64) ([]*board_model.TimeLog, error) {
	return board_model.ListTimeLogs(ctx, taskID)
}

func roundedMinutes(d time.Duration) int64 {
	return int64(math.Round(d.Minutes()))
}
