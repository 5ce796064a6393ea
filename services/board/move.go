// Copyright 2024 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package board

import (
	"context"
	"fmt"

	board_model "github.com/deskboard/deskboard/models/board"
	"github.com/deskboard/deskboard/models/db"
	"github.com/deskboard/deskboard/modules/globallock"
	"github.com/deskboard/deskboard/modules/log"
	"github.com/deskboard/deskboard/modules/util"
	"github.com/deskboard/deskboard/services/broadcast"
)

// ErrWipLimitExceeded is returned when a move would push a column above its
// WIP limit. The rejected move leaves both columns untouched.
type ErrWipLimitExceeded struct {
	ColumnID int64
	WipLimit int64
}

// IsErrWipLimitExceeded checks if an error is a ErrWipLimitExceeded
func IsErrWipLimitExceeded(err error) bool {
	_, ok := err.(ErrWipLimitExceeded)
	return ok
}

func (err ErrWipLimitExceeded) Error() string {
	return fmt.Sprintf("column %d is at its WIP limit of %d", err.ColumnID, err.WipLimit)
}

func (err ErrWipLimitExceeded) Unwrap() error {
	return util.ErrAlreadyExist
}

// boardLockKey serializes all position-changing mutations of one board.
// The full-resequencing algorithm must never interleave with another
// resequencing on the same board.
func boardLockKey(boardID int64) string {
	return fmt.Sprintf("kanban_board_%d", boardID)
}

// MoveTaskOptions describes one move of one task
type MoveTaskOptions struct {
	TaskID         int64
	TargetColumnID int64
	// TargetIndex is the zero-based insertion index in the target column,
	// clamped to [0, len]
	TargetIndex int
	Source      board_model.HistorySource
	// ChangedBy is the acting user, zero for automated updates
	ChangedBy  int64
	CommitHash string
}

// MoveTask moves a task to the given column and index, keeping positions
// dense in both affected columns and the task's status equal to its column's
// status. The whole move runs inside one transaction under the board lock,
// appends exactly one history row for the moved task and publishes a
// task_moved event after commit.
func MoveTask(ctx context.Context, opts MoveTaskOptions) (*board_model.Task, error) {
	if !opts.Source.IsValid() {
		return nil, util.NewInvalidArgumentErrorf("unknown move source %q", opts.Source)
	}

	task, err := board_model.GetTaskByID(ctx, opts.TaskID)
	if err != nil {
		return nil, err
	}

	release, err := globallock.Lock(ctx, boardLockKey(task.BoardID))
	if err != nil {
		return nil, err
	}
	defer release()

	var fromColumnID int64
	if err := db.WithTx(ctx, func(ctx context.Context) error {
		// reload under the lock, the first read may be stale
		task, err = board_model.GetTaskByID(ctx, opts.TaskID)
		if err != nil {
			return err
		}
		// a webhook-driven update owns the task while its lock flag is set
		if task.IsLocked && opts.Source != board_model.SourceGithub {
			return board_model.ErrTaskLocked{TaskID: task.ID}
		}

		targetColumn, err := board_model.GetColumn(ctx, opts.TargetColumnID)
		if err != nil {
			return err
		}
		if targetColumn.BoardID != task.BoardID {
			return board_model.ErrColumnNotExist{ColumnID: targetColumn.ID}
		}

		targetTasks, err := targetColumn.GetTasks(ctx)
		if err != nil {
			return err
		}

		crossColumn := task.ColumnID != targetColumn.ID
		if crossColumn && targetColumn.WipLimit > 0 && int64(len(targetTasks))+1 > targetColumn.WipLimit {
			return ErrWipLimitExceeded{ColumnID: targetColumn.ID, WipLimit: targetColumn.WipLimit}
		}

		oldStatus, oldColumnID, oldPosition := task.Status, task.ColumnID, task.Position
		fromColumnID = oldColumnID

		// build the target order with the moving task at the requested index
		order := make([]*board_model.Task, 0, len(targetTasks)+1)
		for _, t := range targetTasks {
			if t.ID != task.ID {
				order = append(order, t)
			}
		}
		idx := opts.TargetIndex
		if idx < 0 {
			idx = 0
		}
		if idx > len(order) {
			idx = len(order)
		}
		order = util.SliceInsertAt(order, idx, task)

		for position, t := range order {
			if t.ID == task.ID {
				if _, err := db.Exec(ctx,
					"UPDATE `task` SET column_id = ?, status = ?, position = ? WHERE id = ?",
					targetColumn.ID, targetColumn.Status, position, t.ID); err != nil {
					return err
				}
				task.ColumnID = targetColumn.ID
				task.Status = targetColumn.Status
				task.Position = int64(position)
				continue
			}
			if t.Position == int64(position) {
				continue
			}
			if _, err := db.Exec(ctx, "UPDATE `task` SET position = ? WHERE id = ?",
				position, t.ID); err != nil {
				return err
			}
		}

		if crossColumn {
			if err := resequenceColumnTasks(ctx, oldColumnID); err != nil {
				return err
			}
		}

		// only the moved task gets an audit row, shifted siblings would be noise
		return board_model.AddHistory(ctx, &board_model.TaskHistory{
			TaskID:      task.ID,
			Source:      opts.Source,
			OldStatus:   oldStatus,
			NewStatus:   task.Status,
			OldColumnID: oldColumnID,
			NewColumnID: task.ColumnID,
			OldPosition: oldPosition,
			NewPosition: task.Position,
			ChangedBy:   opts.ChangedBy,
			CommitHash:  opts.CommitHash,
		})
	}); err != nil {
		return nil, err
	}

	log.Debug("moved task %d to column %d position %d (source %s)",
		task.ID, task.ColumnID, task.Position, opts.Source)

	broadcast.Send(task.BoardID, broadcast.EventTaskMoved, map[string]any{
		"task_id":     task.ID,
		"from_column": fromColumnID,
		"column_id":   task.ColumnID,
		"position":    task.Position,
		"status":      task.Status,
		"source":      opts.Source,
	})
	return task, nil
}

// resequenceColumnTasks reassigns dense 0..n-1 positions in the column
func resequenceColumnTasks(ctx context.Context, columnID int64) error {
	tasks := make([]*board_model.Task, 0, 10)
	if err := db.GetEngine(ctx).Where("column_id = ?", columnID).
		OrderBy("position, id").Find(&tasks); err != nil {
		return err
	}
	for position, t := range tasks {
		if t.Position == int64(position) {
			continue
		}
		if _, err := db.Exec(ctx, "UPDATE `task` SET position = ? WHERE id = ?",
			position, t.ID); err != nil {
			return err
		}
	}
	return nil
}
