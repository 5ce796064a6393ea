// Copyright 2023 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package board

import (
	"context"
	"fmt"
	"strings"

	"github.com/deskboard/deskboard/models/db"
	"github.com/deskboard/deskboard/modules/timeutil"
	"github.com/deskboard/deskboard/modules/util"
)

// Task is a card on a board. Its status always equals the status of the
// column it sits in; the position engine keeps that in sync on every move.
type Task struct {
	ID       int64  `xorm:"pk autoincr"`
	BoardID  int64  `xorm:"UNIQUE(s) INDEX NOT NULL"`
	ColumnID int64  `xorm:"INDEX NOT NULL"`
	Code     string `xorm:"UNIQUE(s) NOT NULL"` // human-readable code, e.g. DESK-42
	Title    string `xorm:"NOT NULL"`
	Status   string `xorm:"NOT NULL"`
	Position int64  `xorm:"NOT NULL DEFAULT 0"`

	AssigneeID    int64   `xorm:"INDEX"`
	EstimatedTime float64 `xorm:"NOT NULL DEFAULT 0"` // hours
	ActualTime    float64 `xorm:"NOT NULL DEFAULT 0"` // hours

	// set while a webhook-driven update is in flight to keep a concurrent
	// manual drag from racing with it
	IsLocked bool `xorm:"NOT NULL DEFAULT false"`

	LastCommitHash    string
	LastCommitMessage string `xorm:"TEXT"`
	LastCommitRepo    string
	AutoUpdated       bool `xorm:"NOT NULL DEFAULT false"`

	CreatedUnix timeutil.TimeStamp `xorm:"INDEX created"`
	UpdatedUnix timeutil.TimeStamp `xorm:"updated"`
}

func init() {
	db.RegisterModel(new(Task))
}

// ErrTaskNotExist represents a "TaskNotExist" kind of error.
type ErrTaskNotExist struct {
	ID   int64
	Code string
}

// IsErrTaskNotExist checks if an error is a ErrTaskNotExist
func IsErrTaskNotExist(err error) bool {
	_, ok := err.(ErrTaskNotExist)
	return ok
}

func (err ErrTaskNotExist) Error() string {
	if err.Code != "" {
		return fmt.Sprintf("task does not exist [code: %s]", err.Code)
	}
	return fmt.Sprintf("task does not exist [id: %d]", err.ID)
}

func (err ErrTaskNotExist) Unwrap() error {
	return util.ErrNotExist
}

// ErrTaskCodeConflict represents the (board_id, code) uniqueness violation.
type ErrTaskCodeConflict struct {
	BoardID int64
	Code    string
}

// IsErrTaskCodeConflict checks if an error is a ErrTaskCodeConflict
func IsErrTaskCodeConflict(err error) bool {
	_, ok := err.(ErrTaskCodeConflict)
	return ok
}

func (err ErrTaskCodeConflict) Error() string {
	return fmt.Sprintf("task with code %q already exists on board %d", err.Code, err.BoardID)
}

func (err ErrTaskCodeConflict) Unwrap() error {
	return util.ErrAlreadyExist
}

// ErrTaskLocked is returned when a task is being updated by the webhook
// processor and a manual change races with it.
type ErrTaskLocked struct {
	TaskID int64
}

// IsErrTaskLocked checks if an error is a ErrTaskLocked
func IsErrTaskLocked(err error) bool {
	_, ok := err.(ErrTaskLocked)
	return ok
}

func (err ErrTaskLocked) Error() string {
	return fmt.Sprintf("task is locked by an in-flight automated update [id: %d]", err.TaskID)
}

func (err ErrTaskLocked) Unwrap() error {
	return util.ErrAlreadyExist
}

// NewTask creates a task at the bottom of the given column, adopting its status
func NewTask(ctx context.Context, task *Task) error {
	if strings.TrimSpace(task.Title) == "" || strings.TrimSpace(task.Code) == "" {
		return util.NewInvalidArgumentErrorf("task title and code must not be empty")
	}

	return db.WithTx(ctx, func(ctx context.Context) error {
		column, err := GetColumn(ctx, task.ColumnID)
		if err != nil {
			return err
		}
		if column.BoardID != task.BoardID {
			return util.NewInvalidArgumentErrorf("column %d does not belong to board %d", column.ID, task.BoardID)
		}

		if exist, err := db.GetEngine(ctx).Where("board_id = ? AND code = ?",
			task.BoardID, task.Code).Exist(new(Task)); err != nil {
			return err
		} else if exist {
			return ErrTaskCodeConflict{BoardID: task.BoardID, Code: task.Code}
		}

		task.Status = column.Status
		task.Position, err = nextTaskPosition(ctx, column.ID)
		if err != nil {
			return err
		}
		return db.Insert(ctx, task)
	})
}

func nextTaskPosition(ctx context.Context, columnID int64) (int64, error) {
	count, err := db.GetEngine(ctx).Where("column_id = ?", columnID).Count(new(Task))
	return count, err
}

// GetTaskByID returns the task with the given ID
func GetTaskByID(ctx context.Context, id int64) (*Task, error) {
	task := new(Task)
	has, err := db.GetEngine(ctx).ID(id).Get(task)
	if err != nil {
		return nil, err
	} else if !has {
		return nil, ErrTaskNotExist{ID: id}
	}
	return task, nil
}

// GetTaskByCode returns the task with the given code on the given board
func GetTaskByCode(ctx context.Context, boardID int64, code string) (*Task, error) {
	task := new(Task)
	has, err := db.GetEngine(ctx).Where("board_id = ? AND code = ?", boardID, code).Get(task)
	if err != nil {
		return nil, err
	} else if !has {
		return nil, ErrTaskNotExist{Code: code}
	}
	return task, nil
}

// GetTasks returns all tasks of the column ordered by position
func (c *Column) GetTasks(ctx context.Context) ([]*Task, error) {
	tasks := make([]*Task, 0, 10)
	if err := db.GetEngine(ctx).Where("column_id = ?", c.ID).
		OrderBy("position, id").Find(&tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// NumTasks returns the number of tasks in the column
func (c *Column) NumTasks(ctx context.Context) (int64, error) {
	return db.GetEngine(ctx).Where("column_id = ?", c.ID).Count(new(Task))
}

// UpdateTask updates the editable fields of a task (title, assignee,
// estimate). Column, status and position only change through the position
// engine.
func UpdateTask(ctx context.Context, task *Task) error {
	if strings.TrimSpace(task.Title) == "" {
		return util.NewInvalidArgumentErrorf("task title is empty")
	}
	count, err := db.GetEngine(ctx).ID(task.ID).
		Cols("title", "assignee_id", "estimated_time").Update(task)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrTaskNotExist{ID: task.ID}
	}
	return nil
}

// SetTaskLocked flips the webhook in-flight lock of a task
func SetTaskLocked(ctx context.Context, taskID int64, locked bool) error {
	_, err := db.GetEngine(ctx).ID(taskID).Cols("is_locked").
		Update(&Task{IsLocked: locked})
	return err
}

// UpdateTaskCommitInfo records the source-control state that drove the last
// automated update of the task.
func UpdateTaskCommitInfo(ctx context.Context, taskID int64, repo, hash, message string) error {
	_, err := db.GetEngine(ctx).ID(taskID).
		Cols("last_commit_repo", "last_commit_hash", "last_commit_message", "auto_updated").
		Update(&Task{
			LastCommitRepo:    repo,
			LastCommitHash:    hash,
			LastCommitMessage: message,
			AutoUpdated:       true,
		})
	return err
}

// AddTaskActualTime adds the given amount of hours to the task's actual time
func AddTaskActualTime(ctx context.Context, taskID int64, hours float64) error {
	_, err := db.Exec(ctx, "UPDATE `task` SET actual_time = actual_time + ? WHERE id = ?", hours, taskID)
	return err
}

// DeleteTask removes a task and resequences the column it was in. Its
// history and time logs go with it.
func DeleteTask(ctx context.Context, taskID int64) error {
	return db.WithTx(ctx, func(ctx context.Context) error {
		task, err := GetTaskByID(ctx, taskID)
		if err != nil {
			if IsErrTaskNotExist(err) {
				return nil
			}
			return err
		}

		if _, err := db.GetEngine(ctx).Where("task_id = ?", task.ID).Delete(new(TaskHistory)); err != nil {
			return err
		}
		if _, err := db.GetEngine(ctx).Where("task_id = ?", task.ID).Delete(new(TimeLog)); err != nil {
			return err
		}
		if _, err := db.DeleteByID(ctx, task.ID, new(Task)); err != nil {
			return err
		}
		return resequenceColumn(ctx, task.ColumnID)
	})
}

// resequenceColumn reassigns dense 0..n-1 positions to all tasks of a column
func resequenceColumn(ctx context.Context, columnID int64) error {
	tasks := make([]*Task, 0, 10)
	if err := db.GetEngine(ctx).Where("column_id = ?", columnID).
		OrderBy("position, id").Find(&tasks); err != nil {
		return err
	}
	for i, task := range tasks {
		if task.Position == int64(i) {
			continue
		}
		if _, err := db.Exec(ctx, "UPDATE `task` SET position = ? WHERE id = ?",
			i, task.ID); err != nil {
			return err
		}
	}
	return nil
}
