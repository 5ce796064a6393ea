// Copyright 2023 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package board

import (
	"context"
	"fmt"

	"github.com/deskboard/deskboard/models/db"
	"github.com/deskboard/deskboard/modules/timeutil"
	"github.com/deskboard/deskboard/modules/util"
)

// TimeLog is one work session of one user on one task. At most one row per
// (task, user) pair may be active at a time; the timetracker service
// enforces that inside its transactions.
type TimeLog struct {
	ID     int64 `xorm:"pk autoincr"`
	TaskID int64 `xorm:"INDEX(s) NOT NULL"`
	UserID int64 `xorm:"INDEX(s) NOT NULL"`

	StartedUnix     timeutil.TimeStamp `xorm:"NOT NULL"`
	EndedUnix       timeutil.TimeStamp
	DurationMinutes int64
	IsActive        bool `xorm:"INDEX NOT NULL DEFAULT false"`
}

func init() {
	db.RegisterModel(new(TimeLog))
}

// ErrSessionAlreadyActive is returned when a timer is started while another
// session of the same pair is still running.
type ErrSessionAlreadyActive struct {
	TaskID int64
	UserID int64
}

// IsErrSessionAlreadyActive checks if an error is a ErrSessionAlreadyActive
func IsErrSessionAlreadyActive(err error) bool {
	_, ok := err.(ErrSessionAlreadyActive)
	return ok
}

func (err ErrSessionAlreadyActive) Error() string {
	return fmt.Sprintf("time session already active [task: %d, user: %d]", err.TaskID, err.UserID)
}

func (err ErrSessionAlreadyActive) Unwrap() error {
	return util.ErrAlreadyExist
}

// ErrNoActiveSession is returned when a timer is stopped without a running session.
type ErrNoActiveSession struct {
	TaskID int64
	UserID int64
}

// IsErrNoActiveSession checks if an error is a ErrNoActiveSession
func IsErrNoActiveSession(err error) bool {
	_, ok := err.(ErrNoActiveSession)
	return ok
}

func (err ErrNoActiveSession) Error() string {
	return fmt.Sprintf("no active time session [task: %d, user: %d]", err.TaskID, err.UserID)
}

func (err ErrNoActiveSession) Unwrap() error {
	return util.ErrNotExist
}

// LockTaskSessions takes a row lock on the task inside the current
// transaction, serializing session bookkeeping for the task on every
// supported backend. Must be called before a check-then-write on time_log
// rows; a plain read is not enough on mysql and postgres, where two
// concurrent transactions can both miss each other's uncommitted insert.
func LockTaskSessions(ctx context.Context, taskID int64) error {
	if !db.InTransaction(ctx) {
		return fmt.Errorf("lock on task %d sessions requested outside a transaction", taskID)
	}
	// a self-assignment still takes the row's write lock
	_, err := db.Exec(ctx, "UPDATE `task` SET id = id WHERE id = ?", taskID)
	return err
}

// GetActiveTimeLog returns the active session for the pair, if any
func GetActiveTimeLog(ctx context.Context, taskID, userID int64) (*TimeLog, bool, error) {
	tl := new(TimeLog)
	exists, err := db.GetEngine(ctx).
		Where("task_id = ? AND user_id = ? AND is_active = ?", taskID, userID, true).
		Get(tl)
	return tl, exists, err
}

// GetActiveTimeLogForUser returns the user's active session on any task, if any
func GetActiveTimeLogForUser(ctx context.Context, userID int64) (*TimeLog, bool, error) {
	tl := new(TimeLog)
	exists, err := db.GetEngine(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Desc("id").Get(tl)
	return tl, exists, err
}

// ListTimeLogs returns all sessions of a task, oldest first
func ListTimeLogs(ctx context.Context, taskID int64) ([]*TimeLog, error) {
	logs := make([]*TimeLog, 0, 10)
	return logs, db.GetEngine(ctx).Where("task_id = ?", taskID).
		OrderBy("started_unix, id").Find(&logs)
}

// SumTrackedMinutes returns the total finished minutes of a task
func SumTrackedMinutes(ctx context.Context, taskID int64) (int64, error) {
	return db.GetEngine(ctx).Where("task_id = ? AND is_active = ?", taskID, false).
		SumInt(new(TimeLog), "duration_minutes")
}
