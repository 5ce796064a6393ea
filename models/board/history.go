// Copyright 2023 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package board

import (
	"context"

	"github.com/deskboard/deskboard/models/db"
	"github.com/deskboard/deskboard/modules/timeutil"
)

// HistorySource is the origin of a task transition
type HistorySource string

const (
	// SourceManual is a user drag or an explicit API call
	SourceManual HistorySource = "manual"
	// SourceGithub is a change driven by an inbound source-control webhook
	SourceGithub HistorySource = "github"
	// SourceSocket is a live collaborative edit through the event stream
	SourceSocket HistorySource = "socket"
	// SourceBulk is a batch operation
	SourceBulk HistorySource = "bulk"
)

// IsValid reports whether the source is one of the known origins
func (s HistorySource) IsValid() bool {
	switch s {
	case SourceManual, SourceGithub, SourceSocket, SourceBulk:
		return true
	default:
		return false
	}
}

// TaskHistory is one immutable transition record. Rows are only ever
// appended; the history is the audit trail answering "how did this task get
// here". Webhook secrets must never end up in these rows.
type TaskHistory struct {
	ID     int64         `xorm:"pk autoincr"`
	TaskID int64         `xorm:"INDEX NOT NULL"`
	Source HistorySource `xorm:"VARCHAR(16) NOT NULL"`

	OldStatus   string
	NewStatus   string
	OldColumnID int64
	NewColumnID int64
	OldPosition int64
	NewPosition int64

	ChangedBy  int64
	CommitHash string

	CreatedUnix timeutil.TimeStamp `xorm:"INDEX created"`
}

func init() {
	db.RegisterModel(new(TaskHistory))
}

// AddHistory appends one transition record
func AddHistory(ctx context.Context, entry *TaskHistory) error {
	return db.Insert(ctx, entry)
}

// ListHistory returns all transition records of a task, oldest first
func ListHistory(ctx context.Context, taskID int64) ([]*TaskHistory, error) {
	entries := make([]*TaskHistory, 0, 10)
	return entries, db.GetEngine(ctx).Where("task_id = ?", taskID).
		OrderBy("created_unix, id").Find(&entries)
}
