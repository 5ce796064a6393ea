// Copyright 2023 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package broadcast

import (
	"github.com/deskboard/deskboard/modules/json"
)

// Event kinds published after a board mutation committed
const (
	EventBoardUpdated   = "board_updated"
	EventColumnCreated  = "column_created"
	EventColumnUpdated  = "column_updated"
	EventColumnDeleted  = "column_deleted"
	EventColumnsMoved   = "columns_moved"
	EventTaskCreated    = "task_created"
	EventTaskUpdated    = "task_updated"
	EventTaskDeleted    = "task_deleted"
	EventTaskMoved      = "task_moved"
	EventTimerStarted   = "timer_started"
	EventTimerStopped   = "timer_stopped"
)

// Event is one board-scoped mutation notification. Delivery is best-effort
// and at-most-once per connection; a client that missed events re-fetches
// the full board state instead of replaying a log.
type Event struct {
	BoardID int64  `json:"board_id"`
	Kind    string `json:"kind"`
	Payload any    `json:"payload,omitempty"`
}

// MarshalJSONBytes serializes the event for the wire
func (e *Event) MarshalJSONBytes() ([]byte, error) {
	return json.Marshal(e)
}
