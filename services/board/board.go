// Copyright 2024 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package board implements the commands that mutate kanban boards. Every
// position-changing command runs under a per-board lock so that the dense
// position invariant survives concurrent writers, and every successful
// command publishes an event to the board's subscribers.
package board

import (
	"context"

	board_model "github.com/deskboard/deskboard/models/board"
	"github.com/deskboard/deskboard/modules/globallock"
	"github.com/deskboard/deskboard/modules/util"
	"github.com/deskboard/deskboard/services/auth"
	"github.com/deskboard/deskboard/services/broadcast"
)

// BoardState is the full snapshot of one board, columns ordered by position
// and each column's tasks ordered by position.
type BoardState struct {
	Board   *board_model.Board `json:"board"`
	Columns []*ColumnState     `json:"columns"`
}

// ColumnState is one column together with its ordered tasks
type ColumnState struct {
	Column *board_model.Column `json:"column"`
	Tasks  []*board_model.Task `json:"tasks"`
}

// GetBoardState loads a board with all its columns and tasks
func GetBoardState(ctx context.Context, boardID int64) (*BoardState, error) {
	b, err := board_model.GetBoardByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	columns, err := b.GetColumns(ctx)
	if err != nil {
		return nil, err
	}
	state := &BoardState{Board: b, Columns: make([]*ColumnState, 0, len(columns))}
	for _, column := range columns {
		tasks, err := column.GetTasks(ctx)
		if err != nil {
			return nil, err
		}
		state.Columns = append(state.Columns, &ColumnState{Column: column, Tasks: tasks})
	}
	return state, nil
}

func requireStructureEditor(doer *auth.User) error {
	if doer == nil || !doer.Role.CanEditBoardStructure() {
		return util.NewPermissionDeniedErrorf("user is not allowed to change board structure")
	}
	return nil
}

// CreateBoard creates a board with its default columns
func CreateBoard(ctx context.Context, doer *auth.User, b *board_model.Board) error {
	if err := requireStructureEditor(doer); err != nil {
		return err
	}
	b.OwnerID = doer.ID
	b.UpdaterID = doer.ID
	return board_model.NewBoard(ctx, b)
}

// UpdateBoard updates a board's name and project
func UpdateBoard(ctx context.Context, doer *auth.User, b *board_model.Board) error {
	if err := requireStructureEditor(doer); err != nil {
		return err
	}
	b.UpdaterID = doer.ID
	if err := board_model.UpdateBoard(ctx, b); err != nil {
		return err
	}
	broadcast.Send(b.ID, broadcast.EventBoardUpdated, b)
	return nil
}

// SetBoardActive toggles a board's archived state
func SetBoardActive(ctx context.Context, doer *auth.User, boardID int64, isActive bool) error {
	if err := requireStructureEditor(doer); err != nil {
		return err
	}
	if err := board_model.SetBoardActive(ctx, boardID, isActive); err != nil {
		return err
	}
	broadcast.Send(boardID, broadcast.EventBoardUpdated, map[string]any{
		"board_id":  boardID,
		"is_active": isActive,
	})
	return nil
}

// DeleteBoard deletes a board with everything on it
func DeleteBoard(ctx context.Context, doer *auth.User, boardID int64) error {
	if err := requireStructureEditor(doer); err != nil {
		return err
	}
	release, err := globallock.Lock(ctx, boardLockKey(boardID))
	if err != nil {
		return err
	}
	defer release()

	if err := board_model.DeleteBoardByID(ctx, boardID); err != nil {
		return err
	}
	broadcast.GetManager().UnregisterBoard(boardID)
	return nil
}
