// Copyright 2024 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package board

import (
	"context"

	board_model "github.com/deskboard/deskboard/models/board"
	"github.com/deskboard/deskboard/modules/globallock"
	"github.com/deskboard/deskboard/services/auth"
	"github.com/deskboard/deskboard/services/broadcast"
)

// CreateColumn appends a column at the right edge of the board
func CreateColumn(ctx context.Context, doer *auth.User, column *board_model.Column) error {
	if err := requireStructureEditor(doer); err != nil {
		return err
	}
	release, err := globallock.Lock(ctx, boardLockKey(column.BoardID))
	if err != nil {
		return err
	}
	defer release()

	if err := board_model.NewColumn(ctx, column); err != nil {
		return err
	}
	broadcast.Send(column.BoardID, broadcast.EventColumnCreated, column)
	return nil
}

// UpdateColumn updates a column's name, status and WIP limit. A status
// rename is propagated to the tasks sitting in the column.
func UpdateColumn(ctx context.Context, doer *auth.User, column *board_model.Column) error {
	if err := requireStructureEditor(doer); err != nil {
		return err
	}
	release, err := globallock.Lock(ctx, boardLockKey(column.BoardID))
	if err != nil {
		return err
	}
	defer release()

	if err := board_model.UpdateColumn(ctx, column); err != nil {
		return err
	}
	broadcast.Send(column.BoardID, broadcast.EventColumnUpdated, column)
	return nil
}

// DeleteColumn deletes a column, its tasks move to the default column
func DeleteColumn(ctx context.Context, doer *auth.User, columnID int64) error {
	if err := requireStructureEditor(doer); err != nil {
		return err
	}
	column, err := board_model.GetColumn(ctx, columnID)
	if err != nil {
		return err
	}
	release, err := globallock.Lock(ctx, boardLockKey(column.BoardID))
	if err != nil {
		return err
	}
	defer release()

	if err := board_model.DeleteColumn(ctx, columnID); err != nil {
		return err
	}
	broadcast.Send(column.BoardID, broadcast.EventColumnDeleted, map[string]any{
		"column_id": columnID,
	})
	return nil
}

// MoveColumns reorders the columns of a board. sortedColumnIDs maps the new
// position to the column id and must mention every column of the board.
func MoveColumns(ctx context.Context, doer *auth.User, boardID int64, sortedColumnIDs map[int64]int64) error {
	if err := requireStructureEditor(doer); err != nil {
		return err
	}
	b, err := board_model.GetBoardByID(ctx, boardID)
	if err != nil {
		return err
	}
	release, err := globallock.Lock(ctx, boardLockKey(b.ID))
	if err != nil {
		return err
	}
	defer release()

	if err := board_model.MoveColumns(ctx, b, sortedColumnIDs); err != nil {
		return err
	}
	broadcast.Send(b.ID, broadcast.EventColumnsMoved, sortedColumnIDs)
	return nil
}
