// Copyright 2023 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package board contains the persisted state of the kanban core: boards,
// columns, tasks, integrations, time logs and the transition history.
// All mutations go through the db package transactions.
package board

import (
	"context"
	"fmt"
	"strings"

	"github.com/deskboard/deskboard/models/db"
	"github.com/deskboard/deskboard/modules/setting"
	"github.com/deskboard/deskboard/modules/timeutil"
	"github.com/deskboard/deskboard/modules/util"
)

// Board represents a kanban board, optionally tied to a project
type Board struct {
	ID        int64  `xorm:"pk autoincr"`
	Name      string `xorm:"NOT NULL"`
	ProjectID int64  `xorm:"INDEX"` // foreign link to the project module, not enforced here
	IsActive  bool   `xorm:"NOT NULL DEFAULT true"`
	OwnerID   int64  `xorm:"NOT NULL"`
	UpdaterID int64

	CreatedUnix timeutil.TimeStamp `xorm:"INDEX created"`
	UpdatedUnix timeutil.TimeStamp `xorm:"updated"`
}

func init() {
	db.RegisterModel(new(Board))
}

// ErrBoardNotExist represents a "BoardNotExist" kind of error.
type ErrBoardNotExist struct {
	ID int64
}

// IsErrBoardNotExist checks if an error is a ErrBoardNotExist
func IsErrBoardNotExist(err error) bool {
	_, ok := err.(ErrBoardNotExist)
	return ok
}

func (err ErrBoardNotExist) Error() string {
	return fmt.Sprintf("board does not exist [id: %d]", err.ID)
}

func (err ErrBoardNotExist) Unwrap() error {
	return util.ErrNotExist
}

// NewBoard creates a new board and its default columns
func NewBoard(ctx context.Context, board *Board) error {
	if strings.TrimSpace(board.Name) == "" {
		return util.NewInvalidArgumentErrorf("board name is empty")
	}
	board.IsActive = true

	return db.WithTx(ctx, func(ctx context.Context) error {
		if err := db.Insert(ctx, board); err != nil {
			return err
		}
		return createDefaultColumns(ctx, board)
	})
}

func createDefaultColumns(ctx context.Context, board *Board) error {
	columns := make([]*Column, 0, len(setting.Board.DefaultColumns))
	for i, item := range setting.Board.DefaultColumns {
		name, status, ok := strings.Cut(item, ":")
		if !ok {
			return util.NewInvalidArgumentErrorf("malformed default column %q", item)
		}
		columns = append(columns, &Column{
			BoardID:  board.ID,
			Name:     name,
			Status:   status,
			Position: int64(i),
			Default:  i == 0,
		})
	}
	if len(columns) == 0 {
		return nil
	}
	return db.Insert(ctx, columns)
}

// GetBoardByID returns the board with the given ID
func GetBoardByID(ctx context.Context, id int64) (*Board, error) {
	b := new(Board)
	has, err := db.GetEngine(ctx).ID(id).Get(b)
	if err != nil {
		return nil, err
	} else if !has {
		return nil, ErrBoardNotExist{ID: id}
	}
	return b, nil
}

// FindBoards returns all boards, active ones first, newest first within that
func FindBoards(ctx context.Context, activeOnly bool) ([]*Board, error) {
	boards := make([]*Board, 0, 10)
	sess := db.GetEngine(ctx).OrderBy("is_active DESC, id DESC")
	if activeOnly {
		sess = sess.Where("is_active = ?", true)
	}
	return boards, sess.Find(&boards)
}

// UpdateBoard updates the mutable fields of a board
func UpdateBoard(ctx context.Context, board *Board) error {
	if strings.TrimSpace(board.Name) == "" {
		return util.NewInvalidArgumentErrorf("board name is empty")
	}
	count, err := db.GetEngine(ctx).ID(board.ID).
		Cols("name", "project_id", "updater_id").Update(board)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrBoardNotExist{ID: board.ID}
	}
	return nil
}

// SetBoardActive soft-enables or soft-disables a board
func SetBoardActive(ctx context.Context, boardID int64, isActive bool) error {
	count, err := db.GetEngine(ctx).ID(boardID).
		Cols("is_active").Update(&Board{IsActive: isActive})
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrBoardNotExist{ID: boardID}
	}
	return nil
}

// DeleteBoardByID removes a board and everything it contains: columns,
// tasks, integrations, time logs and task history. A deleted board leaves
// no orphans.
func DeleteBoardByID(ctx context.Context, boardID int64) error {
	return db.WithTx(ctx, func(ctx context.Context) error {
		board, err := GetBoardByID(ctx, boardID)
		if err != nil {
			if IsErrBoardNotExist(err) {
				return nil
			}
			return err
		}

		taskIDs := make([]int64, 0, 10)
		if err := db.GetEngine(ctx).Table("task").
			Where("board_id = ?", board.ID).Cols("id").Find(&taskIDs); err != nil {
			return err
		}

		if len(taskIDs) > 0 {
			if _, err := db.GetEngine(ctx).In("task_id", taskIDs).Delete(&TaskHistory{}); err != nil {
				return err
			}
			if _, err := db.GetEngine(ctx).In("task_id", taskIDs).Delete(&TimeLog{}); err != nil {
				return err
			}
		}
		for _, bean := range []any{new(Task), new(Column), new(Integration)} {
			if _, err := db.GetEngine(ctx).Where("board_id = ?", board.ID).Delete(bean); err != nil {
				return err
			}
		}

		_, err = db.DeleteByID(ctx, board.ID, new(Board))
		return err
	})
}
