// Copyright 2023 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package board

import (
	"context"
	"fmt"
	"strings"

	"github.com/deskboard/deskboard/models/db"
	"github.com/deskboard/deskboard/modules/setting"
	"github.com/deskboard/deskboard/modules/timeutil"
	"github.com/deskboard/deskboard/modules/util"

	"xorm.io/builder"
)

// Column is an ordered lane on a board. Its status label is the canonical
// status every task placed in it takes.
type Column struct {
	ID       int64  `xorm:"pk autoincr"`
	BoardID  int64  `xorm:"UNIQUE(s) INDEX NOT NULL"`
	Name     string `xorm:"NOT NULL"`
	Status   string `xorm:"UNIQUE(s) NOT NULL"`
	Position int64  `xorm:"NOT NULL DEFAULT 0"`
	WipLimit int64  `xorm:"NOT NULL DEFAULT 0"` // 0 means unlimited
	Default  bool   `xorm:"NOT NULL DEFAULT false"` // tasks of a deleted column end up here

	CreatedUnix timeutil.TimeStamp `xorm:"created"`
	UpdatedUnix timeutil.TimeStamp `xorm:"updated"`
}

// TableName returns the real table name
func (Column) TableName() string {
	return "board_column"
}

func init() {
	db.RegisterModel(new(Column))
}

// ColumnList is a list of all columns of a board
type ColumnList []*Column

// ErrColumnNotExist represents a "ColumnNotExist" kind of error.
type ErrColumnNotExist struct {
	ColumnID int64
}

// IsErrColumnNotExist checks if an error is a ErrColumnNotExist
func IsErrColumnNotExist(err error) bool {
	_, ok := err.(ErrColumnNotExist)
	return ok
}

func (err ErrColumnNotExist) Error() string {
	return fmt.Sprintf("column does not exist [id: %d]", err.ColumnID)
}

func (err ErrColumnNotExist) Unwrap() error {
	return util.ErrNotExist
}

// ErrColumnStatusConflict represents the (board_id, status) uniqueness violation:
// two columns on one board cannot claim the same status.
type ErrColumnStatusConflict struct {
	BoardID int64
	Status  string
}

// IsErrColumnStatusConflict checks if an error is a ErrColumnStatusConflict
func IsErrColumnStatusConflict(err error) bool {
	_, ok := err.(ErrColumnStatusConflict)
	return ok
}

func (err ErrColumnStatusConflict) Error() string {
	return fmt.Sprintf("another column on board %d already has status %q", err.BoardID, err.Status)
}

func (err ErrColumnStatusConflict) Unwrap() error {
	return util.ErrAlreadyExist
}

// NewColumn adds a new column to the right end of a board
func NewColumn(ctx context.Context, column *Column) error {
	if strings.TrimSpace(column.Name) == "" || strings.TrimSpace(column.Status) == "" {
		return util.NewInvalidArgumentErrorf("column name and status must not be empty")
	}

	return db.WithTx(ctx, func(ctx context.Context) error {
		if _, err := GetBoardByID(ctx, column.BoardID); err != nil {
			return err
		}

		res := struct {
			MaxPosition int64
			ColumnCount int64
		}{}
		if _, err := db.GetEngine(ctx).Select("max(position) as max_position, count(*) as column_count").
			Table("board_column").Where("board_id = ?", column.BoardID).Get(&res); err != nil {
			return err
		}
		if res.ColumnCount >= int64(setting.Board.MaxColumns) {
			return util.NewInvalidArgumentErrorf("maximum number of columns reached")
		}

		if taken, err := statusTaken(ctx, column.BoardID, column.Status, 0); err != nil {
			return err
		} else if taken {
			return ErrColumnStatusConflict{BoardID: column.BoardID, Status: column.Status}
		}

		column.Position = util.Iif(res.ColumnCount > 0, res.MaxPosition+1, 0)
		return db.Insert(ctx, column)
	})
}

func statusTaken(ctx context.Context, boardID int64, status string, excludeColumnID int64) (bool, error) {
	cond := builder.Eq{"board_id": boardID, "status": status}
	if excludeColumnID > 0 {
		return db.GetEngine(ctx).Where(cond).And("id <> ?", excludeColumnID).Exist(new(Column))
	}
	return db.GetEngine(ctx).Where(cond).Exist(new(Column))
}

// GetColumn returns the column with the given ID
func GetColumn(ctx context.Context, columnID int64) (*Column, error) {
	column := new(Column)
	has, err := db.GetEngine(ctx).ID(columnID).Get(column)
	if err != nil {
		return nil, err
	} else if !has {
		return nil, ErrColumnNotExist{ColumnID: columnID}
	}
	return column, nil
}

// GetColumnByStatus returns the board's column carrying the given status
func GetColumnByStatus(ctx context.Context, boardID int64, status string) (*Column, error) {
	column := new(Column)
	has, err := db.GetEngine(ctx).
		Where("board_id = ? AND status = ?", boardID, status).Get(column)
	if err != nil {
		return nil, err
	} else if !has {
		return nil, ErrColumnNotExist{}
	}
	return column, nil
}

// GetColumns returns all columns of a board ordered left to right
func (b *Board) GetColumns(ctx context.Context) (ColumnList, error) {
	columns := make([]*Column, 0, 5)
	if err := db.GetEngine(ctx).Where("board_id = ?", b.ID).
		OrderBy("position, id").Find(&columns); err != nil {
		return nil, err
	}
	return columns, nil
}

// GetDefaultColumn returns the default column of a board and ensures one exists
func (b *Board) GetDefaultColumn(ctx context.Context) (*Column, error) {
	var column Column
	has, err := db.GetEngine(ctx).
		Where("board_id = ? AND `default` = ?", b.ID, true).
		Desc("id").Get(&column)
	if err != nil {
		return nil, err
	}
	if has {
		return &column, nil
	}

	// fall back to the leftmost column
	has, err = db.GetEngine(ctx).Where("board_id = ?", b.ID).
		OrderBy("position, id").Get(&column)
	if err != nil {
		return nil, err
	} else if !has {
		return nil, util.NewNotExistErrorf("board %d has no columns", b.ID)
	}
	return &column, nil
}

// UpdateColumn updates name, wip limit and status of a column. When the status
// label changes, every task inside the column follows it in the same
// transaction.
func UpdateColumn(ctx context.Context, column *Column) error {
	return db.WithTx(ctx, func(ctx context.Context) error {
		current, err := GetColumn(ctx, column.ID)
		if err != nil {
			return err
		}

		if column.Status != "" && column.Status != current.Status {
			if taken, err := statusTaken(ctx, current.BoardID, column.Status, column.ID); err != nil {
				return err
			} else if taken {
				return ErrColumnStatusConflict{BoardID: current.BoardID, Status: column.Status}
			}
			if _, err := db.Exec(ctx, "UPDATE `task` SET status = ? WHERE column_id = ?",
				column.Status, column.ID); err != nil {
				return err
			}
		}

		_, err = db.GetEngine(ctx).ID(column.ID).
			Cols("name", "status", "wip_limit").Update(column)
		return err
	})
}

// DeleteColumn removes a column, moving its tasks to the board's default
// column. The default column itself cannot be deleted.
func DeleteColumn(ctx context.Context, columnID int64) error {
	return db.WithTx(ctx, func(ctx context.Context) error {
		column, err := GetColumn(ctx, columnID)
		if err != nil {
			if IsErrColumnNotExist(err) {
				return nil
			}
			return err
		}
		if column.Default {
			return util.NewInvalidArgumentErrorf("cannot delete default column")
		}

		b, err := GetBoardByID(ctx, column.BoardID)
		if err != nil {
			return err
		}
		defaultColumn, err := b.GetDefaultColumn(ctx)
		if err != nil {
			return err
		}
		if defaultColumn.ID == column.ID {
			return util.NewInvalidArgumentErrorf("cannot delete default column")
		}

		if err := column.moveTasksToAnotherColumn(ctx, defaultColumn); err != nil {
			return err
		}

		_, err = db.DeleteByID(ctx, column.ID, new(Column))
		return err
	})
}

// moveTasksToAnotherColumn moves all tasks of the column to the end of the
// target column, adopting its status, and keeps positions dense.
func (c *Column) moveTasksToAnotherColumn(ctx context.Context, target *Column) error {
	if c.BoardID != target.BoardID {
		return util.NewInvalidArgumentErrorf("columns do not belong to the same board")
	}

	tasks, err := c.GetTasks(ctx)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		return nil
	}

	nextPosition, err := nextTaskPosition(ctx, target.ID)
	if err != nil {
		return err
	}
	for i, task := range tasks {
		if _, err := db.Exec(ctx,
			"UPDATE `task` SET column_id = ?, status = ?, position = ? WHERE id = ?",
			target.ID, target.Status, nextPosition+int64(i), task.ID); err != nil {
			return err
		}
	}
	return nil
}

// MoveColumns reorders the columns of a board according to the given mapping
// of position to column ID. Positions become dense 0..n-1.
func MoveColumns(ctx context.Context, b *Board, sortedColumnIDs map[int64]int64) error {
	return db.WithTx(ctx, func(ctx context.Context) error {
		columnIDs := make([]int64, 0, len(sortedColumnIDs))
		for _, id := range sortedColumnIDs {
			columnIDs = append(columnIDs, id)
		}
		count, err := db.GetEngine(ctx).Where("board_id = ?", b.ID).
			In("id", columnIDs).Count(new(Column))
		if err != nil {
			return err
		}
		if int(count) != len(sortedColumnIDs) {
			return util.NewInvalidArgumentErrorf("some columns do not belong to board %d", b.ID)
		}

		for position, columnID := range sortedColumnIDs {
			if _, err := db.Exec(ctx, "UPDATE `board_column` SET position = ? WHERE id = ?",
				position, columnID); err != nil {
				return err
			}
		}
		return nil
	})
}
