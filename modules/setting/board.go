// Copyright 2023 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package setting

// Board holds the kanban board settings
var Board = struct {
	// DefaultColumns are created on every new board, "Name:status" pairs
	DefaultColumns []string
	// MaxColumns caps the number of columns per board
	MaxColumns int
}{
	DefaultColumns: []string{"Todo:open", "In Progress:in_progress", "Done:done"},
	MaxColumns:     20,
}

func loadBoardFrom(cfg ConfigProvider) {
	sec := cfg.Section("board")
	if columns := sec.Key("DEFAULT_COLUMNS").Strings(","); len(columns) > 0 {
		Board.DefaultColumns = columns
	}
	Board.MaxColumns = sec.Key("MAX_COLUMNS").MustInt(20)
}
