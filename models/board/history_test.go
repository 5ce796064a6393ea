// Copyright 2023 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package board

import (
	"testing"

	"github.com/deskboard/deskboard/models/db"
	"github.com/deskboard/deskboard/models/unittest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistorySourceIsValid(t *testing.T) {
	for _, source := range []HistorySource{SourceManual, SourceGithub, SourceSocket, SourceBulk} {
		assert.True(t, source.IsValid())
	}
	assert.False(t, HistorySource("cron").IsValid())
}

func TestListHistoryOrdersAscending(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())

	for i, transition := range []struct {
		old, new string
	}{
		{"open", "in_progress"},
		{"in_progress", "done"},
		{"done", "open"},
	} {
		require.NoError(t, AddHistory(db.DefaultContext, &TaskHistory{
			TaskID:    7,
			Source:    SourceManual,
			OldStatus: transition.old,
			NewStatus: transition.new,
			ChangedBy: int64(i + 1),
		}))
	}

	entries, err := ListHistory(db.DefaultContext, 7)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "open", entries[0].OldStatus)
	assert.Equal(t, "done", entries[1].NewStatus)
	assert.Equal(t, "open", entries[2].NewStatus)

	// a different task has no entries
	entries, err = ListHistory(db.DefaultContext, 8)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
