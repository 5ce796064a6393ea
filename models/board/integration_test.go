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

func TestNewIntegrationValidatesMapping(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	b, _ := prepareTestBoard(t, "integrations")

	// unknown status is rejected at creation time, not at webhook time
	err := NewIntegration(db.DefaultContext, &Integration{
		BoardID:    b.ID,
		Repo:       "acme/backend",
		HookSecret: "s3cret",
		StatusMapping: []StatusRule{
			{BranchPattern: "release/*", Status: "shipped"},
		},
	})
	assert.Error(t, err)

	// a rule needs at least one matcher
	err = NewIntegration(db.DefaultContext, &Integration{
		BoardID:       b.ID,
		Repo:          "acme/backend",
		HookSecret:    "s3cret",
		StatusMapping: []StatusRule{{Status: "done"}},
	})
	assert.Error(t, err)

	integration := &Integration{
		BoardID:    b.ID,
		Repo:       "acme/backend",
		HookSecret: "s3cret",
		StatusMapping: []StatusRule{
			{BranchPattern: "release/*", Status: "done"},
			{Keyword: "wip", Status: "in_progress"},
		},
	}
	require.NoError(t, NewIntegration(db.DefaultContext, integration))

	// one binding per (board, repo)
	err = NewIntegration(db.DefaultContext, &Integration{
		BoardID: b.ID, Repo: "acme/backend", HookSecret: "other",
	})
	assert.True(t, IsErrIntegrationRepoConflict(err), "expected repo conflict, got %v", err)
}

func TestResolveStatusFirstMatchWins(t *testing.T) {
	integration := &Integration{
		StatusMapping: []StatusRule{
			{BranchPattern: "release/*", Status: "done"},
			{Keyword: "fixes", Status: "done"},
			{Keyword: "wip", Status: "in_progress"},
			{BranchPattern: "feature/*", Status: "in_progress"},
		},
	}

	status, ok := integration.ResolveStatus("release/1.2", "whatever")
	assert.True(t, ok)
	assert.Equal(t, "done", status)

	// keyword match is case-insensitive
	status, ok = integration.ResolveStatus("main", "WIP: half done")
	assert.True(t, ok)
	assert.Equal(t, "in_progress", status)

	// first matching rule wins even if a later one also matches
	status, ok = integration.ResolveStatus("feature/x", "fixes the thing, still wip")
	assert.True(t, ok)
	assert.Equal(t, "done", status)

	_, ok = integration.ResolveStatus("main", "nothing relevant")
	assert.False(t, ok)
}

func TestUpdateIntegrationKeepsSecret(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	b, _ := prepareTestBoard(t, "intupdate")

	integration := &Integration{BoardID: b.ID, Repo: "acme/api", HookSecret: "original"}
	require.NoError(t, NewIntegration(db.DefaultContext, integration))

	// empty secret on update means "keep the old one"
	require.NoError(t, UpdateIntegration(db.DefaultContext, &Integration{
		ID:            integration.ID,
		StatusMapping: []StatusRule{{Keyword: "done", Status: "done"}},
	}))

	loaded, err := GetIntegrationByID(db.DefaultContext, integration.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", loaded.HookSecret)
	assert.Len(t, loaded.StatusMapping, 1)
}
