// Copyright 2024 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package routers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	board_model "github.com/deskboard/deskboard/models/board"
	"github.com/deskboard/deskboard/models/db"
	"github.com/deskboard/deskboard/models/unittest"
	"github.com/deskboard/deskboard/modules/json"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	unittest.MainTest(m)
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string, asManager bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if asManager {
		req.Header.Set("X-User-ID", "1")
		req.Header.Set("X-User-Name", "root")
		req.Header.Set("X-User-Role", "manager")
	}
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func TestBoardLifecycleOverHTTP(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	handler := NormalRoutes()

	resp := doRequest(t, handler, "POST", "/api/v1/boards", `{"name":"Sprint 12"}`, true)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var state struct {
		Board struct {
			ID int64 `json:"id"`
		} `json:"board"`
		Columns []struct {
			Column struct {
				ID     int64  `json:"id"`
				Status string `json:"status"`
			} `json:"column"`
		} `json:"columns"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &state))
	require.Len(t, state.Columns, 3)
	assert.Equal(t, "open", state.Columns[0].Column.Status)

	resp = doRequest(t, handler, "GET", fmt.Sprintf("/api/v1/boards/%d", state.Board.ID), "", true)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = doRequest(t, handler, "PATCH", fmt.Sprintf("/api/v1/boards/%d", state.Board.ID), `{"name":"Sprint 13"}`, true)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = doRequest(t, handler, "DELETE", fmt.Sprintf("/api/v1/boards/%d", state.Board.ID), "", true)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = doRequest(t, handler, "GET", fmt.Sprintf("/api/v1/boards/%d", state.Board.ID), "", true)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestMoveTaskOverHTTP(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	handler := NormalRoutes()

	b := &board_model.Board{Name: "http-move", OwnerID: 1}
	require.NoError(t, board_model.NewBoard(db.DefaultContext, b))
	columns, err := b.GetColumns(db.DefaultContext)
	require.NoError(t, err)
	task := &board_model.Task{BoardID: b.ID, ColumnID: columns[0].ID, Code: "HTTP-1", Title: "t"}
	require.NoError(t, board_model.NewTask(db.DefaultContext, task))

	body := fmt.Sprintf(`{"column_id":%d,"index":0}`, columns[1].ID)
	resp := doRequest(t, handler, "POST", fmt.Sprintf("/api/v1/tasks/%d/move", task.ID), body, true)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var moved board_model.Task
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &moved))
	assert.Equal(t, "in_progress", moved.Status)
	assert.EqualValues(t, 0, moved.Position)
}

func TestErrorStatusMapping(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	handler := NormalRoutes()

	// no identity headers
	resp := doRequest(t, handler, "POST", "/api/v1/boards", `{"name":"x"}`, false)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	// employees cannot edit structure
	req := httptest.NewRequest("POST", "/api/v1/boards", strings.NewReader(`{"name":"x"}`))
	req.Header.Set("X-User-ID", "2")
	req.Header.Set("X-User-Role", "employee")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	resp = doRequest(t, handler, "GET", "/api/v1/boards/424242", "", true)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = doRequest(t, handler, "PATCH", "/api/v1/boards/abc", `{}`, true)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// conflicting column status
	b := &board_model.Board{Name: "http-conflict", OwnerID: 1}
	require.NoError(t, board_model.NewBoard(db.DefaultContext, b))
	body := `{"name":"Another","status":"open"}`
	resp = doRequest(t, handler, "POST", fmt.Sprintf("/api/v1/boards/%d/columns", b.ID), body, true)
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestWebhookEndpoint(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	handler := NormalRoutes()

	b := &board_model.Board{Name: "http-hook", OwnerID: 1}
	require.NoError(t, board_model.NewBoard(db.DefaultContext, b))
	integration := &board_model.Integration{
		BoardID:    b.ID,
		Repo:       "acme/backend",
		HookSecret: "s3cr3t",
		StatusMapping: []board_model.StatusRule{
			{Keyword: "fixes", Status: "done"},
		},
	}
	require.NoError(t, board_model.NewIntegration(db.DefaultContext, integration))

	// a bad signature is rejected before any payload parsing
	req := httptest.NewRequest("POST", fmt.Sprintf("/hooks/%d", integration.ID),
		strings.NewReader(`{"ref":"refs/heads/main"}`))
	req.Header.Set("X-Github-Event", "push")
	req.Header.Set("X-Hub-Signature-256", "sha256=0000")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp2 := doRequest(t, handler, "POST", "/hooks/999999", `{}`, false)
	assert.Equal(t, http.StatusNotFound, resp2.Code)
}
