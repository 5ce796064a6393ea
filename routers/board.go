// Copyright 2024 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package routers

import (
	"net/http"
	"strconv"

	board_model "github.com/deskboard/deskboard/models/board"
	"github.com/deskboard/deskboard/modules/util"
	board_service "github.com/deskboard/deskboard/services/board"

	"github.com/go-chi/chi/v5"
)

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, util.NewInvalidArgumentErrorf("invalid %s", name)
	}
	return id, nil
}

func handleListBoards(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	boards, err := board_model.FindBoards(r.Context(), activeOnly)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, boards)
}

func handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	doer, err := requestUser(r)
	if err != nil {
		renderError(w, err)
		return
	}
	var form struct {
		Name      string `json:"name"`
		ProjectID int64  `json:"project_id"`
	}
	if err := decodeJSON(r, &form); err != nil {
		renderError(w, err)
		return
	}
	b := &board_model.Board{Name: form.Name, ProjectID: form.ProjectID}
	if err := board_service.CreateBoard(r.Context(), doer, b); err != nil {
		renderError(w, err)
		return
	}
	state, err := board_service.GetBoardState(r.Context(), b.ID)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusCreated, state)
}

func handleGetBoardState(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathID(r, "boardID")
	if err != nil {
		renderError(w, err)
		return
	}
	state, err := board_service.GetBoardState(r.Context(), boardID)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, state)
}

func handleUpdateBoard(w http.ResponseWriter, r *http.Request) {
	doer, err := requestUser(r)
	if err != nil {
		renderError(w, err)
		return
	}
	boardID, err := pathID(r, "boardID")
	if err != nil {
		renderError(w, err)
		return
	}
	b, err := board_model.GetBoardByID(r.Context(), boardID)
	if err != nil {
		renderError(w, err)
		return
	}
	var form struct {
		Name      *string `json:"name"`
		ProjectID *int64  `json:"project_id"`
	}
	if err := decodeJSON(r, &form); err != nil {
		renderError(w, err)
		return
	}
	if form.Name != nil {
		b.Name = *form.Name
	}
	if form.ProjectID != nil {
		b.ProjectID = *form.ProjectID
	}
	if err := board_service.UpdateBoard(r.Context(), doer, b); err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, b)
}

func handleSetBoardActive(w http.ResponseWriter, r *http.Request) {
	doer, err := requestUser(r)
	if err != nil {
		renderError(w, err)
		return
	}
	boardID, err := pathID(r, "boardID")
	if err != nil {
		renderError(w, err)
		return
	}
	var form struct {
		IsActive bool `json:"is_active"`
	}
	if err := decodeJSON(r, &form); err != nil {
		renderError(w, err)
		return
	}
	if err := board_service.SetBoardActive(r.Context(), doer, boardID, form.IsActive); err != nil {
		renderError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func handleDeleteBoard(w http.ResponseWriter, r *http.Request) {
	doer, err := requestUser(r)
	if err != nil {
		renderError(w, err)
		return
	}
	boardID, err := pathID(r, "boardID")
	if err != nil {
		renderError(w, err)
		return
	}
	if err := board_service.DeleteBoard(r.Context(), doer, boardID); err != nil {
		renderError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func handleCreateColumn(w http.ResponseWriter, r *http.Request) {
	doer, err := requestUser(r)
	if err != nil {
		renderError(w, err)
		return
	}
	boardID, err := pathID(r, "boardID")
	if err != nil {
		renderError(w, err)
		return
	}
	var form struct {
		Name     string `json:"name"`
		Status   string `json:"status"`
		WipLimit int64  `json:"wip_limit"`
	}
	if err := decodeJSON(r, &form); err != nil {
		renderError(w, err)
		return
	}
	column := &board_model.Column{
		BoardID:  boardID,
		Name:     form.Name,
		Status:   form.Status,
		WipLimit: form.WipLimit,
	}
	if err := board_service.CreateColumn(r.Context(), doer, column); err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusCreated, column)
}

func handleUpdateColumn(w http.ResponseWriter, r *http.Request) {
	doer, err := requestUser(r)
	if err != nil {
		renderError(w, err)
		return
	}
	columnID, err := pathID(r, "columnID")
	if err != nil {
		renderError(w, err)
		return
	}
	column, err := board_model.GetColumn(r.Context(), columnID)
	if err != nil {
		renderError(w, err)
		return
	}
	var form struct {
		Name     *string `json:"name"`
		Status   *string `json:"status"`
		WipLimit *int64  `json:"wip_limit"`
	}
	if err := decodeJSON(r, &form); err != nil {
		renderError(w, err)
		return
	}
	if form.Name != nil {
		column.Name = *form.Name
	}
	if form.Status != nil {
		column.Status = *form.Status
	}
	if form.WipLimit != nil {
		column.WipLimit = *form.WipLimit
	}
	if err := board_service.UpdateColumn(r.Context(), doer, column); err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, column)
}

func handleDeleteColumn(w http.ResponseWriter, r *http.Request) {
	doer, err := requestUser(r)
	if err != nil {
		renderError(w, err)
		return
	}
	columnID, err := pathID(r, "columnID")
	if err != nil {
		renderError(w, err)
		return
	}
	if err := board_service.DeleteColumn(r.Context(), doer, columnID); err != nil {
		renderError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func handleMoveColumns(w http.ResponseWriter, r *http.Request) {
	doer, err := requestUser(r)
	if err != nil {
		renderError(w, err)
		return
	}
	boardID, err := pathID(r, "boardID")
	if err != nil {
		renderError(w, err)
		return
	}
	var form struct {
		// new position -> column id, every column of the board
		Columns map[int64]int64 `json:"columns"`
	}
	if err := decodeJSON(r, &form); err != nil {
		renderError(w, err)
		return
	}
	if err := board_service.MoveColumns(r.Context(), doer, boardID, form.Columns); err != nil {
		renderError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
