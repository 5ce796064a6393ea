// Copyright 2024 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package routers

import (
	"net/http"

	board_model "github.com/deskboard/deskboard/models/board"
	board_service "github.com/deskboard/deskboard/services/board"
	"github.com/deskboard/deskboard/services/timetracker"
)

func handleCreateTask(w http.ResponseWriter, r *http.Request) {
	doer, err := requestUser(r)
	if err != nil {
		renderError(w, err)
		return
	}
	var form struct {
		BoardID       int64   `json:"board_id"`
		ColumnID      int64   `json:"column_id"`
		Code          string  `json:"code"`
		Title         string  `json:"title"`
		AssigneeID    int64   `json:"assignee_id"`
		EstimatedTime float64 `json:"estimated_time"`
	}
	if err := decodeJSON(r, &form); err != nil {
		renderError(w, err)
		return
	}
	task := &board_model.Task{
		BoardID:       form.BoardID,
		ColumnID:      form.ColumnID,
		Code:          form.Code,
		Title:         form.Title,
		AssigneeID:    form.AssigneeID,
		EstimatedTime: form.EstimatedTime,
	}
	if err := board_service.CreateTask(r.Context(), doer, task); err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusCreated, task)
}

func handleGetTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "taskID")
	if err != nil {
		renderError(w, err)
		return
	}
	task, err := board_model.GetTaskByID(r.Context(), taskID)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, task)
}

func handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	doer, err := requestUser(r)
	if err != nil {
		renderError(w, err)
		return
	}
	taskID, err := pathID(r, "taskID")
	if err != nil {
		renderError(w, err)
		return
	}
	task, err := board_model.GetTaskByID(r.Context(), taskID)
	if err != nil {
		renderError(w, err)
		return
	}
	var form struct {
		Title         *string  `json:"title"`
		AssigneeID    *int64   `json:"assignee_id"`
		EstimatedTime *float64 `json:"estimated_time"`
	}
	if err := decodeJSON(r, &form); err != nil {
		renderError(w, err)
		return
	}
	if form.Title != nil {
		task.Title = *form.Title
	}
	if form.AssigneeID != nil {
		task.AssigneeID = *form.AssigneeID
	}
	if form.EstimatedTime != nil {
		task.EstimatedTime = *form.EstimatedTime
	}
	if err := board_service.UpdateTask(r.Context(), doer, task); err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, task)
}

func handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	doer, err := requestUser(r)
	if err != nil {
		renderError(w, err)
		return
	}
	taskID, err := pathID(r, "taskID")
	if err != nil {
		renderError(w, err)
		return
	}
	if err := board_service.DeleteTask(r.Context(), doer, taskID); err != nil {
		renderError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func handleMoveTask(w http.ResponseWriter, r *http.Request) {
	doer, err := requestUser(r)
	if err != nil {
		renderError(w, err)
		return
	}
	taskID, err := pathID(r, "taskID")
	if err != nil {
		renderError(w, err)
		return
	}
	var form struct {
		ColumnID int64 `json:"column_id"`
		Index    int   `json:"index"`
	}
	if err := decodeJSON(r, &form); err != nil {
		renderError(w, err)
		return
	}
	task, err := board_service.MoveTask(r.Context(), board_service.MoveTaskOptions{
		TaskID:         taskID,
		TargetColumnID: form.ColumnID,
		TargetIndex:    form.Index,
		Source:         board_model.SourceManual,
		ChangedBy:      doer.ID,
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, task)
}

func handleListHistory(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "taskID")
	if err != nil {
		renderError(w, err)
		return
	}
	if _, err := board_model.GetTaskByID(r.Context(), taskID); err != nil {
		renderError(w, err)
		return
	}
	history, err := board_model.ListHistory(r.Context(), taskID)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, history)
}

func handleStartTimer(w http.ResponseWriter, r *http.Request) {
	doer, err := requestUser(r)
	if err != nil {
		renderError(w, err)
		return
	}
	taskID, err := pathID(r, "taskID")
	if err != nil {
		renderError(w, err)
		return
	}
	tl, err := timetracker.StartTimer(r.Context(), taskID, doer.ID)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusCreated, tl)
}

func handleStopTimer(w http.ResponseWriter, r *http.Request) {
	doer, err := requestUser(r)
	if err != nil {
		renderError(w, err)
		return
	}
	taskID, err := pathID(r, "taskID")
	if err != nil {
		renderError(w, err)
		return
	}
	tl, err := timetracker.StopTimer(r.Context(), taskID, doer.ID)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, tl)
}

func handleGetActiveTimer(w http.ResponseWriter, r *http.Request) {
	doer, err := requestUser(r)
	if err != nil {
		renderError(w, err)
		return
	}
	taskID, err := pathID(r, "taskID")
	if err != nil {
		renderError(w, err)
		return
	}
	tl, err := timetracker.GetActiveTimer(r.Context(), taskID, doer.ID)
	if err != nil {
		renderError(w, err)
		return
	}
	if tl == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	renderJSON(w, http.StatusOK, tl)
}

func handleListTimeLogs(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "taskID")
	if err != nil {
		renderError(w, err)
		return
	}
	if _, err := board_model.GetTaskByID(r.Context(), taskID); err != nil {
		renderError(w, err)
		return
	}
	logs, err := timetracker.ListTimeLogs(r.Context(), taskID)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, logs)
}
