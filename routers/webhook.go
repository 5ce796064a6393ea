// Copyright 2024 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package routers

import (
	"io"
	"net/http"

	board_model "github.com/deskboard/deskboard/models/board"
	"github.com/deskboard/deskboard/modules/util"
	board_service "github.com/deskboard/deskboard/services/board"
	"github.com/deskboard/deskboard/services/webhook"
)

// deliveries are small, a megabyte is already generous
const maxDeliveryBodySize = 1 << 20

func handleWebhookDelivery(w http.ResponseWriter, r *http.Request) {
	integrationID, err := pathID(r, "integrationID")
	if err != nil {
		renderError(w, err)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxDeliveryBodySize))
	if err != nil {
		renderError(w, util.NewInvalidArgumentErrorf("unable to read delivery body"))
		return
	}
	delivery, err := webhook.ProcessDelivery(r.Context(), integrationID,
		r.Header.Get(webhook.EventHeader), r.Header.Get(webhook.SignatureHeader), body)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, delivery)
}

func handleListIntegrations(w http.ResponseWriter, r *http.Request) {
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
	integrations, err := b.GetIntegrations(r.Context())
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, integrations)
}

func handleCreateIntegration(w http.ResponseWriter, r *http.Request) {
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
		Repo          string                   `json:"repo"`
		HookSecret    string                   `json:"hook_secret"`
		StatusMapping []board_model.StatusRule `json:"status_mapping"`
	}
	if err := decodeJSON(r, &form); err != nil {
		renderError(w, err)
		return
	}
	integration := &board_model.Integration{
		BoardID:       boardID,
		Repo:          form.Repo,
		HookSecret:    form.HookSecret,
		StatusMapping: form.StatusMapping,
	}
	if err := board_service.CreateIntegration(r.Context(), doer, integration); err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusCreated, integration)
}

func handleUpdateIntegration(w http.ResponseWriter, r *http.Request) {
	doer, err := requestUser(r)
	if err != nil {
		renderError(w, err)
		return
	}
	integrationID, err := pathID(r, "integrationID")
	if err != nil {
		renderError(w, err)
		return
	}
	integration, err := board_model.GetIntegrationByID(r.Context(), integrationID)
	if err != nil {
		renderError(w, err)
		return
	}
	var form struct {
		HookSecret    *string                   `json:"hook_secret"`
		StatusMapping *[]board_model.StatusRule `json:"status_mapping"`
	}
	if err := decodeJSON(r, &form); err != nil {
		renderError(w, err)
		return
	}
	if form.HookSecret != nil {
		integration.HookSecret = *form.HookSecret
	}
	if form.StatusMapping != nil {
		integration.StatusMapping = *form.StatusMapping
	}
	if err := board_service.UpdateIntegration(r.Context(), doer, integration); err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, integration)
}

func handleDeleteIntegration(w http.ResponseWriter, r *http.Request) {
	doer, err := requestUser(r)
	if err != nil {
		renderError(w, err)
		return
	}
	integrationID, err := pathID(r, "integrationID")
	if err != nil {
		renderError(w, err)
		return
	}
	if err := board_service.DeleteIntegration(r.Context(), doer, integrationID); err != nil {
		renderError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
