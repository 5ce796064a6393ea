// Copyright 2024 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package routers

import (
	"context"
	"errors"
	"net/http"

	"github.com/deskboard/deskboard/modules/json"
	"github.com/deskboard/deskboard/modules/log"
	"github.com/deskboard/deskboard/modules/util"
)

type apiError struct {
	Message string `json:"message"`
}

func renderJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json;charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("unable to write JSON response: %v", err)
	}
}

// renderError maps the error taxonomy of the models and services onto HTTP
// statuses. Anything unrecognized is a 500 and logged; its text is not
// leaked to the client.
func renderError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, util.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, util.ErrPermissionDenied):
		status = http.StatusUnauthorized
	case errors.Is(err, util.ErrNotExist):
		status = http.StatusNotFound
	case errors.Is(err, util.ErrAlreadyExist):
		status = http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		// transient, the caller (or the source-control system) may retry
		status = http.StatusServiceUnavailable
	default:
		log.Error("internal error serving request: %v", err)
		renderJSON(w, http.StatusInternalServerError, apiError{Message: "internal server error"})
		return
	}
	renderJSON(w, status, apiError{Message: err.Error()})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return util.NewInvalidArgumentErrorf("malformed request body: %v", err)
	}
	return nil
}
