// Copyright 2024 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package board

import (
	"context"

	board_model "github.com/deskboard/deskboard/models/board"
	"github.com/deskboard/deskboard/services/auth"
)

// CreateIntegration binds a repository to a board. Managing integrations is
// restricted like structure edits, the binding carries the hook secret.
func CreateIntegration(ctx context.Context, doer *auth.User, integration *board_model.Integration) error {
	if err := requireStructureEditor(doer); err != nil {
		return err
	}
	return board_model.NewIntegration(ctx, integration)
}

// UpdateIntegration updates a binding's secret and status mapping
func UpdateIntegration(ctx context.Context, doer *auth.User, integration *board_model.Integration) error {
	if err := requireStructureEditor(doer); err != nil {
		return err
	}
	return board_model.UpdateIntegration(ctx, integration)
}

// DeleteIntegration removes a repository binding
func DeleteIntegration(ctx context.Context, doer *auth.User, integrationID int64) error {
	if err := requireStructureEditor(doer); err != nil {
		return err
	}
	return board_model.DeleteIntegrationByID(ctx, integrationID)
}
