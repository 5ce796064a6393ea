// Copyright 2023 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package auth is the narrow interface to the dashboard's authentication and
// role system. The kanban core never evaluates permissions itself; it only
// asks who the current user is and whether their role belongs to the fixed
// set allowed to edit board structure.
package auth

import (
	"context"

	"github.com/deskboard/deskboard/modules/util"
)

// Role is the dashboard role of a user, assigned by the external RBAC module
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// CanEditBoardStructure reports whether the role may create, edit or delete
// boards and columns. Moving tasks and tracking time is open to every role.
func (r Role) CanEditBoardStructure() bool {
	switch r {
	case RoleAdmin, RoleManager:
		return true
	default:
		return false
	}
}

// User is the identity handed over by the external auth module
type User struct {
	ID   int64
	Name string
	Role Role
}

// Service resolves the user a request acts on behalf of
type Service interface {
	// CurrentUser returns the authenticated user for the context, or an
	// error unwrapping to util.ErrPermissionDenied when there is none.
	CurrentUser(ctx context.Context) (*User, error)
}

type contextKey struct{}

// WithUser stores the user in the context, done by the router middleware
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// ContextService reads the user previously stored in the request context
type ContextService struct{}

// CurrentUser implements Service
func (ContextService) CurrentUser(ctx context.Context) (*User, error) {
	user, ok := ctx.Value(contextKey{}).(*User)
	if !ok || user == nil {
		return nil, util.NewPermissionDeniedErrorf("no authenticated user in context")
	}
	return user, nil
}
