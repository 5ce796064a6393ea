// Copyright 2024 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package routers

import (
	"net/http"
	"strconv"

	"github.com/deskboard/deskboard/services/auth"
)

// authMiddleware resolves the identity the surrounding dashboard attached to
// the proxied request. The kanban core trusts these headers; the dashboard's
// gateway strips them from anything arriving from outside.
func authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.Header.Get("X-User-ID"), 10, 64)
		if err == nil && userID > 0 {
			user := &auth.User{
				ID:   userID,
				Name: r.Header.Get("X-User-Name"),
				Role: auth.Role(r.Header.Get("X-User-Role")),
			}
			r = r.WithContext(auth.WithUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

// requestUser returns the authenticated user of the request, or an error
// unwrapping to util.ErrPermissionDenied
func requestUser(r *http.Request) (*auth.User, error) {
	return auth.ContextService{}.CurrentUser(r.Context())
}
