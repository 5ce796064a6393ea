// Copyright 2024 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package routers wires the HTTP surface of the kanban engine: the JSON API
// the dashboard frontend talks to, the inbound webhook endpoint and the
// websocket stream carrying live board events.
package routers

import (
	"net/http"

	"github.com/deskboard/deskboard/modules/setting"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NormalRoutes returns the full route table
func NormalRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if setting.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: setting.CORSAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "X-User-ID", "X-User-Name", "X-User-Role"},
		}))
	}

	// deliveries authenticate with their HMAC signature, not with headers
	r.Post("/hooks/{integrationID}", handleWebhookDelivery)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Route("/boards", func(r chi.Router) {
			r.Get("/", handleListBoards)
			r.Post("/", handleCreateBoard)

			r.Route("/{boardID}", func(r chi.Router) {
				r.Get("/", handleGetBoardState)
				r.Patch("/", handleUpdateBoard)
				r.Delete("/", handleDeleteBoard)
				r.Post("/active", handleSetBoardActive)
				r.Get("/events", handleBoardEvents)

				r.Route("/columns", func(r chi.Router) {
					r.Post("/", handleCreateColumn)
					r.Post("/move", handleMoveColumns)
				})
				r.Route("/integrations", func(r chi.Router) {
					r.Get("/", handleListIntegrations)
					r.Post("/", handleCreateIntegration)
				})
			})
		})

		r.Route("/columns/{columnID}", func(r chi.Router) {
			r.Patch("/", handleUpdateColumn)
			r.Delete("/", handleDeleteColumn)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", handleCreateTask)

			r.Route("/{taskID}", func(r chi.Router) {
				r.Get("/", handleGetTask)
				r.Patch("/", handleUpdateTask)
				r.Delete("/", handleDeleteTask)
				r.Post("/move", handleMoveTask)
				r.Get("/history", handleListHistory)

				r.Route("/timer", func(r chi.Router) {
					r.Get("/", handleGetActiveTimer)
					r.Post("/start", handleStartTimer)
					r.Post("/stop", handleStopTimer)
				})
				r.Get("/timelogs", handleListTimeLogs)
			})
		})

		r.Route("/integrations/{integrationID}", func(r chi.Router) {
			r.Patch("/", handleUpdateIntegration)
			r.Delete("/", handleDeleteIntegration)
		})
	})

	return r
}
