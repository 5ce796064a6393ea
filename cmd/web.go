// Copyright 2023 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deskboard/deskboard/models/db"
	"github.com/deskboard/deskboard/modules/log"
	"github.com/deskboard/deskboard/modules/setting"
	"github.com/deskboard/deskboard/routers"
	"github.com/deskboard/deskboard/services/broadcast"

	"github.com/urfave/cli/v3"
)

func cmdWeb() *cli.Command {
	return &cli.Command{
		Name:   "web",
		Usage:  "Start the web server",
		Action: runWeb,
	}
}

func runWeb(ctx context.Context, _ *cli.Command) error {
	log.Info("Starting %s", setting.AppName)

	if err := db.InitEngine(ctx); err != nil {
		log.Fatal("unable to connect to the database: %v", err)
	}
	if err := db.SyncAllTables(); err != nil {
		log.Fatal("unable to sync database schema: %v", err)
	}

	addr := net.JoinHostPort(setting.HTTPAddr, setting.HTTPPort)
	server := &http.Server{
		Addr:    addr,
		Handler: routers.NormalRoutes(),
	}

	shutdownCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("Listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed: %v", err)
		}
	}()

	<-shutdownCtx.Done()
	log.Info("Shutting down")

	gracefulCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(gracefulCtx); err != nil {
		log.Error("graceful shutdown failed: %v", err)
	}
	broadcast.GetManager().UnregisterAll()
	return nil
}
