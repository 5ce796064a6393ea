// Copyright 2023 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Deskboard's kanban engine: the task board, time tracking and
// source-control integration core of the Deskboard dashboard.
package main

import (
	"context"
	"os"

	"github.com/deskboard/deskboard/cmd"
	"github.com/deskboard/deskboard/modules/log"
	"github.com/deskboard/deskboard/modules/setting"
)

// Version is set at build time via -ldflags
var Version = "development"

func main() {
	setting.AppVer = Version
	app := cmd.NewMainApp(Version)
	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal("failed to run app: %v", err)
	}
}
