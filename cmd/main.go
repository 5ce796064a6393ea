// Copyright 2023 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd provides the command line interface of the kanban engine
package cmd

import (
	"context"

	"github.com/deskboard/deskboard/modules/setting"

	"github.com/urfave/cli/v3"
)

func appGlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   setting.CustomConf,
			Usage:   "Set custom config file",
		},
	}
}

func prepareConfig(_ context.Context, cmd *cli.Command) (context.Context, error) {
	setting.CustomConf = cmd.String("config")
	return nil, setting.InitProviderFromFile(setting.CustomConf)
}

// NewMainApp creates the main cli application
func NewMainApp(version string) *cli.Command {
	app := &cli.Command{
		Name:        "deskboard",
		Usage:       "Kanban engine of the Deskboard dashboard",
		Version:     version,
		Flags:       appGlobalFlags(),
		Before:      prepareConfig,
		DefaultCommand: "web",
		Commands: []*cli.Command{
			cmdWeb(),
		},
	}
	return app
}
