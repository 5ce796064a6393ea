// Copyright 2014 The Gogs Authors. All rights reserved.
// Copyright 2023 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package setting loads the application configuration from an ini file and
// exposes it as package-level variables, one file per section.
package setting

import (
	"os"

	"github.com/deskboard/deskboard/modules/log"

	"gopkg.in/ini.v1"
)

// CustomConf is the path of the optional config file, set by the cli
var CustomConf string

// AppVer is the version of the application
var AppVer string

// ConfigProvider represents a loaded configuration source
type ConfigProvider = *ini.File

func newConfigProvider(file string) (ConfigProvider, error) {
	if file == "" {
		return ini.Empty(), nil
	}
	if _, err := os.Stat(file); os.IsNotExist(err) {
		log.Warn("Config file %q does not exist, using defaults", file)
		return ini.Empty(), nil
	}
	return ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, file)
}

// InitProviderFromFile loads the given ini file and applies every section
func InitProviderFromFile(file string) error {
	cfg, err := newConfigProvider(file)
	if err != nil {
		return err
	}
	loadCommonSettingsFrom(cfg)
	return nil
}

// InitCfgForTest loads all sections from an empty provider, for tests
func InitCfgForTest() {
	loadCommonSettingsFrom(ini.Empty())
}

func loadCommonSettingsFrom(cfg ConfigProvider) {
	loadLogFrom(cfg)
	loadServerFrom(cfg)
	loadDatabaseFrom(cfg)
	loadBoardFrom(cfg)
	loadWebhookFrom(cfg)
	loadLockFrom(cfg)
}
