// Copyright 2023 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package setting

import (
	"github.com/deskboard/deskboard/modules/log"
)

// Log settings
var Log = struct {
	Level log.Level
}{
	Level: log.INFO,
}

func loadLogFrom(cfg ConfigProvider) {
	sec := cfg.Section("log")
	Log.Level = log.LevelFromString(sec.Key("LEVEL").MustString("info"))
	log.SetLevel(Log.Level)
}
