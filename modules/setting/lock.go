// Copyright 2024 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package setting

// GlobalLock holds the locking backend settings. The memory backend is
// correct for a single process; multi-process deployments need redis.
var GlobalLock = struct {
	ServiceType    string
	ServiceConnStr string
}{
	ServiceType: "memory",
}

func loadLockFrom(cfg ConfigProvider) {
	sec := cfg.Section("global_lock")
	GlobalLock.ServiceType = sec.Key("SERVICE_TYPE").MustString("memory")
	GlobalLock.ServiceConnStr = sec.Key("SERVICE_CONN_STR").String()
}
