// Copyright 2023 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package setting

import (
	"time"
)

// Webhook settings
var Webhook = struct {
	// DeliverTimeout bounds the processing of one inbound delivery
	DeliverTimeout time.Duration
	// TaskCodePattern matches task codes embedded in commit messages,
	// e.g. "[DESK-42]". Must contain one capture group for the code.
	TaskCodePattern string
}{
	DeliverTimeout: 15 * time.Second,
	TaskCodePattern: `\[([A-Z][A-Z0-9]+-\d+)\]`,
}

func loadWebhookFrom(cfg ConfigProvider) {
	sec := cfg.Section("webhook")
	Webhook.DeliverTimeout = sec.Key("DELIVER_TIMEOUT").MustDuration(15 * time.Second)
	Webhook.TaskCodePattern = sec.Key("TASK_CODE_PATTERN").MustString(`\[([A-Z][A-Z0-9]+-\d+)\]`)
}
