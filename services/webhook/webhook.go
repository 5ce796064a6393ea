// Copyright 2024 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package webhook turns inbound source-control deliveries into board
// mutations. A delivery is authenticated against the integration's secret,
// its commits are matched to tasks by the codes embedded in their messages,
// and matching tasks are moved through the same position engine a manual
// drag uses.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"sync"

	board_model "github.com/deskboard/deskboard/models/board"
	"github.com/deskboard/deskboard/modules/json"
	"github.com/deskboard/deskboard/modules/log"
	"github.com/deskboard/deskboard/modules/setting"
	"github.com/deskboard/deskboard/modules/util"
	board_service "github.com/deskboard/deskboard/services/board"

	"github.com/google/uuid"
)

const (
	// SignatureHeader carries the hex HMAC-SHA256 of the raw body
	SignatureHeader = "X-Hub-Signature-256"
	// EventHeader names the event type of a delivery
	EventHeader = "X-Github-Event"
)

var (
	taskCodeRegexp     *regexp.Regexp
	taskCodeRegexpOnce sync.Once
)

func getTaskCodeRegexp() *regexp.Regexp {
	taskCodeRegexpOnce.Do(func() {
		taskCodeRegexp = regexp.MustCompile(setting.Webhook.TaskCodePattern)
	})
	return taskCodeRegexp
}

// ExtractTaskCodes returns the task codes referenced by a commit message,
// in order of appearance and without duplicates.
func ExtractTaskCodes(message string) []string {
	matches := getTaskCodeRegexp().FindAllStringSubmatch(message, -1)
	codes := make([]string, 0, len(matches))
	for _, match := range matches {
		code := match[len(match)-1]
		if !util.SliceContains(codes, code) {
			codes = append(codes, code)
		}
	}
	return codes
}

// VerifySignature checks the hex HMAC-SHA256 signature of a raw delivery
// body in constant time. The header value may carry a "sha256=" prefix.
func VerifySignature(secret string, body []byte, signature string) bool {
	signature = strings.TrimPrefix(signature, "sha256=")
	sig, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), sig)
}

// CommitResult records what one commit did to one task
type CommitResult struct {
	TaskCode   string `json:"task_code"`
	CommitHash string `json:"commit_hash"`
	Moved      bool   `json:"moved"`
	NewStatus  string `json:"new_status,omitempty"`
	Skipped    string `json:"skipped,omitempty"` // reason, empty unless skipped
}

// Delivery is the processing summary of one inbound delivery
type Delivery struct {
	ID      string         `json:"id"`
	Event   string         `json:"event"`
	Results []CommitResult `json:"results"`
}

// ProcessDelivery authenticates and applies one delivery to the
// integration's board. Unknown events and commits without task codes are
// no-ops; a delivery seen before, recognized by the task's last recorded
// commit hash, is acknowledged without acting twice.
func ProcessDelivery(ctx context.Context, integrationID int64, event, signature string, body []byte) (*Delivery, error) {
	integration, err := board_model.GetIntegrationByID(ctx, integrationID)
	if err != nil {
		return nil, err
	}
	if !VerifySignature(integration.HookSecret, body, signature) {
		return nil, util.NewPermissionDeniedErrorf("invalid delivery signature")
	}

	ctx, cancel := context.WithTimeout(ctx, setting.Webhook.DeliverTimeout)
	defer cancel()

	delivery := &Delivery{ID: uuid.NewString(), Event: event}

	switch event {
	case "push":
		var payload PushPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, util.NewInvalidArgumentErrorf("malformed push payload: %v", err)
		}
		if payload.Repository.FullName != integration.Repo {
			return nil, util.NewInvalidArgumentErrorf("delivery for repository %q does not belong to this integration", payload.Repository.FullName)
		}
		branch := strings.TrimPrefix(payload.Ref, "refs/heads/")
		for _, commit := range payload.Commits {
			results, err := applyCommit(ctx, integration, branch, commit)
			if err != nil {
				return nil, err
			}
			delivery.Results = append(delivery.Results, results...)
		}
	case "pull_request":
		var payload PullRequestPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, util.NewInvalidArgumentErrorf("malformed pull_request payload: %v", err)
		}
		if payload.Repository.FullName != integration.Repo {
			return nil, util.NewInvalidArgumentErrorf("delivery for repository %q does not belong to this integration", payload.Repository.FullName)
		}
		if payload.Action != "closed" || !payload.PullRequest.Merged {
			break
		}
		commit := PayloadCommit{ID: payload.PullRequest.MergeCommitSHA, Message: payload.PullRequest.Title}
		results, err := applyCommit(ctx, integration, payload.PullRequest.Base.Ref, commit)
		if err != nil {
			return nil, err
		}
		delivery.Results = append(delivery.Results, results...)
	default:
		log.Debug("delivery %s: ignoring event %q", delivery.ID, event)
	}

	log.Info("delivery %s: processed %s for repo %s, %d task(s) touched",
		delivery.ID, event, integration.Repo, len(delivery.Results))
	return delivery, nil
}

// applyCommit updates every task the commit message references. The task is
// flag-locked for the duration of its move so a concurrent manual drag
// cannot interleave with the automated one.
func applyCommit(ctx context.Context, integration *board_model.Integration, branch string, commit PayloadCommit) ([]CommitResult, error) {
	results := make([]CommitResult, 0, 1)
	for _, code := range ExtractTaskCodes(commit.Message) {
		result := CommitResult{TaskCode: code, CommitHash: commit.ID}

		task, err := board_model.GetTaskByCode(ctx, integration.BoardID, code)
		if err != nil {
			if board_model.IsErrTaskNotExist(err) {
				result.Skipped = "unknown task code"
				results = append(results, result)
				continue
			}
			return nil, err
		}

		// replayed delivery, the commit is already recorded on the task
		if task.LastCommitHash == commit.ID {
			result.Skipped = "already processed"
			results = append(results, result)
			continue
		}

		status, matched := integration.ResolveStatus(branch, commit.Message)
		if matched && task.Status != status {
			column, err := board_model.GetColumnByStatus(ctx, integration.BoardID, status)
			if err != nil {
				return nil, err
			}
			if err := moveLocked(ctx, task, column, commit.ID); err != nil {
				return nil, err
			}
			result.Moved = true
			result.NewStatus = status
		}

		if err := board_model.UpdateTaskCommitInfo(ctx, task.ID, integration.Repo, commit.ID, commit.Message); err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func moveLocked(ctx context.Context, task *board_model.Task, column *board_model.Column, commitHash string) error {
	if err := board_model.SetTaskLocked(ctx, task.ID, true); err != nil {
		return err
	}
	defer func() {
		// must succeed even when the delivery timeout has fired, a task left
		// locked would reject manual drags forever
		if err := board_model.SetTaskLocked(context.WithoutCancel(ctx), task.ID, false); err != nil {
			log.Error("unable to unlock task %d: %v", task.ID, err)
		}
	}()

	numTasks, err := column.NumTasks(ctx)
	if err != nil {
		return err
	}
	_, err = board_service.MoveTask(ctx, board_service.MoveTaskOptions{
		TaskID:         task.ID,
		TargetColumnID: column.ID,
		TargetIndex:    int(numTasks),
		Source:         board_model.SourceGithub,
		CommitHash:     commitHash,
	})
	return err
}
