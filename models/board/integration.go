// Copyright 2023 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package board

import (
	"context"
	"fmt"
	"strings"

	"github.com/deskboard/deskboard/models/db"
	"github.com/deskboard/deskboard/modules/timeutil"
	"github.com/deskboard/deskboard/modules/util"

	"github.com/gobwas/glob"
)

// StatusRule maps a branch pattern or a commit-message keyword to a column
// status. Rules are evaluated in order, first match wins.
type StatusRule struct {
	BranchPattern string `json:"branch_pattern,omitempty"`
	Keyword       string `json:"keyword,omitempty"`
	Status        string `json:"status"`
}

// Integration binds one source-control repository to a board. The hook
// secret is a capability token: it is excluded from JSON serialization and
// must never be logged or written into history rows.
type Integration struct {
	ID      int64  `xorm:"pk autoincr"`
	BoardID int64  `xorm:"UNIQUE(s) INDEX NOT NULL"`
	Repo    string `xorm:"UNIQUE(s) NOT NULL"` // e.g. acme/backend

	HookSecret    string       `xorm:"NOT NULL" json:"-"`
	StatusMapping []StatusRule `xorm:"TEXT JSON"`

	CreatedUnix timeutil.TimeStamp `xorm:"created"`
	UpdatedUnix timeutil.TimeStamp `xorm:"updated"`
}

// TableName returns the real table name
func (Integration) TableName() string {
	return "board_integration"
}

func init() {
	db.RegisterModel(new(Integration))
}

// ErrIntegrationNotExist represents a "IntegrationNotExist" kind of error.
type ErrIntegrationNotExist struct {
	ID int64
}

// IsErrIntegrationNotExist checks if an error is a ErrIntegrationNotExist
func IsErrIntegrationNotExist(err error) bool {
	_, ok := err.(ErrIntegrationNotExist)
	return ok
}

func (err ErrIntegrationNotExist) Error() string {
	return fmt.Sprintf("integration does not exist [id: %d]", err.ID)
}

func (err ErrIntegrationNotExist) Unwrap() error {
	return util.ErrNotExist
}

// ErrIntegrationRepoConflict represents the (board_id, repo) uniqueness violation.
type ErrIntegrationRepoConflict struct {
	BoardID int64
	Repo    string
}

// IsErrIntegrationRepoConflict checks if an error is a ErrIntegrationRepoConflict
func IsErrIntegrationRepoConflict(err error) bool {
	_, ok := err.(ErrIntegrationRepoConflict)
	return ok
}

func (err ErrIntegrationRepoConflict) Error() string {
	return fmt.Sprintf("board %d already has an integration for repo %q", err.BoardID, err.Repo)
}

func (err ErrIntegrationRepoConflict) Unwrap() error {
	return util.ErrAlreadyExist
}

// validateStatusMapping checks every rule against the board's column
// statuses and compiles the branch patterns. Bad mappings are rejected here,
// at integration-creation time, not during webhook processing.
func validateStatusMapping(ctx context.Context, boardID int64, rules []StatusRule) error {
	b, err := GetBoardByID(ctx, boardID)
	if err != nil {
		return err
	}
	columns, err := b.GetColumns(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(columns))
	for _, column := range columns {
		known[column.Status] = true
	}

	for i, rule := range rules {
		if rule.BranchPattern == "" && rule.Keyword == "" {
			return util.NewInvalidArgumentErrorf("status rule %d has neither branch pattern nor keyword", i)
		}
		if rule.BranchPattern != "" {
			if _, err := glob.Compile(rule.BranchPattern); err != nil {
				return util.NewInvalidArgumentErrorf("status rule %d has a bad branch pattern %q: %v", i, rule.BranchPattern, err)
			}
		}
		if !known[rule.Status] {
			return util.NewInvalidArgumentErrorf("status rule %d maps to unknown status %q", i, rule.Status)
		}
	}
	return nil
}

// ResolveStatus returns the status of the first rule matching the branch or
// the commit message. The boolean result is false when no rule matches,
// which is an expected no-op for the webhook processor.
func (i *Integration) ResolveStatus(branch, message string) (string, bool) {
	lowerMsg := strings.ToLower(message)
	for _, rule := range i.StatusMapping {
		if rule.BranchPattern != "" {
			if g, err := glob.Compile(rule.BranchPattern); err == nil && g.Match(branch) {
				return rule.Status, true
			}
		}
		if rule.Keyword != "" && strings.Contains(lowerMsg, strings.ToLower(rule.Keyword)) {
			return rule.Status, true
		}
	}
	return "", false
}

// NewIntegration creates a repository binding for a board
func NewIntegration(ctx context.Context, integration *Integration) error {
	if strings.TrimSpace(integration.Repo) == "" {
		return util.NewInvalidArgumentErrorf("integration repo is empty")
	}
	if strings.TrimSpace(integration.HookSecret) == "" {
		return util.NewInvalidArgumentErrorf("integration hook secret is empty")
	}

	return db.WithTx(ctx, func(ctx context.Context) error {
		if err := validateStatusMapping(ctx, integration.BoardID, integration.StatusMapping); err != nil {
			return err
		}
		if exist, err := db.GetEngine(ctx).Where("board_id = ? AND repo = ?",
			integration.BoardID, integration.Repo).Exist(new(Integration)); err != nil {
			return err
		} else if exist {
			return ErrIntegrationRepoConflict{BoardID: integration.BoardID, Repo: integration.Repo}
		}
		return db.Insert(ctx, integration)
	})
}

// UpdateIntegration updates the secret and the status mapping of a binding
func UpdateIntegration(ctx context.Context, integration *Integration) error {
	return db.WithTx(ctx, func(ctx context.Context) error {
		current, err := GetIntegrationByID(ctx, integration.ID)
		if err != nil {
			return err
		}
		if err := validateStatusMapping(ctx, current.BoardID, integration.StatusMapping); err != nil {
			return err
		}

		cols := []string{"status_mapping"}
		if integration.HookSecret != "" {
			cols = append(cols, "hook_secret")
		}
		_, err = db.GetEngine(ctx).ID(integration.ID).Cols(cols...).Update(integration)
		return err
	})
}

// DeleteIntegrationByID removes a repository binding
func DeleteIntegrationByID(ctx context.Context, id int64) error {
	_, err := db.DeleteByID(ctx, id, new(Integration))
	return err
}

// GetIntegrationByID returns the integration with the given ID
func GetIntegrationByID(ctx context.Context, id int64) (*Integration, error) {
	integration := new(Integration)
	has, err := db.GetEngine(ctx).ID(id).Get(integration)
	if err != nil {
		return nil, err
	} else if !has {
		return nil, ErrIntegrationNotExist{ID: id}
	}
	return integration, nil
}

// GetIntegrations returns all repository bindings of a board
func (b *Board) GetIntegrations(ctx context.Context) ([]*Integration, error) {
	integrations := make([]*Integration, 0, 5)
	return integrations, db.GetEngine(ctx).Where("board_id = ?", b.ID).
		OrderBy("id").Find(&integrations)
}
