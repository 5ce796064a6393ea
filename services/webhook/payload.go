// Copyright 2024 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package webhook

// PayloadRepository identifies the repository a delivery talks about
type PayloadRepository struct {
	FullName string `json:"full_name"`
}

// PayloadCommit is one commit of a push delivery
type PayloadCommit struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// PushPayload is the body of a push event
type PushPayload struct {
	Ref        string            `json:"ref"`
	Repository PayloadRepository `json:"repository"`
	Commits    []PayloadCommit   `json:"commits"`
	HeadCommit *PayloadCommit    `json:"head_commit"`
}

// PullRequestPayload is the body of a pull_request event. Only merges are
// acted on; the merge commit is treated like a pushed commit carrying the
// pull request's title as its message.
type PullRequestPayload struct {
	Action      string            `json:"action"`
	Repository  PayloadRepository `json:"repository"`
	PullRequest struct {
		Title          string `json:"title"`
		Merged         bool   `json:"merged"`
		MergeCommitSHA string `json:"merge_commit_sha"`
		Base           struct {
			Ref string `json:"ref"`
		} `json:"base"`
	} `json:"pull_request"`
}
