// Package events turns a GitHub Actions trigger into the commit range to scan.
package events

import (
	apperrors "github.com/secretscout-io/secretscout/pkg/shared/errors"
)

// EventType is a supported workflow trigger.
type EventType string

const (
	Push             EventType = "push"
	PullRequest      EventType = "pull_request"
	WorkflowDispatch EventType = "workflow_dispatch"
	Schedule         EventType = "schedule"
)

// ParseEventType validates a GITHUB_EVENT_NAME value.
func ParseEventType(name string) (EventType, error) {
	switch EventType(name) {
	case Push, PullRequest, WorkflowDispatch, Schedule:
		return EventType(name), nil
	default:
		return "", apperrors.NewEventError(apperrors.UnsupportedEvent, name, nil)
	}
}

// EventContext is the normalized view of one trigger. BaseRef and HeadRef are
// empty only for whole-repository scans (manual dispatch and schedule).
type EventContext struct {
	EventType   EventType        `json:"event_type"`
	Repository  Repository       `json:"repository"`
	BaseRef     string           `json:"base_ref"`
	HeadRef     string           `json:"head_ref"`
	Commits     []Commit         `json:"commits"`
	PullRequest *PullRequestInfo `json:"pull_request,omitempty"`
}

// Repository identifies the scanned repository.
type Repository struct {
	Owner    string `json:"owner"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	HTMLURL  string `json:"html_url"`
}

// Commit is one commit in the scan range; the last commit of a list is the head.
type Commit struct {
	SHA     string `json:"sha"`
	Author  Author `json:"author"`
	Message string `json:"message"`
}

type Author struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PullRequestInfo describes the change request behind a pull_request trigger.
type PullRequestInfo struct {
	Number int    `json:"number"`
	Base   GitRef `json:"base"`
	Head   GitRef `json:"head"`
}

// GitRef is a branch tip.
type GitRef struct {
	SHA     string `json:"sha"`
	RefName string `json:"ref_name"`
}
