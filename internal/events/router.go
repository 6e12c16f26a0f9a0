package events

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/secretscout-io/secretscout/pkg/shared/config"
	apperrors "github.com/secretscout-io/secretscout/pkg/shared/errors"
)

// CommitLister retrieves the commits of a pull request from the hosting API.
type CommitLister interface {
	ListPullRequestCommits(ctx context.Context, owner, repo string, number int) ([]Commit, error)
}

// Router builds an EventContext from the trigger payload.
type Router struct {
	logger   hclog.Logger
	settings *config.ActionSettings
	commits  CommitLister
}

// NewRouter creates a router. commits may be nil when the trigger is not a pull request.
func NewRouter(logger hclog.Logger, settings *config.ActionSettings, commits CommitLister) *Router {
	return &Router{
		logger:   logger.Named("events"),
		settings: settings,
		commits:  commits,
	}
}

// Route reads GITHUB_EVENT_PATH and dispatches on GITHUB_EVENT_NAME.
func (r *Router) Route(ctx context.Context) (*EventContext, error) {
	eventType, err := ParseEventType(r.settings.EventName)
	if err != nil {
		return nil, err
	}
	r.logger.Info("parsing event", "event", eventType, "path", r.settings.EventPath)

	p, err := readPayload(r.settings.EventPath)
	if err != nil {
		return nil, err
	}

	repo, err := r.repository(p)
	if err != nil {
		return nil, err
	}

	var ec *EventContext
	switch eventType {
	case Push:
		ec, err = r.push(p, repo)
	case PullRequest:
		ec, err = r.pullRequest(ctx, p, repo)
	default:
		ec = &EventContext{EventType: eventType, Repository: repo}
	}
	if err != nil {
		return nil, err
	}

	for _, ref := range []string{ec.BaseRef, ec.HeadRef} {
		if err := config.ValidateGitRef(ref); err != nil {
			return nil, err
		}
	}

	r.logger.Debug("event context ready",
		"event", ec.EventType,
		"repository", ec.Repository.FullName,
		"base", ec.BaseRef,
		"head", ec.HeadRef,
		"commits", len(ec.Commits),
	)
	return ec, nil
}

func (r *Router) repository(p *payload) (Repository, error) {
	if p.Repository != nil {
		return p.Repository.toRepository()
	}

	owner, name := r.settings.RepoParts()
	full := r.settings.Repository
	r.logger.Debug("event payload has no repository block, using environment", "repository", full)
	return Repository{
		Owner:    owner,
		Name:     name,
		FullName: full,
		HTMLURL:  fmt.Sprintf("%s/%s", r.settings.ServerURL, full),
	}, nil
}

func (r *Router) push(p *payload, repo Repository) (*EventContext, error) {
	if p.Commits == nil {
		return nil, missing("commits")
	}

	commits := make([]Commit, 0, len(*p.Commits))
	for i, raw := range *p.Commits {
		c, ok := raw.toCommit()
		if !ok {
			r.logger.Warn("skipping incomplete commit entry", "index", i)
			continue
		}
		commits = append(commits, c)
	}
	if len(commits) == 0 {
		return nil, apperrors.NewEventError(apperrors.NoCommits, "", nil)
	}

	base := commits[0].SHA
	if r.settings.BaseRef != "" {
		base = r.settings.BaseRef
	}
	return &EventContext{
		EventType:  Push,
		Repository: repo,
		BaseRef:    base,
		HeadRef:    commits[len(commits)-1].SHA,
		Commits:    commits,
	}, nil
}

func (r *Router) pullRequest(ctx context.Context, p *payload, repo Repository) (*EventContext, error) {
	if p.PullRequest == nil {
		return nil, missing("pull_request")
	}
	pr, err := p.PullRequest.toPullRequest()
	if err != nil {
		return nil, err
	}
	if r.commits == nil {
		return nil, apperrors.NewEventError(apperrors.FetchCommits, "no API client configured", nil)
	}

	commits, err := r.commits.ListPullRequestCommits(ctx, repo.Owner, repo.Name, pr.Number)
	if err != nil {
		return nil, apperrors.NewEventError(apperrors.FetchCommits, fmt.Sprintf("pull request #%d", pr.Number), err)
	}
	if len(commits) == 0 {
		return nil, apperrors.NewEventError(apperrors.NoCommits, "", nil)
	}
	r.logger.Info("fetched pull request commits", "number", pr.Number, "count", len(commits))

	base := commits[0].SHA
	if r.settings.BaseRef != "" {
		base = r.settings.BaseRef
	}
	return &EventContext{
		EventType:   PullRequest,
		Repository:  repo,
		BaseRef:     base,
		HeadRef:     commits[len(commits)-1].SHA,
		Commits:     commits,
		PullRequest: pr,
	}, nil
}

// BuildScanRange renders the git log options handed to the engine. An empty
// result means the whole history is scanned.
func BuildScanRange(ec *EventContext) string {
	switch ec.EventType {
	case Push:
		if ec.BaseRef == ec.HeadRef {
			return "-1"
		}
		return fmt.Sprintf("--no-merges --first-parent %s^..%s", ec.BaseRef, ec.HeadRef)
	case PullRequest:
		return fmt.Sprintf("--no-merges --first-parent %s^..%s", ec.BaseRef, ec.HeadRef)
	default:
		return ""
	}
}
