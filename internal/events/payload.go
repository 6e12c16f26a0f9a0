package events

import (
	"encoding/json"
	"os"

	apperrors "github.com/secretscout-io/secretscout/pkg/shared/errors"
)

// Pointer fields distinguish "absent" from "empty" in the webhook payload.
type payload struct {
	Repository  *repositoryPayload  `json:"repository"`
	Commits     *[]commitPayload    `json:"commits"`
	PullRequest *pullRequestPayload `json:"pull_request"`
}

type repositoryPayload struct {
	Owner *struct {
		Login *string `json:"login"`
	} `json:"owner"`
	Name     *string `json:"name"`
	FullName *string `json:"full_name"`
	HTMLURL  *string `json:"html_url"`
}

type commitPayload struct {
	ID     *string `json:"id"`
	Author *struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
	} `json:"author"`
	Message *string `json:"message"`
}

type pullRequestPayload struct {
	Number *int        `json:"number"`
	Base   *refPayload `json:"base"`
	Head   *refPayload `json:"head"`
}

type refPayload struct {
	SHA *string `json:"sha"`
	Ref *string `json:"ref"`
}

func readPayload(path string) (*payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewEventError(apperrors.InvalidEventJSON, "failed to read event file", err)
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, apperrors.NewEventError(apperrors.InvalidEventJSON, "failed to parse JSON", err)
	}
	return &p, nil
}

func (r *repositoryPayload) toRepository() (Repository, error) {
	if r.Owner == nil || r.Owner.Login == nil {
		return Repository{}, missing("repository.owner.login")
	}
	if r.Name == nil {
		return Repository{}, missing("repository.name")
	}
	if r.FullName == nil {
		return Repository{}, missing("repository.full_name")
	}
	if r.HTMLURL == nil {
		return Repository{}, missing("repository.html_url")
	}
	return Repository{
		Owner:    *r.Owner.Login,
		Name:     *r.Name,
		FullName: *r.FullName,
		HTMLURL:  *r.HTMLURL,
	}, nil
}

// toCommit returns false when any of sha, author name, author email or message is absent.
func (c commitPayload) toCommit() (Commit, bool) {
	if c.ID == nil || c.Author == nil || c.Author.Name == nil || c.Author.Email == nil || c.Message == nil {
		return Commit{}, false
	}
	return Commit{
		SHA:     *c.ID,
		Author:  Author{Name: *c.Author.Name, Email: *c.Author.Email},
		Message: *c.Message,
	}, true
}

func (p *pullRequestPayload) toPullRequest() (*PullRequestInfo, error) {
	if p.Number == nil {
		return nil, missing("pull_request.number")
	}
	if p.Base == nil || p.Base.SHA == nil {
		return nil, missing("pull_request.base.sha")
	}
	if p.Base.Ref == nil {
		return nil, missing("pull_request.base.ref")
	}
	if p.Head == nil || p.Head.SHA == nil {
		return nil, missing("pull_request.head.sha")
	}
	if p.Head.Ref == nil {
		return nil, missing("pull_request.head.ref")
	}
	if *p.Number <= 0 {
		return nil, apperrors.NewEventError(apperrors.InvalidPRNumber, "", nil)
	}
	return &PullRequestInfo{
		Number: *p.Number,
		Base:   GitRef{SHA: *p.Base.SHA, RefName: *p.Base.Ref},
		Head:   GitRef{SHA: *p.Head.SHA, RefName: *p.Head.Ref},
	}, nil
}

func missing(field string) error {
	return apperrors.NewEventError(apperrors.MissingField, field, nil)
}
