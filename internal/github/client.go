// Package github is the GitHub REST client used for pull request commits,
// review comments and account lookups. Every call is paced by a rate limiter
// and retried with exponential backoff.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v47/github"
	"github.com/hashicorp/go-hclog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"

	"github.com/secretscout-io/secretscout/internal/events"
	"github.com/secretscout-io/secretscout/pkg/shared/config"
	apperrors "github.com/secretscout-io/secretscout/pkg/shared/errors"
	"github.com/secretscout-io/secretscout/pkg/shared/httpclient"
)

const (
	perPage              = 100
	minRequestsPerSecond = 1.0
)

// SideRight anchors a review comment on the new version of the file.
const SideRight = "RIGHT"

// AccountType is the kind of GitHub account behind a login.
type AccountType string

const (
	AccountUser         AccountType = "User"
	AccountOrganization AccountType = "Organization"
)

// ReviewComment is an inline pull request comment.
type ReviewComment struct {
	Body     string
	CommitID string
	Path     string
	Line     int
	Side     string
}

// Options configures a Client.
type Options struct {
	Token             string
	BaseURL           string
	RetryBaseDelay    time.Duration
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

// Client wraps go-github with retries, pacing and error classification.
type Client struct {
	logger     hclog.Logger
	api        *gh.Client
	limiter    *RateLimiter
	retryDelay time.Duration
	tracer     trace.Tracer
}

// NewClient builds a client. An empty token yields anonymous access.
func NewClient(ctx context.Context, logger hclog.Logger, opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if opts.Token != "" {
		if httpClient != nil {
			ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
		}
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}))
	}

	api := gh.NewClient(httpClient)
	api.UserAgent = "secretscout"
	if opts.BaseURL != "" {
		base, err := url.Parse(opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", opts.BaseURL, err)
		}
		if !strings.HasSuffix(base.Path, "/") {
			base.Path += "/"
		}
		api.BaseURL = base
	}

	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = config.DefaultRequestsPerSecond
	}
	delay := opts.RetryBaseDelay
	if delay <= 0 {
		delay = config.DefaultRetryBaseDelay
	}

	return &Client{
		logger:     logger.Named("github"),
		api:        api,
		limiter:    NewRateLimiter(rps, int(rps)+1),
		retryDelay: delay,
		tracer:     otel.Tracer("secretscout/github"),
	}, nil
}

// NewClientFromConfig builds a client from the application config, reusing the
// shared HTTP transport settings (timeout, TLS, proxy).
func NewClientFromConfig(ctx context.Context, logger hclog.Logger, cfg *config.Config, token string) (*Client, error) {
	return NewClient(ctx, logger, Options{
		Token:             token,
		BaseURL:           config.GitHubAPIURL(cfg),
		RetryBaseDelay:    config.RetryBaseDelay(cfg),
		RequestsPerSecond: config.RequestsPerSecond(cfg),
		HTTPClient:        httpclient.InitializeRestyClient(logger, cfg).GetClient(),
	})
}

// call runs one API request under a span, the rate limiter and the retry policy.
func (c *Client) call(ctx context.Context, op string, fn func(context.Context) error, attrs ...attribute.KeyValue) error {
	ctx, span := c.tracer.Start(ctx, "github."+op, trace.WithAttributes(attrs...))
	defer span.End()

	err := withRetry(ctx, c.logger, c.retryDelay, op, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		err := fn(ctx)
		if err != nil && apperrors.IsGitHubKind(classifyError(err), apperrors.RateLimitExceeded) {
			c.throttle(op)
		}
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, op+" failed")
	}
	return err
}

// throttle halves the request rate after the API reported a rate-limit hit.
func (c *Client) throttle(op string) {
	rps := c.limiter.Limit() / 2
	if rps < minRequestsPerSecond {
		rps = minRequestsPerSecond
	}
	c.limiter.UpdateLimits(rps, 1)
	c.logger.Warn("GitHub rate limit hit, slowing down", "operation", op, "requests_per_second", rps)
}

// ListPullRequestCommits returns the commits of a pull request in order, the
// head commit last. Missing author data is reported as "unknown".
func (c *Client) ListPullRequestCommits(ctx context.Context, owner, repo string, number int) ([]events.Commit, error) {
	var out []events.Commit
	opts := &gh.ListOptions{PerPage: perPage}

	for {
		var page []*gh.RepositoryCommit
		var resp *gh.Response
		err := c.call(ctx, "list_pr_commits", func(ctx context.Context) error {
			var err error
			page, resp, err = c.api.PullRequests.ListCommits(ctx, owner, repo, number, opts)
			return err
		}, attribute.String("repository", owner+"/"+repo), attribute.Int("pull_request", number))
		if err != nil {
			return nil, classifyError(err)
		}

		for _, rc := range page {
			out = append(out, toCommit(rc))
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	c.logger.Debug("listed pull request commits", "repository", owner+"/"+repo, "number", number, "count", len(out))
	return out, nil
}

// ListReviewComments returns every inline comment already on the pull request.
func (c *Client) ListReviewComments(ctx context.Context, owner, repo string, number int) ([]ReviewComment, error) {
	var out []ReviewComment
	opts := &gh.PullRequestListCommentsOptions{ListOptions: gh.ListOptions{PerPage: perPage}}

	for {
		var page []*gh.PullRequestComment
		var resp *gh.Response
		err := c.call(ctx, "list_review_comments", func(ctx context.Context) error {
			var err error
			page, resp, err = c.api.PullRequests.ListComments(ctx, owner, repo, number, opts)
			return err
		}, attribute.String("repository", owner+"/"+repo), attribute.Int("pull_request", number))
		if err != nil {
			return nil, classifyError(err)
		}

		for _, pc := range page {
			out = append(out, ReviewComment{
				Body:     pc.GetBody(),
				CommitID: pc.GetCommitID(),
				Path:     pc.GetPath(),
				Line:     pc.GetLine(),
				Side:     pc.GetSide(),
			})
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

// CreateReviewComment posts one inline comment. Lines outside the diff surface
// as DiffTooLarge.
func (c *Client) CreateReviewComment(ctx context.Context, owner, repo string, number int, comment ReviewComment) error {
	side := comment.Side
	if side == "" {
		side = SideRight
	}
	req := &gh.PullRequestComment{
		Body:     gh.String(comment.Body),
		CommitID: gh.String(comment.CommitID),
		Path:     gh.String(comment.Path),
		Line:     gh.Int(comment.Line),
		Side:     gh.String(side),
	}

	err := c.call(ctx, "create_review_comment", func(ctx context.Context) error {
		_, _, err := c.api.PullRequests.CreateComment(ctx, owner, repo, number, req)
		return err
	}, attribute.String("repository", owner+"/"+repo), attribute.String("path", comment.Path), attribute.Int("line", comment.Line))
	return classifyCommentError(err)
}

// Account is the metadata of a GitHub login.
type Account struct {
	Login string
	Type  AccountType
}

// GetAccount reports whether login is a user or an organization.
func (c *Client) GetAccount(ctx context.Context, login string) (Account, error) {
	var user *gh.User
	err := c.call(ctx, "get_account", func(ctx context.Context) error {
		var err error
		user, _, err = c.api.Users.Get(ctx, login)
		return err
	}, attribute.String("login", login))
	if err != nil {
		return Account{}, classifyError(err)
	}

	account := Account{Login: user.GetLogin(), Type: AccountUser}
	if user.GetType() == string(AccountOrganization) {
		account.Type = AccountOrganization
	}
	return account, nil
}

func toCommit(rc *gh.RepositoryCommit) events.Commit {
	commit := events.Commit{
		SHA:    rc.GetSHA(),
		Author: events.Author{Name: unknown, Email: unknown},
	}
	if rc.Commit == nil {
		return commit
	}
	commit.Message = rc.Commit.GetMessage()
	if a := rc.Commit.Author; a != nil {
		if a.Name != nil {
			commit.Author.Name = *a.Name
		}
		if a.Email != nil {
			commit.Author.Email = *a.Email
		}
	}
	return commit
}

const unknown = "unknown"
