package publisher

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/secretscout-io/secretscout/internal/events"
	"github.com/secretscout-io/secretscout/internal/findings"
	"github.com/secretscout-io/secretscout/internal/github"
	apperrors "github.com/secretscout-io/secretscout/pkg/shared/errors"
)

// CommentAPI is the part of the GitHub client used to publish review comments.
type CommentAPI interface {
	ListReviewComments(ctx context.Context, owner, repo string, number int) ([]github.ReviewComment, error)
	CreateReviewComment(ctx context.Context, owner, repo string, number int, comment github.ReviewComment) error
}

// BuildCommentBody renders the review comment for one finding. Mentions are
// appended as a CC line when notifyUsers is not empty.
func BuildCommentBody(ruleID, commitSHA, fingerprint string, notifyUsers []string) string {
	body := fmt.Sprintf("🛑 **Gitleaks Secret Detected**\n\n"+
		"**Rule:** `%s`\n"+
		"**Commit:** `%s`\n"+
		"**Fingerprint:** `%s`\n\n"+
		"To ignore this finding, add the fingerprint to `.gitleaksignore`.\n",
		ruleID, commitSHA, fingerprint)

	if len(notifyUsers) > 0 {
		body += fmt.Sprintf("\n**CC:** %s\n", strings.Join(notifyUsers, " "))
	}
	return body
}

// IsDuplicate reports whether a comment with the same body, path and line exists.
func IsDuplicate(existing []github.ReviewComment, body, path string, line int) bool {
	for _, c := range existing {
		if c.Body == body && c.Path == path && c.Line == line {
			return true
		}
	}
	return false
}

// CommentPublisher posts one review comment per finding on a pull request.
type CommentPublisher struct {
	logger      hclog.Logger
	api         CommentAPI
	notifyUsers []string
}

func NewCommentPublisher(logger hclog.Logger, api CommentAPI, notifyUsers []string) *CommentPublisher {
	return &CommentPublisher{
		logger:      logger.Named("comments"),
		api:         api,
		notifyUsers: notifyUsers,
	}
}

// PostComments returns the number of comments created. Comments already on
// the pull request are skipped; individual post failures are logged and do not
// stop the loop.
func (p *CommentPublisher) PostComments(ctx context.Context, ec *events.EventContext, items []findings.Finding) int {
	if ec.PullRequest == nil {
		p.logger.Error("cannot post PR comments: not a pull request event")
		return 0
	}

	owner, repo, number := ec.Repository.Owner, ec.Repository.Name, ec.PullRequest.Number
	p.logger.Info("posting review comments", "findings", len(items), "pull_request", number)

	existing, err := p.api.ListReviewComments(ctx, owner, repo, number)
	if err != nil {
		p.logger.Warn("failed to fetch existing comments, continuing without deduplication", "error", err)
		existing = nil
	}

	posted, skipped := 0, 0
	for _, f := range items {
		body := BuildCommentBody(f.RuleID, f.CommitSHA, f.Fingerprint, p.notifyUsers)
		if IsDuplicate(existing, body, f.FilePath, f.LineNumber) {
			p.logger.Debug("skipping duplicate comment", "path", f.FilePath, "line", f.LineNumber)
			skipped++
			continue
		}

		comment := github.ReviewComment{
			Body:     body,
			CommitID: f.CommitSHA,
			Path:     f.FilePath,
			Line:     f.LineNumber,
			Side:     github.SideRight,
		}
		if err := p.api.CreateReviewComment(ctx, owner, repo, number, comment); err != nil {
			p.logger.Warn("failed to post comment",
				"path", f.FilePath,
				"line", f.LineNumber,
				"severity", apperrors.SeverityOf(err),
				"error", err,
			)
			continue
		}
		p.logger.Debug("posted comment", "path", f.FilePath, "line", f.LineNumber)
		posted++
	}

	p.logger.Info("review comments done", "posted", posted, "duplicates", skipped)
	return posted
}
