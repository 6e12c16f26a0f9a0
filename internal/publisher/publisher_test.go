package publisher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secretscout-io/secretscout/internal/events"
	"github.com/secretscout-io/secretscout/internal/findings"
	"github.com/secretscout-io/secretscout/internal/github"
	apperrors "github.com/secretscout-io/secretscout/pkg/shared/errors"
)

var testRepo = events.Repository{
	Owner:    "owner",
	Name:     "repo",
	FullName: "owner/repo",
	HTMLURL:  "https://github.com/owner/repo",
}

type fakeCommentAPI struct {
	existing []github.ReviewComment
	listErr  error
	postErr  map[string]error
	posted   []github.ReviewComment
}

func (f *fakeCommentAPI) ListReviewComments(context.Context, string, string, int) ([]github.ReviewComment, error) {
	return f.existing, f.listErr
}

func (f *fakeCommentAPI) CreateReviewComment(_ context.Context, _, _ string, _ int, c github.ReviewComment) error {
	if err := f.postErr[c.Path]; err != nil {
		return err
	}
	f.posted = append(f.posted, c)
	return nil
}

func TestSummaries(t *testing.T) {
	assert.Equal(t, "## No leaks detected ✅\n", SuccessSummary())
	assert.Equal(t, "## ❌ Gitleaks exited with error. Exit code [137]\n", ErrorSummary(137))
}

func TestFindingsSummary(t *testing.T) {
	items := []findings.Finding{
		findings.New("aws-access-token", "src/config.rs", 42, "abc123def456", "John Doe", "john@example.com", "2025-10-16"),
		findings.New("generic-api-key", "web/<index>.html", 3, "fedcba987654", "O'Brien", "ob@example.com", "2025-10-17"),
	}

	summary, err := FindingsSummary(testRepo, items)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(summary, "## 🛑 Gitleaks detected secrets 🛑\n\n<table>\n<tr>\n  <th>Rule ID</th>\n"))
	assert.True(t, strings.HasSuffix(summary, "</tr>\n</table>\n"))
	assert.Contains(t, summary, "  <td>aws-access-token</td>\n")
	assert.Contains(t, summary, "  <td>generic-api-key</td>\n")
	assert.Contains(t, summary, `<a href="https://github.com/owner/repo/commit/abc123def456">abc123d</a>`)
	assert.Contains(t, summary, `<a href="https://github.com/owner/repo/commit/fedcba987654">fedcba9</a>`)
	assert.Contains(t, summary, `<a href="https://github.com/owner/repo/blob/abc123def456/src/config.rs#L42">View Secret</a>`)
	assert.Contains(t, summary, "  <td>42</td>\n")
	assert.Contains(t, summary, "  <td>O&#39;Brien</td>\n")
	assert.Contains(t, summary, "web/&lt;index&gt;.html</a>")
	assert.Equal(t, 3, strings.Count(summary, "<tr>"))
}

func TestFindingsSummaryEmpty(t *testing.T) {
	summary, err := FindingsSummary(testRepo, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(summary, "  <th>File</th>\n</tr>\n</table>\n"))
}

func TestBuildCommentBody(t *testing.T) {
	body := BuildCommentBody("aws-access-token", "abc123", "abc123:src/main.rs:aws-access-token:42", nil)
	assert.Equal(t, "🛑 **Gitleaks Secret Detected**\n\n"+
		"**Rule:** `aws-access-token`\n"+
		"**Commit:** `abc123`\n"+
		"**Fingerprint:** `abc123:src/main.rs:aws-access-token:42`\n\n"+
		"To ignore this finding, add the fingerprint to `.gitleaksignore`.\n", body)

	withCC := BuildCommentBody("r", "c", "f", []string{"@alice", "@bob"})
	assert.True(t, strings.HasSuffix(withCC, "\n**CC:** @alice @bob\n"))
}

func TestIsDuplicate(t *testing.T) {
	existing := []github.ReviewComment{{Body: "B", Path: "P", Line: 10}}

	testCases := []struct {
		name string
		body string
		path string
		line int
		want bool
	}{
		{name: "identical", body: "B", path: "P", line: 10, want: true},
		{name: "different body", body: "B2", path: "P", line: 10},
		{name: "different path", body: "B", path: "P2", line: 10},
		{name: "different line", body: "B", path: "P", line: 11},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsDuplicate(existing, tc.body, tc.path, tc.line))
		})
	}
}

func prContext() *events.EventContext {
	return &events.EventContext{
		EventType:   events.PullRequest,
		Repository:  testRepo,
		PullRequest: &events.PullRequestInfo{Number: 9},
	}
}

func TestPostComments(t *testing.T) {
	dup := findings.New("rule-a", "a.go", 1, "sha1", "A", "a@x", "d")
	fresh := findings.New("rule-b", "b.go", 2, "sha2", "B", "b@x", "d")
	failing := findings.New("rule-c", "c.go", 3, "sha3", "C", "c@x", "d")

	api := &fakeCommentAPI{
		existing: []github.ReviewComment{{
			Body: BuildCommentBody(dup.RuleID, dup.CommitSHA, dup.Fingerprint, []string{"@sec"}),
			Path: "a.go",
			Line: 1,
		}},
		postErr: map[string]error{
			"c.go": apperrors.NewGitHubError(apperrors.DiffTooLarge, 422, "", nil),
		},
	}

	p := NewCommentPublisher(hclog.NewNullLogger(), api, []string{"@sec"})
	n := p.PostComments(context.Background(), prContext(), []findings.Finding{dup, fresh, failing})

	assert.Equal(t, 1, n)
	require.Len(t, api.posted, 1)
	assert.Equal(t, github.ReviewComment{
		Body:     BuildCommentBody("rule-b", "sha2", fresh.Fingerprint, []string{"@sec"}),
		CommitID: "sha2",
		Path:     "b.go",
		Line:     2,
		Side:     "RIGHT",
	}, api.posted[0])
}

func TestPostCommentsWithoutDedupData(t *testing.T) {
	api := &fakeCommentAPI{listErr: errors.New("boom")}
	p := NewCommentPublisher(hclog.NewNullLogger(), api, nil)

	n := p.PostComments(context.Background(), prContext(), []findings.Finding{
		findings.New("rule-a", "a.go", 1, "sha1", "A", "a@x", "d"),
	})
	assert.Equal(t, 1, n)
}

func TestPostCommentsNotPullRequest(t *testing.T) {
	api := &fakeCommentAPI{}
	p := NewCommentPublisher(hclog.NewNullLogger(), api, nil)

	n := p.PostComments(context.Background(), &events.EventContext{EventType: events.Push}, []findings.Finding{
		findings.New("rule-a", "a.go", 1, "sha1", "A", "a@x", "d"),
	})
	assert.Zero(t, n)
	assert.Empty(t, api.posted)
}

func TestWriteSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.md")

	require.NoError(t, WriteSummary(hclog.NewNullLogger(), path, "first"))
	require.NoError(t, WriteSummary(hclog.NewNullLogger(), path, "second"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))

	assert.NoError(t, WriteSummary(hclog.NewNullLogger(), "", "ignored"))
}
