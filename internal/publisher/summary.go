// Package publisher reports scan results as a job summary and pull request
// review comments.
package publisher

import (
	"fmt"
	"strings"
	texttemplate "text/template"

	"github.com/secretscout-io/secretscout/internal/events"
	"github.com/secretscout-io/secretscout/internal/findings"
	"github.com/secretscout-io/secretscout/internal/template"
)

const findingsTableTemplate = `## 🛑 Gitleaks detected secrets 🛑

<table>
<tr>
  <th>Rule ID</th>
  <th>Commit</th>
  <th>Secret URL</th>
  <th>Start Line</th>
  <th>Author</th>
  <th>Date</th>
  <th>Email</th>
  <th>File</th>
</tr>
{{range .}}<tr>
  <td>{{escape .RuleID}}</td>
  <td><a href="{{escape .CommitURL}}">{{escape .ShortSHA}}</a></td>
  <td><a href="{{escape .SecretURL}}">View Secret</a></td>
  <td>{{.Line}}</td>
  <td>{{escape .Author}}</td>
  <td>{{escape .Date}}</td>
  <td>{{escape .Email}}</td>
  <td><a href="{{escape .FileURL}}">{{escape .FilePath}}</a></td>
</tr>
{{end}}</table>
`

var findingsTable = texttemplate.Must(template.NewTemplate("findings", findingsTableTemplate))

type summaryRow struct {
	RuleID    string
	CommitURL string
	ShortSHA  string
	SecretURL string
	Line      int
	Author    string
	Date      string
	Email     string
	FileURL   string
	FilePath  string
}

// SuccessSummary is written when the scan found nothing.
func SuccessSummary() string {
	return "## No leaks detected ✅\n"
}

// ErrorSummary is written when the engine failed with an unexpected status.
func ErrorSummary(exitCode int) string {
	return fmt.Sprintf("## ❌ Gitleaks exited with error. Exit code [%d]\n", exitCode)
}

// FindingsSummary renders one table row per finding, linking into the
// repository web UI.
func FindingsSummary(repo events.Repository, items []findings.Finding) (string, error) {
	rows := make([]summaryRow, 0, len(items))
	for _, f := range items {
		rows = append(rows, summaryRow{
			RuleID:    f.RuleID,
			CommitURL: f.CommitURL(repo.HTMLURL),
			ShortSHA:  f.ShortSHA(),
			SecretURL: f.SecretURL(repo.HTMLURL),
			Line:      f.LineNumber,
			Author:    f.Author,
			Date:      f.Date,
			Email:     f.Email,
			FileURL:   f.FileURL(repo.HTMLURL),
			FilePath:  f.FilePath,
		})
	}

	var sb strings.Builder
	if err := findingsTable.Execute(&sb, rows); err != nil {
		return "", fmt.Errorf("failed to render findings summary: %w", err)
	}
	return sb.String(), nil
}
