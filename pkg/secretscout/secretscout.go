// Package secretscout exposes the report, summary and comment logic for hosts
// that embed it instead of running the CLI. Inputs and outputs are strings and
// JSON documents so the functions can be bound to other runtimes.
package secretscout

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/secretscout-io/secretscout/internal/binary"
	"github.com/secretscout-io/secretscout/internal/events"
	"github.com/secretscout-io/secretscout/internal/findings"
	"github.com/secretscout-io/secretscout/internal/github"
	"github.com/secretscout-io/secretscout/internal/platform"
	"github.com/secretscout-io/secretscout/internal/publisher"
	"github.com/secretscout-io/secretscout/internal/sarif"
	"github.com/secretscout-io/secretscout/pkg/shared/config"
	apperrors "github.com/secretscout-io/secretscout/pkg/shared/errors"
)

// Finding is a detected secret as exchanged with the host.
type Finding = findings.Finding

// Repository identifies the repository findings link into.
type Repository = events.Repository

// ExistingComment is the subset of a review comment used for deduplication.
type ExistingComment struct {
	Body string `json:"body"`
	Path string `json:"path"`
	Line int    `json:"line"`
}

// ParseReport validates a SARIF document and returns it re-encoded as JSON.
func ParseReport(sarifJSON string) (string, error) {
	report, err := sarif.ParseReport([]byte(sarifJSON), hclog.NewNullLogger())
	if err != nil {
		return "", err
	}
	out, err := json.Marshal(report.Report)
	if err != nil {
		return "", fmt.Errorf("failed to encode SARIF report: %w", err)
	}
	return string(out), nil
}

// ExtractFindings returns the findings of a SARIF document as a JSON array.
func ExtractFindings(sarifJSON string) (string, error) {
	report, err := sarif.ParseReport([]byte(sarifJSON), hclog.NewNullLogger())
	if err != nil {
		return "", err
	}
	items, _ := report.Findings()
	out, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to encode findings: %w", err)
	}
	return string(out), nil
}

func SuccessSummary() string {
	return publisher.SuccessSummary()
}

func ErrorSummary(exitCode int) string {
	return publisher.ErrorSummary(exitCode)
}

// FindingsSummary renders the findings table for a repository JSON object
// ({owner, name, full_name, html_url}) and a findings JSON array.
func FindingsSummary(repositoryJSON, findingsJSON string) (string, error) {
	var repo Repository
	if err := json.Unmarshal([]byte(repositoryJSON), &repo); err != nil {
		return "", fmt.Errorf("invalid repository JSON: %w", err)
	}
	var items []Finding
	if err := json.Unmarshal([]byte(findingsJSON), &items); err != nil {
		return "", fmt.Errorf("invalid findings JSON: %w", err)
	}
	return publisher.FindingsSummary(repo, items)
}

func BuildCommentBody(ruleID, commitSHA, fingerprint string, notifyUsers []string) string {
	return publisher.BuildCommentBody(ruleID, commitSHA, fingerprint, notifyUsers)
}

// IsDuplicateComment reports whether existingJSON, an array of review
// comments, already holds a comment with the same body, path and line.
func IsDuplicateComment(existingJSON, body, path string, line int) (bool, error) {
	var existing []ExistingComment
	if err := json.Unmarshal([]byte(existingJSON), &existing); err != nil {
		return false, fmt.Errorf("invalid comments JSON: %w", err)
	}
	comments := make([]github.ReviewComment, 0, len(existing))
	for _, c := range existing {
		comments = append(comments, github.ReviewComment{Body: c.Body, Path: c.Path, Line: c.Line})
	}
	return publisher.IsDuplicate(comments, body, path, line), nil
}

func ValidateGitRef(ref string) error {
	return config.ValidateGitRef(ref)
}

func GenerateFingerprint(commitSHA, filePath, ruleID string, line int) string {
	return findings.GenerateFingerprint(commitSHA, filePath, ruleID, line)
}

// BuildDownloadURL returns the release archive URL for a version and a
// release platform (linux, darwin, windows) and architecture (x64, arm64, arm).
func BuildDownloadURL(version, osName, arch string) (string, error) {
	id := platform.Identity{OS: platform.OS(osName), Arch: platform.Arch(arch)}
	switch id.OS {
	case platform.Linux, platform.Darwin, platform.Windows:
	default:
		return "", apperrors.NewBinaryError(apperrors.UnsupportedPlatform, osName, nil)
	}
	switch id.Arch {
	case platform.X64, platform.Arm64, platform.Arm:
	default:
		return "", apperrors.NewBinaryError(apperrors.UnsupportedArchitecture, arch, nil)
	}
	return binary.DownloadURL(config.DefaultDownloadBaseURL, version, id), nil
}
