// Package ci provides helpers for discovering GitHub Actions metadata.
package ci

import (
	"os"
	"strconv"
	"strings"
)

// Mode selects how the process was started.
type Mode int

const (
	// ModeCLI runs the gitleaks subcommands directly.
	ModeCLI Mode = iota
	// ModeAction runs the full pipeline inside a GitHub Actions job.
	ModeAction
)

// String returns the human-readable string representation of a Mode.
func (m Mode) String() string {
	switch m {
	case ModeAction:
		return "action"
	default:
		return "cli"
	}
}

// LookupFunc fetches environment variables and defaults to os.Getenv.
type LookupFunc func(string) string

// CIEnvironment captures GitHub Actions job metadata derived from environment variables.
type CIEnvironment struct {
	CI                 bool   // CI reports whether the execution runs inside a CI environment.
	CommitHash         string // CommitHash is the tip commit that triggered the job.
	VCSServerURL       string // VCSServerURL is the scheme and host of the VCS server (e.g. https://github.com).
	Reference          string // Reference is the fully qualified git reference (e.g. refs/heads/main).
	ReferenceName      string // ReferenceName is the short reference or branch name.
	RepositoryName     string // RepositoryName is the repository slug without namespace.
	RepositoryFullName string // RepositoryFullName is the namespace-qualified repository name.
	RepositoryFullPath string // RepositoryFullPath is the full web URL for the repository.
	Namespace          string // Namespace is the owner or organization.
	RunID              string // RunID identifies the workflow run.
	Workflow           string // Workflow is the workflow name.
}

// DetectMode reports ModeAction when the GitHub Actions runner variables are all present.
func DetectMode() Mode {
	return detectModeWithLookup(os.Getenv)
}

func detectModeWithLookup(lookup LookupFunc) Mode {
	if lookup == nil {
		lookup = os.Getenv
	}
	for _, key := range []string{"GITHUB_ACTIONS", "GITHUB_WORKSPACE", "GITHUB_EVENT_PATH"} {
		if lookup(key) == "" {
			return ModeCLI
		}
	}
	return ModeAction
}

// GetGitHubEnvironment returns job metadata from the process environment.
func GetGitHubEnvironment() CIEnvironment {
	return extractGitHubVariables(os.Getenv)
}

// extractGitHubVariables builds the CIEnvironment from GitHub-specific variables.
// See https://docs.github.com/en/actions/reference/workflows-and-actions/variables.
func extractGitHubVariables(lookup LookupFunc) CIEnvironment {
	if lookup == nil {
		lookup = os.Getenv
	}
	ci, _ := strconv.ParseBool(lookup("CI"))

	fullName := lookup("GITHUB_REPOSITORY")
	repoName := ""
	if i := strings.LastIndex(fullName, "/"); i >= 0 && i < len(fullName)-1 {
		repoName = fullName[i+1:]
	}

	serverURL := strings.TrimRight(lookup("GITHUB_SERVER_URL"), "/")
	fullPath := ""
	if serverURL != "" && fullName != "" {
		fullPath = serverURL + "/" + fullName
	}

	return CIEnvironment{
		CI:                 ci,
		CommitHash:         lookup("GITHUB_SHA"),
		VCSServerURL:       serverURL,
		Reference:          lookup("GITHUB_REF"),
		ReferenceName:      lookup("GITHUB_REF_NAME"),
		RepositoryName:     repoName,
		RepositoryFullName: fullName,
		RepositoryFullPath: fullPath,
		Namespace:          lookup("GITHUB_REPOSITORY_OWNER"),
		RunID:              lookup("GITHUB_RUN_ID"),
		Workflow:           lookup("GITHUB_WORKFLOW"),
	}
}
