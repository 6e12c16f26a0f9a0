package errors

import (
	"errors"
	"fmt"
)

// CommandError carries the process exit code a command wants to terminate with.
type CommandError struct {
	ExitCode    int
	CommonError string
	Err         error
}

// Error implements the error interface, returning the message from the common error.
func (e *CommandError) Error() string {
	return e.CommonError
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError instance with the given exit code.
func NewCommandError(err error, code int) *CommandError {
	msg := ""
	if err != nil {
		msg = Sanitize(err.Error())
	}
	return &CommandError{
		ExitCode:    code,
		CommonError: msg,
		Err:         err,
	}
}

// ExitCodeFrom extracts the exit code carried by a CommandError anywhere in the chain.
// Errors without one map to 1, nil maps to 0.
func ExitCodeFrom(err error) int {
	if err == nil {
		return 0
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitCode
	}
	return 1
}

// ConfigKind enumerates configuration failures.
type ConfigKind string

const (
	MissingEnvVar     ConfigKind = "missing required environment variable"
	InvalidEnvVar     ConfigKind = "invalid environment variable value"
	InvalidGitRef     ConfigKind = "invalid git reference"
	InvalidPath       ConfigKind = "invalid file path"
	ConfigFileMissing ConfigKind = "file not found"
	PathTraversal     ConfigKind = "path traversal detected"
	OutsideWorkspace  ConfigKind = "path outside workspace"
	InvalidRepository ConfigKind = "invalid repository format (expected 'owner/repo')"
	InvalidConfigFile ConfigKind = "invalid configuration file"
	InvalidRuleConfig ConfigKind = "invalid gitleaks rule configuration"
)

// ConfigError is returned by configuration loading and validation.
type ConfigError struct {
	Kind   ConfigKind
	Detail string
	Err    error
}

func (e *ConfigError) Error() string {
	return format("configuration error", string(e.Kind), e.Detail, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Severity resolves the error through the configuration severity table.
func (e *ConfigError) Severity() Severity { return severityFor(configSeverity, e.Kind) }

// NewConfigError builds a ConfigError.
func NewConfigError(kind ConfigKind, detail string, err error) *ConfigError {
	return &ConfigError{Kind: kind, Detail: detail, Err: err}
}

// EventKind enumerates event processing failures.
type EventKind string

const (
	UnsupportedEvent EventKind = "unsupported event type"
	InvalidEventJSON EventKind = "invalid event JSON"
	MissingField     EventKind = "missing required field in event"
	NoCommits        EventKind = "no commits found in event"
	FetchCommits     EventKind = "failed to fetch PR commits"
	InvalidPRNumber  EventKind = "invalid PR number"
)

// EventError is returned while turning a CI trigger into a scan context.
type EventError struct {
	Kind   EventKind
	Detail string
	Err    error
}

func (e *EventError) Error() string {
	return format("event processing error", string(e.Kind), e.Detail, e.Err)
}

func (e *EventError) Unwrap() error { return e.Err }

// Severity resolves the error through the event severity table.
func (e *EventError) Severity() Severity { return severityFor(eventSeverity, e.Kind) }

// NewEventError builds an EventError.
func NewEventError(kind EventKind, detail string, err error) *EventError {
	return &EventError{Kind: kind, Detail: detail, Err: err}
}

// BinaryKind enumerates failures around obtaining and running the scanner binary.
type BinaryKind string

const (
	UnsupportedPlatform     BinaryKind = "unsupported platform"
	UnsupportedArchitecture BinaryKind = "unsupported architecture"
	DownloadFailed          BinaryKind = "failed to download binary"
	ExtractionFailed        BinaryKind = "failed to extract archive"
	BinaryNotFound          BinaryKind = "binary not found in archive"
	ExecutionFailed         BinaryKind = "failed to execute gitleaks"
	GitleaksError           BinaryKind = "gitleaks exited with error"
	ChmodFailed             BinaryKind = "failed to make binary executable"
	CacheError              BinaryKind = "cache error"
	VersionResolution       BinaryKind = "failed to resolve latest version"
)

// BinaryError is returned by the platform detection, cache, fetcher and runner.
// ExitCode and Stderr are populated for GitleaksError.
type BinaryError struct {
	Kind     BinaryKind
	Detail   string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *BinaryError) Error() string {
	if e.Kind == GitleaksError {
		return fmt.Sprintf("binary management error: gitleaks exited with error code %d: %s", e.ExitCode, e.Stderr)
	}
	return format("binary management error", string(e.Kind), e.Detail, e.Err)
}

func (e *BinaryError) Unwrap() error { return e.Err }

// Severity resolves the error through the binary severity table.
func (e *BinaryError) Severity() Severity { return severityFor(binarySeverity, e.Kind) }

// NewBinaryError builds a BinaryError.
func NewBinaryError(kind BinaryKind, detail string, err error) *BinaryError {
	return &BinaryError{Kind: kind, Detail: detail, Err: err}
}

// NewGitleaksError reports an engine run that ended with an error status.
func NewGitleaksError(code int, stderr string) *BinaryError {
	return &BinaryError{Kind: GitleaksError, ExitCode: code, Stderr: stderr}
}

// SarifKind enumerates report parsing failures.
type SarifKind string

const (
	SarifFileNotFound     SarifKind = "SARIF file not found"
	SarifParseError       SarifKind = "failed to parse SARIF JSON"
	SarifInvalidStructure SarifKind = "invalid SARIF structure"
	SarifMissingField     SarifKind = "missing required field"
)

// SarifError is returned by the report parser.
type SarifError struct {
	Kind   SarifKind
	Detail string
	Err    error
}

func (e *SarifError) Error() string {
	return format("SARIF processing error", string(e.Kind), e.Detail, e.Err)
}

func (e *SarifError) Unwrap() error { return e.Err }

// Severity resolves the error through the report severity table.
func (e *SarifError) Severity() Severity { return severityFor(sarifSeverity, e.Kind) }

// NewSarifError builds a SarifError.
func NewSarifError(kind SarifKind, detail string, err error) *SarifError {
	return &SarifError{Kind: kind, Detail: detail, Err: err}
}

// GitHubKind enumerates remote API failures.
type GitHubKind string

const (
	RequestFailed        GitHubKind = "API request failed"
	AuthenticationFailed GitHubKind = "authentication failed"
	RateLimitExceeded    GitHubKind = "rate limit exceeded"
	NotFound             GitHubKind = "resource not found"
	InvalidResponse      GitHubKind = "failed to parse API response"
	DiffTooLarge         GitHubKind = "cannot comment on line (diff too large or file not in PR)"
)

// GitHubError is returned by the remote API client. Status is the HTTP status when known.
type GitHubError struct {
	Kind   GitHubKind
	Status int
	Detail string
	Err    error
}

func (e *GitHubError) Error() string {
	detail := e.Detail
	if e.Status != 0 {
		detail = fmt.Sprintf("status %d: %s", e.Status, e.Detail)
	}
	return Sanitize(format("GitHub API error", string(e.Kind), detail, e.Err))
}

func (e *GitHubError) Unwrap() error { return e.Err }

// Severity resolves the error through the GitHub severity table.
func (e *GitHubError) Severity() Severity { return severityFor(githubSeverity, e.Kind) }

// NewGitHubError builds a GitHubError.
func NewGitHubError(kind GitHubKind, status int, detail string, err error) *GitHubError {
	return &GitHubError{Kind: kind, Status: status, Detail: detail, Err: err}
}

func format(scope, kind, detail string, cause error) string {
	msg := scope + ": " + kind
	if detail != "" {
		msg += ": " + detail
	}
	if cause != nil {
		msg += ": " + cause.Error()
	}
	return msg
}
