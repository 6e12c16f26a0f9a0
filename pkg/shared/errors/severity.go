package errors

import "errors"

// Severity tells the entry point how to react to an error.
type Severity int

const (
	// Fatal stops the run with a failing exit status.
	Fatal Severity = iota
	// NonFatal is logged and the run continues.
	NonFatal
	// Expected ends the run successfully.
	Expected
)

func (s Severity) String() string {
	switch s {
	case NonFatal:
		return "non-fatal"
	case Expected:
		return "expected"
	default:
		return "fatal"
	}
}

var configSeverity = map[ConfigKind]Severity{
	MissingEnvVar:    Fatal,
	InvalidEnvVar:    Fatal,
	PathTraversal:    Fatal,
	OutsideWorkspace: Fatal,
}

var eventSeverity = map[EventKind]Severity{
	UnsupportedEvent: Fatal,
	NoCommits:        Expected,
}

var binarySeverity = map[BinaryKind]Severity{
	UnsupportedPlatform:     Fatal,
	UnsupportedArchitecture: Fatal,
	DownloadFailed:          Fatal,
	GitleaksError:           Fatal,
	CacheError:              NonFatal,
	VersionResolution:       NonFatal,
}

var sarifSeverity = map[SarifKind]Severity{
	SarifFileNotFound: Fatal,
	SarifParseError:   Fatal,
}

var githubSeverity = map[GitHubKind]Severity{
	AuthenticationFailed: Fatal,
	DiffTooLarge:         NonFatal,
	NotFound:             NonFatal,
	RateLimitExceeded:    NonFatal,
}

// Kinds missing from a table are fatal.
func severityFor[K comparable](table map[K]Severity, kind K) Severity {
	if s, ok := table[kind]; ok {
		return s
	}
	return Fatal
}

type severer interface {
	Severity() Severity
}

// SeverityOf returns the severity of the first classified error in the chain.
// Unclassified errors are fatal.
func SeverityOf(err error) Severity {
	var s severer
	if errors.As(err, &s) {
		return s.Severity()
	}
	return Fatal
}

// ExitCodeFor maps an error reaching the entry point to a process exit code.
func ExitCodeFor(err error) int {
	if err == nil || SeverityOf(err) == Expected {
		return 0
	}
	return 1
}

// IsGitHubKind reports whether err carries a GitHubError of the given kind.
func IsGitHubKind(err error, kind GitHubKind) bool {
	var gh *GitHubError
	return errors.As(err, &gh) && gh.Kind == kind
}
