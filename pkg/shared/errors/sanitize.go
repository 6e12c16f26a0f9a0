package errors

import (
	regexp "github.com/wasilibs/go-re2"
)

const redacted = "***"

type redaction struct {
	pattern     *regexp.Regexp
	replacement string
}

var redactions = []redaction{
	{regexp.MustCompile(`github_pat_[A-Za-z0-9_]{20,}`), redacted},
	{regexp.MustCompile(`gh[pousr]_[A-Za-z0-9]{20,}`), redacted},
	{regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9\-._~+/]+=*`), "${1}" + redacted},
	{regexp.MustCompile(`(?i)((?:token|key|secret|password|license)\s*[=:]\s*)[^\s&,;"']+`), "${1}" + redacted},
}

// Sanitize replaces token-like substrings in a message with "***".
func Sanitize(msg string) string {
	for _, r := range redactions {
		msg = r.pattern.ReplaceAllString(msg, r.replacement)
	}
	return msg
}
