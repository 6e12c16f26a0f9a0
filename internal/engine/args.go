// Package engine builds gitleaks command lines and runs the binary.
package engine

import (
	"fmt"

	"github.com/secretscout-io/secretscout/pkg/shared/config"
)

// FindingsExitCode is the exit status gitleaks is told to use when it finds leaks.
const FindingsExitCode = 2

// DetectOptions describes a `gitleaks detect` invocation.
type DetectOptions struct {
	Source         string
	ReportPath     string
	ReportFormat   string
	Redact         bool
	Verbose        bool
	ExitCode       int
	LogLevel       string
	RuleConfigPath string
	LogOpts        string
}

// Args renders the options in the order gitleaks documents them.
func (o DetectOptions) Args() []string {
	args := []string{"detect"}
	if o.Source != "" {
		args = append(args, "--source="+o.Source)
	}
	if o.Redact {
		args = append(args, "--redact")
	}
	if o.Verbose {
		args = append(args, "-v")
	}
	args = append(args, fmt.Sprintf("--exit-code=%d", o.ExitCode))
	if o.ReportFormat != "" {
		args = append(args, "--report-format="+o.ReportFormat)
	}
	if o.ReportPath != "" {
		args = append(args, "--report-path="+o.ReportPath)
	}
	if o.LogLevel != "" {
		args = append(args, "--log-level="+o.LogLevel)
	}
	if o.RuleConfigPath != "" {
		args = append(args, "--config="+o.RuleConfigPath)
	}
	if o.LogOpts != "" {
		args = append(args, "--log-opts="+o.LogOpts)
	}
	return args
}

// BuildArguments returns the fixed CI invocation: redacted, verbose, SARIF report
// in the workspace, exit code 2 on findings, plus the optional rule config and
// log range.
func BuildArguments(s *config.ActionSettings, logOpts string) []string {
	return DetectOptions{
		ReportPath:     s.ReportPath(),
		ReportFormat:   "sarif",
		Redact:         true,
		Verbose:        true,
		ExitCode:       FindingsExitCode,
		LogLevel:       "debug",
		RuleConfigPath: s.RuleConfigPath,
		LogOpts:        logOpts,
	}.Args()
}

// ProtectOptions describes a `gitleaks protect` invocation over uncommitted changes.
type ProtectOptions struct {
	Source         string
	Staged         bool
	Verbose        bool
	RuleConfigPath string
}

func (o ProtectOptions) Args() []string {
	args := []string{"protect", "--source=" + o.Source, fmt.Sprintf("--exit-code=%d", FindingsExitCode)}
	if o.Staged {
		args = append(args, "--staged")
	}
	if o.Verbose {
		args = append(args, "-v", "--log-level=debug")
	}
	if o.RuleConfigPath != "" {
		args = append(args, "--config="+o.RuleConfigPath)
	}
	return args
}
