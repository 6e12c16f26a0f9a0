package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/pflag"

	"github.com/secretscout-io/secretscout/internal/binary"
	"github.com/secretscout-io/secretscout/internal/engine"
	"github.com/secretscout-io/secretscout/pkg/shared/config"
	apperrors "github.com/secretscout-io/secretscout/pkg/shared/errors"
	"github.com/secretscout-io/secretscout/pkg/shared/httpclient"
)

// shellMetacharacters may not appear in values forwarded to the engine.
const shellMetacharacters = ";&|$`\n\r<>"

// HasFlags reports whether any flag was set explicitly.
func HasFlags(flags *pflag.FlagSet) bool {
	set := false
	flags.Visit(func(*pflag.Flag) { set = true })
	return set
}

// ContainsShellMetacharacters reports whether value contains characters that
// could alter an engine command line.
func ContainsShellMetacharacters(value string) bool {
	return strings.ContainsAny(value, shellMetacharacters)
}

// NewBinaryProvider wires the binary cache, version resolver and fetcher from
// the application config.
func NewBinaryProvider(cfg *config.Config, logger hclog.Logger) (*binary.Fetcher, error) {
	binLogger := logger.Named("binary")

	cache, err := binary.OpenCache(binLogger, config.CacheDir(cfg))
	if err != nil {
		return nil, err
	}
	client := httpclient.InitializeRestyClient(binLogger, cfg)
	resolver := binary.NewVersionResolver(binLogger, client, config.LatestReleaseURL(cfg))
	return binary.NewFetcher(binLogger, client, cache, resolver, config.DownloadBaseURL(cfg)), nil
}

// LocalExitCode maps an engine status onto the exit code of a local scan:
// clean runs exit 0, findings exit findingsCode and anything else passes through.
func LocalExitCode(engineCode, findingsCode int) int {
	switch engineCode {
	case 0:
		return 0
	case engine.FindingsExitCode:
		return findingsCode
	default:
		return engineCode
	}
}

// LocalRun describes one engine invocation outside of GitHub Actions.
type LocalRun struct {
	Version      string
	Args         []string
	Workdir      string
	FindingsCode int
	Stdout       io.Writer
	Stderr       io.Writer
}

// RunLocal obtains the engine, runs it and forwards its output. The returned
// error already carries the exit code as a CommandError.
func RunLocal(ctx context.Context, cfg *config.Config, logger hclog.Logger, run LocalRun) error {
	provider, err := NewBinaryProvider(cfg, logger)
	if err != nil {
		return commandError(logger, err)
	}
	binaryPath, err := provider.Obtain(ctx, run.Version)
	if err != nil {
		return commandError(logger, err)
	}

	res, err := engine.NewRunner(logger).Run(ctx, binaryPath, run.Args, run.Workdir)
	if run.Stdout != nil {
		fmt.Fprint(run.Stdout, res.Stdout)
	}
	if run.Stderr != nil {
		fmt.Fprint(run.Stderr, res.Stderr)
	}
	if err != nil {
		return commandError(logger, err)
	}

	code := LocalExitCode(res.ExitCode, run.FindingsCode)
	switch res.ExitCode {
	case 0:
		logger.Info("No secrets detected")
	case engine.FindingsExitCode:
		logger.Warn("secrets detected", "exit_code", code)
	default:
		logger.Error("unexpected gitleaks exit code", "exit_code", res.ExitCode)
	}
	if code != 0 {
		return apperrors.NewCommandError(nil, code)
	}
	return nil
}

func commandError(logger hclog.Logger, err error) error {
	logger.Error("gitleaks run failed", "severity", apperrors.SeverityOf(err), "error", apperrors.Sanitize(err.Error()))
	return apperrors.NewCommandError(err, apperrors.ExitCodeFor(err))
}
