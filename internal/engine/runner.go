package engine

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/hashicorp/go-hclog"

	apperrors "github.com/secretscout-io/secretscout/pkg/shared/errors"
)

// UnknownExitCode is reported when the process ended without a usable status.
const UnknownExitCode = -1

// Result is the captured outcome of one engine run.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes the gitleaks binary.
type Runner struct {
	logger hclog.Logger
}

func NewRunner(logger hclog.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run executes binaryPath with args inside workdir. Exit status 1 means gitleaks
// itself failed and is returned as a GitleaksError; 0, 2 and anything else are
// handed back for the caller to interpret.
func (r *Runner) Run(ctx context.Context, binaryPath string, args []string, workdir string) (Result, error) {
	r.logger.Info("executing gitleaks", "binary", binaryPath, "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, binaryPath, args...)
	cmd.Dir = workdir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	res := Result{ExitCode: 0}
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return Result{}, apperrors.NewBinaryError(apperrors.ExecutionFailed, "failed to spawn process", err)
		}
		res.ExitCode = exitErr.ExitCode()
		if res.ExitCode < 0 {
			res.ExitCode = UnknownExitCode
		}
	}
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	r.logger.Debug("gitleaks finished", "exit_code", res.ExitCode)
	r.logger.Trace("gitleaks stdout", "output", res.Stdout)
	r.logger.Trace("gitleaks stderr", "output", res.Stderr)

	if res.ExitCode == 1 {
		return res, apperrors.NewGitleaksError(res.ExitCode, res.Stderr)
	}
	return res, nil
}
