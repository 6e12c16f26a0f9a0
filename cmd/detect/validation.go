package detect

import (
	"fmt"
	"os"
	"strings"

	cmdutil "github.com/secretscout-io/secretscout/internal/cmd"
	"github.com/secretscout-io/secretscout/pkg/shared/files"
)

var reportFormats = []string{"json", "csv", "junit", "sarif"}

// validateDetectArgs validates the arguments provided to the detect command.
// A single positional argument is accepted as the source path.
func validateDetectArgs(opts *RunOptionsDetect, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("unexpected positional arguments: %s", strings.Join(args[1:], " "))
	}
	if len(args) == 1 {
		if opts.Source != "" && opts.Source != "." {
			return fmt.Errorf("you cannot use a 'source' flag and a target path at the same time")
		}
		opts.Source = args[0]
	}

	if _, err := os.Stat(opts.Source); os.IsNotExist(err) {
		return fmt.Errorf("the source path does not exist: %v", opts.Source)
	}

	if opts.ReportFormat != "" && !contains(reportFormats, opts.ReportFormat) {
		return fmt.Errorf("unsupported 'report-format' %q, expected one of: %s", opts.ReportFormat, strings.Join(reportFormats, ", "))
	}

	if opts.RuleConfigPath != "" {
		if _, err := os.Stat(opts.RuleConfigPath); err != nil {
			return fmt.Errorf("the gitleaks config does not exist: %v", opts.RuleConfigPath)
		}
	}

	if cmdutil.ContainsShellMetacharacters(opts.LogOpts) {
		return fmt.Errorf("'log-opts' contains forbidden characters")
	}

	if opts.ExitCode < 0 || opts.ExitCode > 255 {
		return fmt.Errorf("the 'exit-code' flag must be between 0 and 255")
	}

	return nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// resolveReportPath treats a directory report path as the folder for a
// gitleaks-report.<format> file and creates the folder when missing.
func resolveReportPath(path, format string) (string, error) {
	if format == "" {
		format = "json"
	}
	fullPath, folder, err := files.DetermineFileFullPath(path, "gitleaks-report."+format)
	if err != nil {
		return "", err
	}
	if err := files.CreateFolderIfNotExists(folder); err != nil {
		return "", fmt.Errorf("failed to create report folder %q: %w", folder, err)
	}
	return fullPath, nil
}
