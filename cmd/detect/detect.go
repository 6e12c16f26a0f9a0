package detect

import (
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	cmdutil "github.com/secretscout-io/secretscout/internal/cmd"
	"github.com/secretscout-io/secretscout/internal/engine"
	"github.com/secretscout-io/secretscout/pkg/shared/config"
	apperrors "github.com/secretscout-io/secretscout/pkg/shared/errors"
)

// RunOptionsDetect holds the arguments for the detect command.
type RunOptionsDetect struct {
	Source          string
	ReportPath      string
	ReportFormat    string
	LogOpts         string
	RuleConfigPath  string
	GitleaksVersion string
	Redact          bool
	Verbose         bool
	ExitCode        int
}

var (
	AppConfig     *config.Config
	logger        hclog.Logger
	detectOptions RunOptionsDetect

	exampleDetectUsage = `  # Scan the history of the repository in the current directory
  secretscout detect

  # Scan a repository and write a redacted SARIF report
  secretscout detect --source /path/to/repo --redact --report-format sarif --report-path results.sarif

  # Scan only the last ten commits with a pinned gitleaks version
  secretscout detect --log-opts "-10" --gitleaks-version 8.24.3`

	// DetectCmd scans git history on the local machine.
	DetectCmd = &cobra.Command{
		Use:                   "detect [--source PATH] [--report-path PATH] [--report-format FORMAT] [--redact] [--exit-code N] [--log-opts OPTS] [--gitleaks-config PATH] [--gitleaks-version VERSION] [-v]",
		Short:                 "Scan git history for secrets",
		Example:               exampleDetectUsage,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE:                  runDetectCommand,
	}
)

// Init wires config and logger into the command package.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

func runDetectCommand(cmd *cobra.Command, args []string) error {
	if err := validateDetectArgs(&detectOptions, args); err != nil {
		logger.Error("invalid detect arguments", "error", err)
		return apperrors.NewCommandError(err, 1)
	}

	if detectOptions.ReportPath != "" {
		reportPath, err := resolveReportPath(detectOptions.ReportPath, detectOptions.ReportFormat)
		if err != nil {
			logger.Error("invalid report path", "error", err)
			return apperrors.NewCommandError(err, 1)
		}
		detectOptions.ReportPath = reportPath
	}

	opts := engine.DetectOptions{
		Source:         detectOptions.Source,
		ReportPath:     detectOptions.ReportPath,
		ReportFormat:   detectOptions.ReportFormat,
		Redact:         detectOptions.Redact,
		Verbose:        detectOptions.Verbose,
		ExitCode:       engine.FindingsExitCode,
		RuleConfigPath: detectOptions.RuleConfigPath,
		LogOpts:        detectOptions.LogOpts,
	}
	if detectOptions.Verbose {
		opts.LogLevel = "debug"
	}

	return cmdutil.RunLocal(cmd.Context(), AppConfig, logger, cmdutil.LocalRun{
		Version:      detectOptions.GitleaksVersion,
		Args:         opts.Args(),
		FindingsCode: detectOptions.ExitCode,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
	})
}

func init() {
	DetectCmd.Flags().StringVar(&detectOptions.Source, "source", ".", "Path to the git repository to scan.")
	DetectCmd.Flags().StringVar(&detectOptions.ReportPath, "report-path", "", "Write the gitleaks report to this file.")
	DetectCmd.Flags().StringVar(&detectOptions.ReportFormat, "report-format", "", "Report format: json, csv, junit or sarif.")
	DetectCmd.Flags().StringVar(&detectOptions.LogOpts, "log-opts", "", "git log options limiting the scanned commits.")
	DetectCmd.Flags().StringVar(&detectOptions.RuleConfigPath, "gitleaks-config", "", "Path to a gitleaks rule configuration (TOML).")
	DetectCmd.Flags().StringVar(&detectOptions.GitleaksVersion, "gitleaks-version", config.DefaultGitleaksVersion, "gitleaks version to run, or 'latest'.")
	DetectCmd.Flags().BoolVar(&detectOptions.Redact, "redact", false, "Redact secrets from the output.")
	DetectCmd.Flags().BoolVarP(&detectOptions.Verbose, "verbose", "v", false, "Show verbose gitleaks output.")
	DetectCmd.Flags().IntVar(&detectOptions.ExitCode, "exit-code", 1, "Exit code returned when secrets are found.")
}
