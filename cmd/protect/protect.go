package protect

import (
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	cmdutil "github.com/secretscout-io/secretscout/internal/cmd"
	"github.com/secretscout-io/secretscout/internal/engine"
	"github.com/secretscout-io/secretscout/pkg/shared/config"
	apperrors "github.com/secretscout-io/secretscout/pkg/shared/errors"
)

// RunOptionsProtect holds the arguments for the protect command.
type RunOptionsProtect struct {
	Source          string
	RuleConfigPath  string
	GitleaksVersion string
	Staged          bool
	Verbose         bool
}

var (
	AppConfig      *config.Config
	logger         hclog.Logger
	protectOptions RunOptionsProtect

	exampleProtectUsage = `  # Scan staged changes before committing, e.g. from a pre-commit hook
  secretscout protect --staged

  # Scan all uncommitted changes of another repository with custom rules
  secretscout protect --source /path/to/repo --gitleaks-config gitleaks.toml -v`

	// ProtectCmd scans uncommitted changes.
	ProtectCmd = &cobra.Command{
		Use:                   "protect [--source PATH] [--staged] [--gitleaks-config PATH] [--gitleaks-version VERSION] [-v]",
		Short:                 "Scan uncommitted changes for secrets",
		Example:               exampleProtectUsage,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE:                  runProtectCommand,
	}
)

// Init wires config and logger into the command package.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

func runProtectCommand(cmd *cobra.Command, args []string) error {
	if err := validateProtectArgs(&protectOptions, args); err != nil {
		logger.Error("invalid protect arguments", "error", err)
		return apperrors.NewCommandError(err, 1)
	}

	opts := engine.ProtectOptions{
		Source:         protectOptions.Source,
		Staged:         protectOptions.Staged,
		Verbose:        protectOptions.Verbose,
		RuleConfigPath: protectOptions.RuleConfigPath,
	}

	return cmdutil.RunLocal(cmd.Context(), AppConfig, logger, cmdutil.LocalRun{
		Version:      protectOptions.GitleaksVersion,
		Args:         opts.Args(),
		FindingsCode: 1,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
	})
}

func init() {
	ProtectCmd.Flags().StringVar(&protectOptions.Source, "source", ".", "Path to the git repository to scan.")
	ProtectCmd.Flags().StringVar(&protectOptions.RuleConfigPath, "gitleaks-config", "", "Path to a gitleaks rule configuration (TOML).")
	ProtectCmd.Flags().StringVar(&protectOptions.GitleaksVersion, "gitleaks-version", config.DefaultGitleaksVersion, "gitleaks version to run, or 'latest'.")
	ProtectCmd.Flags().BoolVar(&protectOptions.Staged, "staged", false, "Scan only staged changes.")
	ProtectCmd.Flags().BoolVarP(&protectOptions.Verbose, "verbose", "v", false, "Show verbose gitleaks output.")
}
