package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/secretscout-io/secretscout/cmd/action"
	"github.com/secretscout-io/secretscout/cmd/detect"
	"github.com/secretscout-io/secretscout/cmd/protect"
	"github.com/secretscout-io/secretscout/cmd/version"
	"github.com/secretscout-io/secretscout/internal/ci"
	"github.com/secretscout-io/secretscout/pkg/shared/config"
	apperrors "github.com/secretscout-io/secretscout/pkg/shared/errors"
	"github.com/secretscout-io/secretscout/pkg/shared/logger"
)

var (
	cfgFile   string
	AppConfig *config.Config
	Logger    hclog.Logger
	rootCmd   = &cobra.Command{
		Use:                   "secretscout [command]",
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		Short:                 "SecretScout runs gitleaks in CI and reports leaked secrets.",
		Long: `SecretScout downloads and runs the gitleaks secret scanner over the commits of a
	GitHub Actions trigger, then reports findings as a job summary, pull request review
	comments and a SARIF artifact. Without a subcommand it runs in GitHub Actions mode
	when the Actions environment is present.
	`,
		PersistentPreRunE: initConfig,
		RunE:              runRoot,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", fmt.Sprintf("YAML config file (default is $%s)", config.ConfigPathEnv))
	rootCmd.AddCommand(
		action.ActionCmd,
		detect.DetectCmd,
		protect.ProtectCmd,
		version.NewVersionCmd(),
	)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var cmdErr *apperrors.CommandError
	if !errors.As(err, &cmdErr) {
		fmt.Fprintf(os.Stderr, "Error executing command: %s\n", apperrors.Sanitize(err.Error()))
	}
	return apperrors.ExitCodeFrom(err)
}

func runRoot(cmd *cobra.Command, args []string) error {
	if ci.DetectMode() == ci.ModeAction {
		Logger.Debug("GitHub Actions environment detected")
		return action.ActionCmd.RunE(cmd, args)
	}
	return cmd.Help()
}

func initConfig(cmd *cobra.Command, args []string) error {
	var err error

	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		return err
	}

	Logger = logger.NewLogger(AppConfig, "secretscout")

	action.Init(AppConfig, Logger)
	detect.Init(AppConfig, Logger)
	protect.Init(AppConfig, Logger)
	version.Init(AppConfig)
	return nil
}
