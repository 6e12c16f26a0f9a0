package action

import (
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/secretscout-io/secretscout/internal/ci"
	cmdutil "github.com/secretscout-io/secretscout/internal/cmd"
	"github.com/secretscout-io/secretscout/internal/engine"
	"github.com/secretscout-io/secretscout/internal/git"
	"github.com/secretscout-io/secretscout/internal/github"
	"github.com/secretscout-io/secretscout/internal/pipeline"
	"github.com/secretscout-io/secretscout/pkg/shared/config"
	apperrors "github.com/secretscout-io/secretscout/pkg/shared/errors"
)

var (
	AppConfig *config.Config
	logger    hclog.Logger

	exampleActionUsage = `  # Inside a GitHub Actions step
  secretscout action

  # Same, with a custom configuration file
  secretscout action --config-file .secretscout.yml`

	// ActionCmd runs the full scan pipeline against the GitHub Actions environment.
	ActionCmd = &cobra.Command{
		Use:                   "action",
		Short:                 "Scan the commits of the current GitHub Actions trigger",
		Example:               exampleActionUsage,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE:                  runActionCommand,
	}
)

// Init wires config and logger into the command package.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
	ActionCmd.Long = generateLongDescription()
}

func runActionCommand(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return apperrors.NewCommandError(errUnexpectedArgs(args), 1)
	}
	ctx := cmd.Context()

	env := ci.GetGitHubEnvironment()
	logger.Info("starting secret scan",
		"repository", env.RepositoryFullName,
		"ref", env.Reference,
		"commit", env.CommitHash,
		"workflow", env.Workflow,
		"run_id", env.RunID,
	)

	settings, err := config.LoadActionSettings(logger, config.WithRepositoryFallback(git.RepositoryFullName))
	if err != nil {
		return fail(err)
	}

	provider, err := cmdutil.NewBinaryProvider(AppConfig, logger)
	if err != nil {
		return fail(err)
	}

	var api pipeline.API
	if settings.Token != "" {
		client, err := github.NewClientFromConfig(ctx, logger, AppConfig, settings.Token)
		if err != nil {
			return fail(err)
		}
		api = client
	}

	code, err := pipeline.New(logger, settings, provider, engine.NewRunner(logger), api).Run(ctx)
	if err != nil {
		return fail(err)
	}
	if code != pipeline.ExitClean {
		return apperrors.NewCommandError(nil, code)
	}
	return nil
}

// fail converts a pipeline error into the command's exit status. Expected
// conditions such as an empty push end the run successfully.
func fail(err error) error {
	severity := apperrors.SeverityOf(err)
	msg := apperrors.Sanitize(err.Error())
	if severity == apperrors.Expected {
		logger.Info("nothing to scan", "reason", msg)
		return nil
	}
	logger.Error("secret scan failed", "severity", severity, "error", msg)
	return apperrors.NewCommandError(err, apperrors.ExitCodeFor(err))
}
