package action

import (
	"fmt"
	"strings"

	"github.com/secretscout-io/secretscout/pkg/shared/config"
)

func errUnexpectedArgs(args []string) error {
	return fmt.Errorf("unexpected positional arguments: %s", strings.Join(args, " "))
}

// generateLongDescription lists the environment the command reads.
func generateLongDescription() string {
	vars := []string{
		config.EnvWorkspace,
		config.EnvEventPath,
		config.EnvEventName,
		config.EnvRepository,
		config.EnvToken,
		config.EnvVersion,
		config.EnvRuleConfig,
		config.EnvEnableSummary,
		config.EnvEnableUploadArtifact,
		config.EnvEnableComments,
		config.EnvNotifyUserList,
		config.EnvBaseRef,
	}
	return fmt.Sprintf(`Runs gitleaks over the commits of the current GitHub Actions trigger and publishes
the results as a job summary, pull request review comments and a SARIF report.

Exit codes: 0 when clean, 1 when secrets are found or the run fails, and the
gitleaks status for any other engine exit.

Environment:
  %s`, strings.Join(vars, "\n  "))
}
