package protect

import (
	"fmt"
	"os"
	"strings"

	"github.com/secretscout-io/secretscout/pkg/shared/files"
)

// validateProtectArgs validates the arguments provided to the protect command.
func validateProtectArgs(opts *RunOptionsProtect, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected positional arguments: %s", strings.Join(args, " "))
	}

	if err := files.ValidateDir(opts.Source); err != nil {
		return fmt.Errorf("the source path is not a directory: %v", opts.Source)
	}

	if opts.RuleConfigPath != "" {
		if _, err := os.Stat(opts.RuleConfigPath); err != nil {
			return fmt.Errorf("the gitleaks config does not exist: %v", opts.RuleConfigPath)
		}
	}
	return nil
}
