package version

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/secretscout-io/secretscout/pkg/shared/config"
)

var (
	AppConfig     *config.Config
	CoreVersion   = "unknown"
	GolangVersion = "unknown"
	BuildTime     = "unknown"
)

// Versions holds version information for the binary and the engine it runs by default.
type Versions struct {
	Version         string `json:"version"`
	GolangVersion   string `json:"golang_version"`
	BuildTime       string `json:"build_time"`
	GitleaksVersion string `json:"gitleaks_version"`
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// NewVersionCmd creates a new cobra.Command for the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "version",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Print the version number of the application and the default gitleaks version",
		Run: func(cmd *cobra.Command, args []string) {
			printVersionInfo(cmd.OutOrStdout(), Versions{
				Version:         CoreVersion,
				GolangVersion:   GolangVersion,
				BuildTime:       BuildTime,
				GitleaksVersion: config.DefaultGitleaksVersion,
			})
		},
	}
}

// printVersionInfo prints the version information for the core application and engine.
func printVersionInfo(w io.Writer, v Versions) {
	fmt.Fprintf(w, "Core Version: v%s\n", v.Version)
	fmt.Fprintf(w, "Gitleaks Version: v%s\n", v.GitleaksVersion)
	fmt.Fprintf(w, "Go Version: %s\n", v.GolangVersion)
	fmt.Fprintf(w, "Build Time: %s\n", v.BuildTime)
}
