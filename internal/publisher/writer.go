package publisher

import (
	"github.com/hashicorp/go-hclog"

	"github.com/secretscout-io/secretscout/pkg/shared/files"
)

// WriteSummary appends content and a trailing newline to the step summary
// file. An unset path is only warned about.
func WriteSummary(logger hclog.Logger, path, content string) error {
	if path == "" {
		logger.Warn("GITHUB_STEP_SUMMARY not set, cannot write summary")
		return nil
	}
	if err := files.AppendToFile(path, []byte(content+"\n")); err != nil {
		return err
	}
	logger.Debug("wrote job summary", "path", path, "bytes", len(content)+1)
	return nil
}
