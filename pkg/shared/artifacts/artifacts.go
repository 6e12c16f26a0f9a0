package artifacts

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/secretscout-io/secretscout/pkg/shared/files"
)

// ManifestFileName is written next to the SARIF report in the workspace.
const ManifestFileName = "secretscout-manifest.json"

// RunManifest describes one pipeline run for the artifact uploaded by the workflow.
type RunManifest struct {
	RunID          string    `json:"run_id"`
	CreatedAt      time.Time `json:"created_at"`
	Event          string    `json:"event"`
	Repository     string    `json:"repository"`
	ScanRange      string    `json:"scan_range"`
	GitleaksVer    string    `json:"gitleaks_version"`
	EngineExitCode int       `json:"engine_exit_code"`
	ToolName       string    `json:"tool_name"`
	ToolVersion    string    `json:"tool_version,omitempty"`
	ReportPath     string    `json:"report_path"`
	FindingsCount  int       `json:"findings_count"`
	Findings       any       `json:"findings"`
}

// NewRunManifest stamps a manifest with a fresh run id and creation time.
func NewRunManifest(t time.Time) RunManifest {
	return RunManifest{
		RunID:     uuid.NewString(),
		CreatedAt: t.UTC(),
	}
}

// GetArtifactName returns the manifest file name for a run.
// Example: push_2025-09-15T08:28:46Z.secretscout-artifact.
func GetArtifactName(event string, t time.Time) string {
	ts := t.UTC().Format(time.RFC3339)
	return fmt.Sprintf("%s_%s.secretscout-artifact", event, ts)
}

// SaveManifest writes the manifest to <dir>/secretscout-manifest.json and returns the full path.
func SaveManifest(logger hclog.Logger, dir string, manifest RunManifest) (string, error) {
	path := filepath.Join(dir, ManifestFileName)

	data, err := json.MarshalIndent(manifest, "", "    ")
	if err != nil {
		return path, fmt.Errorf("error marshaling the run manifest: %w", err)
	}

	if err := files.WriteJsonFile(path, data); err != nil {
		return path, fmt.Errorf("error writing run manifest: %w", err)
	}
	if logger != nil {
		logger.Info("run manifest saved", "path", path, "run_id", manifest.RunID, "artifact", GetArtifactName(manifest.Event, manifest.CreatedAt))
	}

	return path, nil
}
