package sarif

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/secretscout-io/secretscout/internal/findings"
	apperrors "github.com/secretscout-io/secretscout/pkg/shared/errors"
)

// Keys gitleaks writes into partialFingerprints.
const (
	fingerprintCommit = "commitSha"
	fingerprintAuthor = "author"
	fingerprintEmail  = "email"
	fingerprintDate   = "date"
)

// Report wraps a parsed SARIF document.
type Report struct {
	*sarif.Report
	logger hclog.Logger
}

// ToolMetadata names the tool that produced the first run.
type ToolMetadata struct {
	Name    string
	Version *string
}

// ReadReport parses the SARIF file at path. A document without runs means the
// engine never scanned and is rejected; a run without results is valid.
func ReadReport(path string, logger hclog.Logger) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewSarifError(apperrors.SarifFileNotFound, path, nil)
		}
		return nil, apperrors.NewSarifError(apperrors.SarifParseError, "failed to read file", err)
	}
	return ParseReport(data, logger)
}

// ParseReport parses SARIF content.
func ParseReport(data []byte, logger hclog.Logger) (*Report, error) {
	var report sarif.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, apperrors.NewSarifError(apperrors.SarifParseError, "failed to parse JSON", err)
	}
	if len(report.Runs) == 0 {
		return nil, apperrors.NewSarifError(apperrors.SarifInvalidStructure, "no runs found in SARIF report", nil)
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Report{Report: &report, logger: logger}, nil
}

// ExtractToolNameAndVersion reads the driver of the first run.
func (r Report) ExtractToolNameAndVersion() *ToolMetadata {
	driver := r.Runs[0].Tool.Driver
	if driver == nil {
		return &ToolMetadata{}
	}
	return &ToolMetadata{Name: driver.Name, Version: driver.Version}
}

// Findings normalizes every result. Results without a location or without
// partial fingerprints are dropped and counted in skipped.
func (r Report) Findings() (out []findings.Finding, skipped int) {
	out = []findings.Finding{}
	for _, run := range r.Runs {
		for _, result := range run.Results {
			ruleID := stringValue(result.RuleID)

			f, reason := toFinding(result)
			if reason != "" {
				r.logger.Warn("skipping SARIF result", "rule_id", ruleID, "reason", reason)
				skipped++
				continue
			}
			out = append(out, f)
		}
	}

	r.logger.Info("extracted findings from SARIF report", "findings", len(out), "skipped", skipped)
	return out, skipped
}

// ParseAndExtract reads the file and returns its findings together with the
// driver that produced them.
func ParseAndExtract(path string, logger hclog.Logger) ([]findings.Finding, *ToolMetadata, error) {
	report, err := ReadReport(path, logger)
	if err != nil {
		return nil, nil, err
	}
	out, _ := report.Findings()
	return out, report.ExtractToolNameAndVersion(), nil
}

func toFinding(result *sarif.Result) (findings.Finding, string) {
	if len(result.Locations) == 0 {
		return findings.Finding{}, "no locations"
	}
	loc := result.Locations[0].PhysicalLocation
	if loc == nil || loc.ArtifactLocation == nil || loc.ArtifactLocation.URI == nil {
		return findings.Finding{}, "location has no artifact URI"
	}
	if loc.Region == nil || loc.Region.StartLine == nil {
		return findings.Finding{}, "location has no start line"
	}
	if result.PartialFingerprints == nil {
		return findings.Finding{}, "missing fingerprints"
	}

	fp := result.PartialFingerprints
	return findings.New(
		stringValue(result.RuleID),
		*loc.ArtifactLocation.URI,
		*loc.Region.StartLine,
		fingerprintField(fp, fingerprintCommit),
		fingerprintField(fp, fingerprintAuthor),
		fingerprintField(fp, fingerprintEmail),
		fingerprintField(fp, fingerprintDate),
	), ""
}

func fingerprintField(fp map[string]interface{}, key string) string {
	if v, ok := fp[key].(string); ok {
		return v
	}
	return findings.Unknown
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
