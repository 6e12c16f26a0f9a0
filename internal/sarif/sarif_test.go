package sarif

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/secretscout-io/secretscout/pkg/shared/errors"
)

const twoFindings = `{
  "$schema": "https://json.schemastore.org/sarif-2.1.0.json",
  "version": "2.1.0",
  "runs": [{
    "tool": {"driver": {"name": "gitleaks", "version": "8.24.3"}},
    "results": [
      {
        "ruleId": "aws-access-token",
        "message": {"text": "AWS token"},
        "locations": [{"physicalLocation": {"artifactLocation": {"uri": "src/main.rs"}, "region": {"startLine": 42}}}],
        "partialFingerprints": {"commitSha": "abc123", "author": "Dev", "email": "dev@example.com", "date": "2024-01-01T00:00:00Z"}
      },
      {
        "ruleId": "generic-api-key",
        "message": {"text": "API key"},
        "locations": [{"physicalLocation": {"artifactLocation": {"uri": "config.yml"}, "region": {"startLine": 3}}}],
        "partialFingerprints": {"commitSha": "def4567890"}
      }
    ]
  }]
}`

func sarifKind(t *testing.T, err error) apperrors.SarifKind {
	t.Helper()
	var sErr *apperrors.SarifError
	require.True(t, errors.As(err, &sErr), "expected SarifError, got %v", err)
	return sErr.Kind
}

func TestFindings(t *testing.T) {
	report, err := ParseReport([]byte(twoFindings), hclog.NewNullLogger())
	require.NoError(t, err)

	got, skipped := report.Findings()
	require.Len(t, got, 2)
	assert.Zero(t, skipped)

	assert.Equal(t, "aws-access-token", got[0].RuleID)
	assert.Equal(t, "src/main.rs", got[0].FilePath)
	assert.Equal(t, 42, got[0].LineNumber)
	assert.Equal(t, "Dev", got[0].Author)
	assert.Equal(t, "abc123:src/main.rs:aws-access-token:42", got[0].Fingerprint)

	assert.Equal(t, "def4567890", got[1].CommitSHA)
	assert.Equal(t, "unknown", got[1].Author)
	assert.Equal(t, "unknown", got[1].Email)
	assert.Equal(t, "unknown", got[1].Date)

	meta := report.ExtractToolNameAndVersion()
	assert.Equal(t, "gitleaks", meta.Name)
	require.NotNil(t, meta.Version)
	assert.Equal(t, "8.24.3", *meta.Version)
}

func TestFindingsSkipsIncompleteResults(t *testing.T) {
	doc := `{"version": "2.1.0", "runs": [{"tool": {"driver": {"name": "gitleaks"}}, "results": [
		{"ruleId": "no-location", "message": {"text": "x"}, "locations": [], "partialFingerprints": {"commitSha": "a"}},
		{"ruleId": "no-fingerprints", "message": {"text": "x"},
		 "locations": [{"physicalLocation": {"artifactLocation": {"uri": "a.txt"}, "region": {"startLine": 1}}}]},
		{"ruleId": "kept", "message": {"text": "x"},
		 "locations": [{"physicalLocation": {"artifactLocation": {"uri": "b.txt"}, "region": {"startLine": 9}}}],
		 "partialFingerprints": {"commitSha": "b"}}
	]}]}`

	report, err := ParseReport([]byte(doc), hclog.NewNullLogger())
	require.NoError(t, err)

	got, skipped := report.Findings()
	require.Len(t, got, 1)
	assert.Equal(t, "kept", got[0].RuleID)
	assert.Equal(t, 2, skipped)
}

func TestParseReportEmptyRunIsValid(t *testing.T) {
	report, err := ParseReport([]byte(`{"version": "2.1.0", "runs": [{"tool": {"driver": {"name": "gitleaks"}}, "results": []}]}`), nil)
	require.NoError(t, err)

	got, skipped := report.Findings()
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, skipped)
}

func TestParseReportErrors(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
		want apperrors.SarifKind
	}{
		{name: "no runs", doc: `{"version": "2.1.0", "runs": []}`, want: apperrors.SarifInvalidStructure},
		{name: "malformed", doc: `{"version": `, want: apperrors.SarifParseError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseReport([]byte(tc.doc), hclog.NewNullLogger())
			assert.Equal(t, tc.want, sarifKind(t, err))
		})
	}
}

func TestReadReport(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadReport(filepath.Join(dir, "missing.sarif"), hclog.NewNullLogger())
	assert.Equal(t, apperrors.SarifFileNotFound, sarifKind(t, err))

	path := filepath.Join(dir, "results.sarif")
	require.NoError(t, os.WriteFile(path, []byte(twoFindings), 0o644))

	got, tool, err := ParseAndExtract(path, hclog.NewNullLogger())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "gitleaks", tool.Name)
}
