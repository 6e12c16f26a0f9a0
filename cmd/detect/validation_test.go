package detect

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateDetectArgs(t *testing.T) {
	dir := t.TempDir()
	rules := filepath.Join(dir, "gitleaks.toml")
	if err := os.WriteFile(rules, []byte("title = 'x'\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name    string
		opts    RunOptionsDetect
		args    []string
		wantErr string
	}{
		{name: "defaults", opts: RunOptionsDetect{Source: dir, ExitCode: 1}},
		{name: "all options", opts: RunOptionsDetect{Source: dir, ReportFormat: "sarif", RuleConfigPath: rules, LogOpts: "--no-merges a^..b", ExitCode: 3}},
		{name: "missing source", opts: RunOptionsDetect{Source: filepath.Join(dir, "nope")}, wantErr: "the source path does not exist: " + filepath.Join(dir, "nope")},
		{name: "bad format", opts: RunOptionsDetect{Source: dir, ReportFormat: "xml"}, wantErr: `unsupported 'report-format' "xml", expected one of: json, csv, junit, sarif`},
		{name: "missing rules", opts: RunOptionsDetect{Source: dir, RuleConfigPath: filepath.Join(dir, "x.toml")}, wantErr: "the gitleaks config does not exist: " + filepath.Join(dir, "x.toml")},
		{name: "injected log opts", opts: RunOptionsDetect{Source: dir, LogOpts: "-1; rm -rf /"}, wantErr: "'log-opts' contains forbidden characters"},
		{name: "exit code range", opts: RunOptionsDetect{Source: dir, ExitCode: 256}, wantErr: "the 'exit-code' flag must be between 0 and 255"},
		{name: "too many args", opts: RunOptionsDetect{Source: "."}, args: []string{dir, "extra"}, wantErr: "unexpected positional arguments: extra"},
		{name: "flag and path", opts: RunOptionsDetect{Source: dir}, args: []string{dir}, wantErr: "you cannot use a 'source' flag and a target path at the same time"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts := tc.opts
			err := validateDetectArgs(&opts, tc.args)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tc.wantErr {
				t.Fatalf("validateDetectArgs() error = %v, want %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidateDetectArgsPositionalSource(t *testing.T) {
	dir := t.TempDir()
	opts := RunOptionsDetect{Source: "."}
	if err := validateDetectArgs(&opts, []string{dir}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Source != dir {
		t.Fatalf("Source = %q, want %q", opts.Source, dir)
	}
}

func TestResolveReportPath(t *testing.T) {
	dir := t.TempDir()

	testCases := []struct {
		name   string
		path   string
		format string
		want   string
	}{
		{name: "existing directory", path: dir, format: "sarif", want: filepath.Join(dir, "gitleaks-report.sarif")},
		{name: "new directory", path: filepath.Join(dir, "reports"), want: filepath.Join(dir, "reports", "gitleaks-report.json")},
		{name: "file", path: filepath.Join(dir, "out", "leaks.csv"), format: "csv", want: filepath.Join(dir, "out", "leaks.csv")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolveReportPath(tc.path, tc.format)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("resolveReportPath() = %q, want %q", got, tc.want)
			}
			if _, err := os.Stat(filepath.Dir(got)); err != nil {
				t.Fatalf("report folder not created: %v", err)
			}
		})
	}
}
