package files

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetermineFileFullPath(t *testing.T) {
	type testCase struct {
		name         string
		inputPath    string
		nameTemplate string
		expectFile   string
		expectFolder string
		setup        func(t *testing.T) (inputPath, expectFile, expectFolder string)
	}

	tmpDir := t.TempDir()

	tests := []testCase{
		{
			name:         "Directory path with name template",
			inputPath:    tmpDir,
			nameTemplate: "output.json",
			expectFile:   filepath.Join(tmpDir, "output.json"),
			expectFolder: tmpDir,
		},
		{
			name:         "File path with extension",
			inputPath:    filepath.Join(tmpDir, "data.json"),
			nameTemplate: "ignored.txt",
			expectFile:   filepath.Join(tmpDir, "data.json"),
			expectFolder: tmpDir,
			setup: func(t *testing.T) (string, string, string) {
				f := filepath.Join(tmpDir, "data.json")
				_ = os.WriteFile(f, []byte("test"), 0644)
				return f, f, tmpDir
			},
		},
		{
			name:         "Path with no extension, treat as folder",
			inputPath:    filepath.Join(tmpDir, "output_folder"),
			nameTemplate: "report.log",
			expectFile:   filepath.Join(tmpDir, "output_folder", "report.log"),
			expectFolder: filepath.Join(tmpDir, "output_folder"),
		},
		{
			name:         "Non-existent file with extension",
			inputPath:    filepath.Join(tmpDir, "nonexistent.yaml"),
			nameTemplate: "ignored.txt",
			expectFile:   filepath.Join(tmpDir, "nonexistent.yaml"),
			expectFolder: tmpDir,
		},
		{
			name:         "Non-existent folder",
			inputPath:    filepath.Join(tmpDir, "missing_folder"),
			nameTemplate: "result.json",
			expectFile:   filepath.Join(tmpDir, "missing_folder", "result.json"),
			expectFolder: filepath.Join(tmpDir, "missing_folder"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actualPath := tt.inputPath
			expectFile := tt.expectFile
			expectFolder := tt.expectFolder

			if tt.setup != nil {
				actualPath, expectFile, expectFolder = tt.setup(t)
			}

			filePath, folderPath, err := DetermineFileFullPath(actualPath, tt.nameTemplate)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if filePath != expectFile {
				t.Errorf("Expected file path %s, got %s", expectFile, filePath)
			}
			if folderPath != expectFolder {
				t.Errorf("Expected folder path %s, got %s", expectFolder, folderPath)
			}
		})
	}
}

func TestEnsureWithinRoot(t *testing.T) {
	root := t.TempDir()

	testCases := []struct {
		name    string
		target  string
		want    string
		wantErr bool
	}{
		{name: "plain entry", target: "gitleaks", want: filepath.Join(root, "gitleaks")},
		{name: "nested entry", target: "bin/gitleaks", want: filepath.Join(root, "bin", "gitleaks")},
		{name: "dot segments inside root", target: "bin/../gitleaks", want: filepath.Join(root, "gitleaks")},
		{name: "escape", target: "../gitleaks", wantErr: true},
		{name: "deep escape", target: "bin/../../../etc/passwd", wantErr: true},
		{name: "absolute outside", target: "/etc/passwd", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EnsureWithinRoot(root, tc.target)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("EnsureWithinRoot(%q) expected error, got %q", tc.target, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("EnsureWithinRoot(%q) unexpected error: %v", tc.target, err)
			}
			if got != tc.want {
				t.Fatalf("EnsureWithinRoot(%q) = %q, want %q", tc.target, got, tc.want)
			}
		})
	}
}

func TestAppendToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.md")

	if err := AppendToFile(path, []byte("first\n")); err != nil {
		t.Fatalf("AppendToFile() error = %v", err)
	}
	if err := AppendToFile(path, []byte("second\n")); err != nil {
		t.Fatalf("AppendToFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "first\nsecond\n" {
		t.Fatalf("file content = %q, want %q", string(data), "first\nsecond\n")
	}
}

func TestRemoveAndRecreate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "stale"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := RemoveAndRecreate(dir); err != nil {
		t.Fatalf("RemoveAndRecreate() error = %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty directory, found %d entries", len(entries))
	}
	if FileExists(dir) {
		t.Fatalf("FileExists(%q) = true for a directory", dir)
	}
}
