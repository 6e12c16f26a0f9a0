package protect

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateProtectArgs(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("valid", func(t *testing.T) {
		if err := validateProtectArgs(&RunOptionsProtect{Source: dir, Staged: true}, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("positional arguments", func(t *testing.T) {
		err := validateProtectArgs(&RunOptionsProtect{Source: dir}, []string{"a", "b"})
		if err == nil || err.Error() != "unexpected positional arguments: a b" {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("source is a file", func(t *testing.T) {
		err := validateProtectArgs(&RunOptionsProtect{Source: file}, nil)
		want := "the source path is not a directory: " + file
		if err == nil || err.Error() != want {
			t.Fatalf("validateProtectArgs() error = %v, want %q", err, want)
		}
	})

	t.Run("missing rule config", func(t *testing.T) {
		err := validateProtectArgs(&RunOptionsProtect{Source: dir, RuleConfigPath: filepath.Join(dir, "rules.toml")}, nil)
		if err == nil {
			t.Fatal("expected error for missing gitleaks config")
		}
	})
}
