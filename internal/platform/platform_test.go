package platform

import (
	"errors"
	"testing"

	apperrors "github.com/secretscout-io/secretscout/pkg/shared/errors"
)

func TestFromGo(t *testing.T) {
	testCases := []struct {
		name     string
		goos     string
		goarch   string
		want     Identity
		wantKind apperrors.BinaryKind
	}{
		{name: "linux amd64", goos: "linux", goarch: "amd64", want: Identity{OS: Linux, Arch: X64}},
		{name: "darwin arm64", goos: "darwin", goarch: "arm64", want: Identity{OS: Darwin, Arch: Arm64}},
		{name: "windows amd64", goos: "windows", goarch: "amd64", want: Identity{OS: Windows, Arch: X64}},
		{name: "linux arm", goos: "linux", goarch: "arm", want: Identity{OS: Linux, Arch: Arm}},
		{name: "freebsd", goos: "freebsd", goarch: "amd64", wantKind: apperrors.UnsupportedPlatform},
		{name: "riscv", goos: "linux", goarch: "riscv64", wantKind: apperrors.UnsupportedArchitecture},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FromGo(tc.goos, tc.goarch)
			if tc.wantKind != "" {
				var binErr *apperrors.BinaryError
				if !errors.As(err, &binErr) {
					t.Fatalf("FromGo(%q, %q) error = %v, want BinaryError", tc.goos, tc.goarch, err)
				}
				if binErr.Kind != tc.wantKind {
					t.Fatalf("FromGo(%q, %q) kind = %q, want %q", tc.goos, tc.goarch, binErr.Kind, tc.wantKind)
				}
				if apperrors.SeverityOf(err) != apperrors.Fatal {
					t.Fatalf("unsupported host must be fatal")
				}
				return
			}
			if err != nil {
				t.Fatalf("FromGo(%q, %q) unexpected error: %v", tc.goos, tc.goarch, err)
			}
			if got != tc.want {
				t.Fatalf("FromGo(%q, %q) = %v, want %v", tc.goos, tc.goarch, got, tc.want)
			}
		})
	}
}

func TestIdentityNaming(t *testing.T) {
	linux := Identity{OS: Linux, Arch: X64}
	windows := Identity{OS: Windows, Arch: X64}

	if got := linux.ArchiveExt(); got != ".tar.gz" {
		t.Fatalf("ArchiveExt() = %q, want %q", got, ".tar.gz")
	}
	if got := windows.ArchiveExt(); got != ".zip" {
		t.Fatalf("ArchiveExt() = %q, want %q", got, ".zip")
	}
	if got := linux.BinaryName(); got != "gitleaks" {
		t.Fatalf("BinaryName() = %q, want %q", got, "gitleaks")
	}
	if got := windows.BinaryName(); got != "gitleaks.exe" {
		t.Fatalf("BinaryName() = %q, want %q", got, "gitleaks.exe")
	}
	if got := linux.String(); got != "linux/x64" {
		t.Fatalf("String() = %q, want %q", got, "linux/x64")
	}
}
