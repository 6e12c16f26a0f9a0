// Package platform maps the host operating system and CPU onto the names used
// by gitleaks release archives.
package platform

import (
	"runtime"

	apperrors "github.com/secretscout-io/secretscout/pkg/shared/errors"
)

// OS is an operating system with published gitleaks releases.
type OS string

const (
	Linux   OS = "linux"
	Darwin  OS = "darwin"
	Windows OS = "windows"
)

// Arch is a CPU architecture with published gitleaks releases.
type Arch string

const (
	X64   Arch = "x64"
	Arm64 Arch = "arm64"
	Arm   Arch = "arm"
)

// Identity is the detected host platform.
type Identity struct {
	OS   OS
	Arch Arch
}

// ArchiveExt is ".zip" on Windows and ".tar.gz" elsewhere.
func (id Identity) ArchiveExt() string {
	if id.OS == Windows {
		return ".zip"
	}
	return ".tar.gz"
}

// BinaryName is the executable name inside a release archive.
func (id Identity) BinaryName() string {
	if id.OS == Windows {
		return "gitleaks.exe"
	}
	return "gitleaks"
}

func (id Identity) String() string {
	return string(id.OS) + "/" + string(id.Arch)
}

// Detect identifies the running host.
func Detect() (Identity, error) {
	return FromGo(runtime.GOOS, runtime.GOARCH)
}

// FromGo maps Go's GOOS/GOARCH values onto an Identity.
func FromGo(goos, goarch string) (Identity, error) {
	var id Identity

	switch goos {
	case "linux":
		id.OS = Linux
	case "darwin":
		id.OS = Darwin
	case "windows":
		id.OS = Windows
	default:
		return Identity{}, apperrors.NewBinaryError(apperrors.UnsupportedPlatform, goos, nil)
	}

	switch goarch {
	case "amd64":
		id.Arch = X64
	case "arm64":
		id.Arch = Arm64
	case "arm":
		id.Arch = Arm
	default:
		return Identity{}, apperrors.NewBinaryError(apperrors.UnsupportedArchitecture, goarch, nil)
	}

	return id, nil
}
