package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/secretscout-io/secretscout/pkg/shared/errors"
)

var dangerousRefChars = []string{";", "&", "|", "$", "`", "\n", "\r", "<", ">"}

// ValidateGitRef rejects references that could smuggle shell syntax or path
// traversal into the engine's log options. Empty references are allowed.
func ValidateGitRef(ref string) error {
	if ref == "" {
		return nil
	}
	for _, ch := range dangerousRefChars {
		if strings.Contains(ref, ch) {
			return apperrors.NewConfigError(apperrors.InvalidGitRef, fmt.Sprintf("contains dangerous character %q", ch), nil)
		}
	}
	if strings.Contains(ref, "..") {
		return apperrors.NewConfigError(apperrors.InvalidGitRef, "contains path traversal", nil)
	}
	return nil
}

// ValidateRepository checks the owner/name form of a repository slug.
func ValidateRepository(fullName string) error {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" {
		return apperrors.NewConfigError(apperrors.InvalidRepository, fullName, nil)
	}
	return nil
}

// ResolveWorkspace returns the canonical absolute form of an existing workspace directory.
func ResolveWorkspace(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", apperrors.NewConfigError(apperrors.ConfigFileMissing, path, err)
	}
	if !info.IsDir() {
		return "", apperrors.NewConfigError(apperrors.InvalidPath, path+" is not a directory", nil)
	}
	return canonical(path)
}

// ResolveInWorkspace validates a path that must live inside the workspace.
// Relative paths are taken relative to the workspace. Paths that do not exist
// yet are checked lexically.
func ResolveInWorkspace(path, workspace string) (string, error) {
	if hasParentSegment(path) {
		return "", apperrors.NewConfigError(apperrors.PathTraversal, path, nil)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(workspace, path)
	}

	resolved := filepath.Clean(path)
	if _, err := os.Stat(path); err == nil {
		if resolved, err = canonical(path); err != nil {
			return "", err
		}
	}

	if !within(resolved, workspace) {
		return "", apperrors.NewConfigError(apperrors.OutsideWorkspace, path, nil)
	}
	return resolved, nil
}

// ResolveEventPath validates the event payload location. The runner keeps the
// payload in its temp directory, so it is not required to be inside the workspace.
func ResolveEventPath(path string) (string, error) {
	if hasParentSegment(path) {
		return "", apperrors.NewConfigError(apperrors.PathTraversal, path, nil)
	}
	if _, err := os.Stat(path); err != nil {
		return "", apperrors.NewConfigError(apperrors.ConfigFileMissing, path, err)
	}
	return canonical(path)
}

// hasParentSegment reports whether any element of path is "..". Both '/' and
// '\' count as separators.
func hasParentSegment(path string) bool {
	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return true
		}
	}
	return false
}

func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", apperrors.NewConfigError(apperrors.InvalidPath, "failed to canonicalize "+path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", apperrors.NewConfigError(apperrors.InvalidPath, "failed to canonicalize "+path, err)
	}
	return resolved, nil
}

func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
