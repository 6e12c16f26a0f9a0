// Package binary obtains the gitleaks executable: it resolves the requested
// version, reuses a cached copy when present and otherwise downloads and
// unpacks the release archive for the host platform.
package binary

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/secretscout-io/secretscout/internal/platform"
	apperrors "github.com/secretscout-io/secretscout/pkg/shared/errors"
	"github.com/secretscout-io/secretscout/pkg/shared/files"
)

// Cache is the on-disk store of extracted gitleaks releases, one directory per key.
type Cache struct {
	logger hclog.Logger
	root   string
}

// Key names the cache entry for a version and platform.
func Key(version string, id platform.Identity) string {
	return fmt.Sprintf("gitleaks-%s-%s-%s", version, id.OS, id.Arch)
}

// DefaultRoot is <user cache dir>/secretscout/gitleaks.
func DefaultRoot() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", apperrors.NewBinaryError(apperrors.CacheError, "cannot determine cache directory", err)
	}
	return filepath.Join(base, "secretscout", "gitleaks"), nil
}

// NewCache opens the cache rooted at root, or at DefaultRoot when root is empty,
// creating the directory when needed.
func NewCache(logger hclog.Logger, root string) (*Cache, error) {
	if root == "" {
		var err error
		if root, err = DefaultRoot(); err != nil {
			return nil, err
		}
	}
	expanded, err := files.ExpandPath(root)
	if err != nil {
		return nil, apperrors.NewBinaryError(apperrors.CacheError, "failed to expand cache dir", err)
	}
	if err := files.CreateFolderIfNotExists(expanded); err != nil {
		return nil, apperrors.NewBinaryError(apperrors.CacheError, "failed to create cache dir", err)
	}
	return &Cache{logger: logger, root: expanded}, nil
}

// OpenCache opens the configured cache and falls back to a fresh temporary
// directory when it is unusable, so a broken cache only costs a download.
func OpenCache(logger hclog.Logger, root string) (*Cache, error) {
	cache, err := NewCache(logger, root)
	if err == nil {
		return cache, nil
	}
	logger.Warn("binary cache unavailable, using a temporary directory", "error", err)

	tmp, tmpErr := os.MkdirTemp("", "secretscout-gitleaks-")
	if tmpErr != nil {
		return nil, apperrors.NewBinaryError(apperrors.CacheError, "failed to create temporary cache dir", tmpErr)
	}
	return &Cache{logger: logger, root: tmp}, nil
}

// Root returns the cache directory.
func (c *Cache) Root() string {
	return c.root
}

// Dir returns the extraction directory for a version and platform.
func (c *Cache) Dir(version string, id platform.Identity) string {
	return filepath.Join(c.root, Key(version, id))
}

// Lookup returns the cached binary path if the file exists.
func (c *Cache) Lookup(version string, id platform.Identity) (string, bool) {
	path := filepath.Join(c.Dir(version, id), id.BinaryName())
	if !files.FileExists(path) {
		return "", false
	}
	c.logger.Info("found cached gitleaks binary", "path", path)
	return path, true
}
