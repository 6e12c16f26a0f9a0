package binary

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"

	"github.com/secretscout-io/secretscout/internal/platform"
	apperrors "github.com/secretscout-io/secretscout/pkg/shared/errors"
	"github.com/secretscout-io/secretscout/pkg/shared/files"
)

// Fetcher yields a runnable gitleaks binary for the host.
type Fetcher struct {
	logger       hclog.Logger
	client       *resty.Client
	cache        *Cache
	resolver     *VersionResolver
	downloadBase string
	detect       func() (platform.Identity, error)
}

// NewFetcher wires a fetcher downloading release archives from downloadBase.
func NewFetcher(logger hclog.Logger, client *resty.Client, cache *Cache, resolver *VersionResolver, downloadBase string) *Fetcher {
	return &Fetcher{
		logger:       logger,
		client:       client,
		cache:        cache,
		resolver:     resolver,
		downloadBase: strings.TrimRight(downloadBase, "/"),
		detect:       platform.Detect,
	}
}

// DownloadURL follows the gitleaks release naming:
// {base}/v{version}/gitleaks_{version}_{os}_{arch}{.zip|.tar.gz}.
func DownloadURL(base, version string, id platform.Identity) string {
	filename := fmt.Sprintf("gitleaks_%s_%s_%s%s", version, id.OS, id.Arch, id.ArchiveExt())
	return fmt.Sprintf("%s/v%s/%s", strings.TrimRight(base, "/"), version, filename)
}

// Obtain resolves the requested version and returns a path to its binary,
// downloading it into the cache on a miss.
func (f *Fetcher) Obtain(ctx context.Context, requested string) (string, error) {
	id, err := f.detect()
	if err != nil {
		return "", err
	}

	version, err := f.resolver.Resolve(ctx, requested)
	if err != nil {
		return "", err
	}

	if path, ok := f.cache.Lookup(version, id); ok {
		return path, nil
	}

	return f.download(ctx, version, id)
}

func (f *Fetcher) download(ctx context.Context, version string, id platform.Identity) (string, error) {
	url := DownloadURL(f.downloadBase, version, id)
	f.logger.Info("downloading gitleaks", "version", version, "platform", id.String())
	f.logger.Debug("download URL", "url", url)

	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", apperrors.NewBinaryError(apperrors.DownloadFailed, "HTTP request failed", err)
	}
	if !resp.IsSuccess() {
		return "", apperrors.NewBinaryError(apperrors.DownloadFailed, fmt.Sprintf("HTTP status %d", resp.StatusCode()), nil)
	}

	dir := f.cache.Dir(version, id)
	if err := files.RemoveAndRecreate(dir); err != nil {
		return "", apperrors.NewBinaryError(apperrors.ExtractionFailed, "failed to prepare extract dir", err)
	}

	if id.OS == platform.Windows {
		err = extractZip(resp.Body(), dir)
	} else {
		err = extractTarGz(resp.Body(), dir)
	}
	if err != nil {
		return "", err
	}

	binaryPath := filepath.Join(dir, id.BinaryName())
	if !files.FileExists(binaryPath) {
		return "", apperrors.NewBinaryError(apperrors.BinaryNotFound, "", nil)
	}

	if id.OS != platform.Windows {
		if err := os.Chmod(binaryPath, 0o755); err != nil {
			return "", apperrors.NewBinaryError(apperrors.ChmodFailed, binaryPath, err)
		}
	}

	f.logger.Info("extracted gitleaks binary", "path", binaryPath)
	return binaryPath, nil
}
