package binary

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"

	apperrors "github.com/secretscout-io/secretscout/pkg/shared/errors"
)

// LatestVersion is the sentinel that triggers a release lookup.
const LatestVersion = "latest"

// VersionResolver turns "latest" into a concrete release version.
type VersionResolver struct {
	logger hclog.Logger
	client *resty.Client
	url    string
}

// NewVersionResolver creates a resolver querying the release metadata endpoint at url.
func NewVersionResolver(logger hclog.Logger, client *resty.Client, url string) *VersionResolver {
	return &VersionResolver{logger: logger, client: client, url: url}
}

type release struct {
	TagName string `json:"tag_name"`
}

// Resolve returns requested unchanged unless it is "latest", in which case the
// latest release tag is fetched and its leading "v" stripped.
func (r *VersionResolver) Resolve(ctx context.Context, requested string) (string, error) {
	if requested != LatestVersion {
		return requested, nil
	}
	r.logger.Info("resolving latest gitleaks version", "url", r.url)

	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/vnd.github+json").
		Get(r.url)
	if err != nil {
		return "", apperrors.NewBinaryError(apperrors.VersionResolution, "failed to fetch", err)
	}
	if !resp.IsSuccess() {
		return "", apperrors.NewBinaryError(apperrors.VersionResolution, fmt.Sprintf("API returned status %d", resp.StatusCode()), nil)
	}

	var rel release
	if err := json.Unmarshal(resp.Body(), &rel); err != nil {
		return "", apperrors.NewBinaryError(apperrors.VersionResolution, "failed to parse JSON", err)
	}
	if rel.TagName == "" {
		return "", apperrors.NewBinaryError(apperrors.VersionResolution, "no tag_name in response", nil)
	}

	version := strings.TrimPrefix(rel.TagName, "v")
	r.logger.Info("resolved latest gitleaks version", "version", version)
	return version, nil
}
