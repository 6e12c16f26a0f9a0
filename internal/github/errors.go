package github

import (
	"errors"
	"net/http"
	"strings"

	gh "github.com/google/go-github/v47/github"

	apperrors "github.com/secretscout-io/secretscout/pkg/shared/errors"
)

// classifyError maps a go-github failure onto the GitHub error kinds.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return apperrors.NewGitHubError(apperrors.RateLimitExceeded, statusOf(rateErr.Response), rateErr.Message, err)
	}
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return apperrors.NewGitHubError(apperrors.RateLimitExceeded, statusOf(abuseErr.Response), abuseErr.Message, err)
	}

	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) {
		status := statusOf(respErr.Response)
		switch status {
		case http.StatusUnauthorized, http.StatusForbidden:
			return apperrors.NewGitHubError(apperrors.AuthenticationFailed, status, respErr.Message, err)
		case http.StatusNotFound:
			return apperrors.NewGitHubError(apperrors.NotFound, status, respErr.Message, err)
		default:
			return apperrors.NewGitHubError(apperrors.RequestFailed, status, respErr.Message, err)
		}
	}

	return apperrors.NewGitHubError(apperrors.RequestFailed, 0, "", err)
}

// classifyCommentError additionally reports unprocessable comment targets as
// DiffTooLarge: the line is no longer part of the pull request diff.
func classifyCommentError(err error) error {
	if err == nil {
		return nil
	}
	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) && statusOf(respErr.Response) == http.StatusUnprocessableEntity {
		return apperrors.NewGitHubError(apperrors.DiffTooLarge, http.StatusUnprocessableEntity, respErr.Message, err)
	}
	if strings.Contains(err.Error(), "Unprocessable") {
		return apperrors.NewGitHubError(apperrors.DiffTooLarge, 0, "", err)
	}
	return classifyError(err)
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}
