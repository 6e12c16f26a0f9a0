package config

import (
	"crypto/tls"
	"time"
)

const (
	// DefaultGitleaksVersion is scanned with when GITLEAKS_VERSION is unset.
	DefaultGitleaksVersion = "8.24.3"
	// DefaultGitHubAPIURL is the public REST endpoint.
	DefaultGitHubAPIURL = "https://api.github.com/"
	// DefaultServerURL prefixes repository web URLs built from GITHUB_REPOSITORY.
	DefaultServerURL        = "https://github.com"
	DefaultLatestReleaseURL = "https://api.github.com/repos/zricethezav/gitleaks/releases/latest"
	DefaultDownloadBaseURL  = "https://github.com/zricethezav/gitleaks/releases/download"
	// DefaultRetryBaseDelay is the first backoff interval for GitHub API calls.
	DefaultRetryBaseDelay = 1 * time.Second
	// DefaultRequestsPerSecond paces GitHub API calls well below the secondary rate limit.
	DefaultRequestsPerSecond = 10.0
)

// BaseHTTPConfig holds common HTTP client configuration settings.
type BaseHTTPConfig struct {
	RetryCount       int
	RetryWaitTime    time.Duration
	RetryMaxWaitTime time.Duration
	Timeout          time.Duration
	TLSClientConfig  *tls.Config
	Proxy            string
}

// RestyHttpClientConfig holds additional configuration settings for the resty http client.
type RestyHttpClientConfig struct {
	BaseHTTPConfig
	Debug bool
}

// General base configuration applicable to all HTTP clients.
// Release archives are tens of megabytes, hence the generous timeout.
func DefaultHttpConfig() BaseHTTPConfig {
	return BaseHTTPConfig{
		RetryCount:       2,
		RetryWaitTime:    1 * time.Second,
		RetryMaxWaitTime: 4 * time.Second,
		Timeout:          90 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12, // Enforce a minimum TLS version
		},
		Proxy: "",
	}
}

// DefaultRestyConfig function returns a specific http config to Resty
func DefaultRestyConfig() RestyHttpClientConfig {
	baseConfig := DefaultHttpConfig()
	return RestyHttpClientConfig{
		BaseHTTPConfig: baseConfig,
		Debug:          false,
	}
}

// GitHubAPIURL returns the configured REST endpoint or the public one.
func GitHubAPIURL(cfg *Config) string {
	if cfg == nil {
		return DefaultGitHubAPIURL
	}
	return SetThen(cfg.GitHub.APIURL, DefaultGitHubAPIURL)
}

// RetryBaseDelay returns the first backoff interval for GitHub API calls.
func RetryBaseDelay(cfg *Config) time.Duration {
	if cfg == nil {
		return DefaultRetryBaseDelay
	}
	return SetThen(cfg.GitHub.RetryBaseDelay, DefaultRetryBaseDelay)
}

// RequestsPerSecond returns the GitHub API pacing limit.
func RequestsPerSecond(cfg *Config) float64 {
	if cfg == nil {
		return DefaultRequestsPerSecond
	}
	return SetThen(cfg.GitHub.RequestsPerSecond, DefaultRequestsPerSecond)
}

// LatestReleaseURL returns the endpoint answering "which version is latest".
func LatestReleaseURL(cfg *Config) string {
	if cfg == nil {
		return DefaultLatestReleaseURL
	}
	return SetThen(cfg.Engine.LatestReleaseURL, DefaultLatestReleaseURL)
}

// DownloadBaseURL returns the prefix release archives are downloaded from.
func DownloadBaseURL(cfg *Config) string {
	if cfg == nil {
		return DefaultDownloadBaseURL
	}
	return SetThen(cfg.Engine.DownloadBaseURL, DefaultDownloadBaseURL)
}

// CacheDir returns the configured cache root override, empty when unset.
func CacheDir(cfg *Config) string {
	if cfg == nil {
		return ""
	}
	return cfg.Cache.Dir
}
