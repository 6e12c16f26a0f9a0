package config

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"

	apperrors "github.com/secretscout-io/secretscout/pkg/shared/errors"
)

// ConfigPathEnv points at an optional YAML configuration file.
const ConfigPathEnv = "SECRETSCOUT_CONFIG"

type Config struct {
	Logger     Logger     `yaml:"logger"`
	HTTPClient HTTPClient `yaml:"http_client"`
	GitHub     GitHub     `yaml:"github"`
	Engine     Engine     `yaml:"engine"`
	Cache      Cache      `yaml:"cache"`
}

type Logger struct {
	Level           string `yaml:"level"`
	JSONFormat      bool   `yaml:"json_format"`
	IncludeLocation bool   `yaml:"include_location"`
}

type HTTPClient struct {
	Debug            bool            `yaml:"debug"`
	RetryCount       int             `yaml:"retry_count"`
	RetryWaitTime    time.Duration   `yaml:"retry_wait_time"`
	RetryMaxWaitTime time.Duration   `yaml:"retry_max_wait_time"`
	Timeout          time.Duration   `yaml:"timeout"`
	TLSClientConfig  TLSClientConfig `yaml:"tls_client_config"`
	Proxy            Proxy           `yaml:"proxy"`
}

type TLSClientConfig struct {
	Verify *bool `yaml:"verify"`
}

type Proxy struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// GitHub tunes the REST API client used for review comments and commit listing.
type GitHub struct {
	APIURL            string        `yaml:"api_url"`
	RetryBaseDelay    time.Duration `yaml:"retry_base_delay"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
}

// Engine controls where scanner releases are resolved and downloaded from.
type Engine struct {
	LatestReleaseURL string `yaml:"latest_release_url"`
	DownloadBaseURL  string `yaml:"download_base_url"`
}

type Cache struct {
	Dir string `yaml:"dir"`
}

func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return err
	}

	return nil
}

// LoadConfig reads the YAML configuration at configPath. An empty path falls back
// to SECRETSCOUT_CONFIG and then to an empty configuration, since every setting has a default.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = os.Getenv(ConfigPathEnv)
	}
	cfg := &Config{}
	if configPath == "" {
		return cfg, nil
	}

	if err := LoadYAML(configPath, cfg); err != nil {
		return nil, apperrors.NewConfigError(apperrors.InvalidConfigFile, configPath, err)
	}
	return cfg, nil
}
