package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/viper"

	apperrors "github.com/secretscout-io/secretscout/pkg/shared/errors"
)

// Environment variables consumed in GitHub Actions mode.
const (
	EnvWorkspace            = "GITHUB_WORKSPACE"
	EnvEventPath            = "GITHUB_EVENT_PATH"
	EnvEventName            = "GITHUB_EVENT_NAME"
	EnvRepository           = "GITHUB_REPOSITORY"
	EnvRepositoryOwner      = "GITHUB_REPOSITORY_OWNER"
	EnvServerURL            = "GITHUB_SERVER_URL"
	EnvStepSummary          = "GITHUB_STEP_SUMMARY"
	EnvToken                = "GITHUB_TOKEN"
	EnvLicense              = "GITLEAKS_LICENSE"
	EnvVersion              = "GITLEAKS_VERSION"
	EnvRuleConfig           = "GITLEAKS_CONFIG"
	EnvEnableSummary        = "GITLEAKS_ENABLE_SUMMARY"
	EnvEnableUploadArtifact = "GITLEAKS_ENABLE_UPLOAD_ARTIFACT"
	EnvEnableComments       = "GITLEAKS_ENABLE_COMMENTS"
	EnvNotifyUserList       = "GITLEAKS_NOTIFY_USER_LIST"
	EnvBaseRef              = "BASE_REF"
)

// DefaultRuleConfigName is picked up from the workspace root when GITLEAKS_CONFIG is unset.
const DefaultRuleConfigName = "gitleaks.toml"

// ReportFileName is the SARIF report written by the engine inside the workspace.
const ReportFileName = "results.sarif"

// ActionSettings is the validated GitHub Actions environment. It is built once
// and passed by pointer; nothing else reads the environment.
type ActionSettings struct {
	Workspace       string `env:"GITHUB_WORKSPACE" validate:"required"`
	EventPath       string `env:"GITHUB_EVENT_PATH" validate:"required"`
	EventName       string `env:"GITHUB_EVENT_NAME" validate:"required"`
	Repository      string `env:"GITHUB_REPOSITORY" validate:"required"`
	RepositoryOwner string `env:"GITHUB_REPOSITORY_OWNER" validate:"required"`
	Token           string `env:"GITHUB_TOKEN" validate:"required_if=EventName pull_request"`
	Version         string `env:"GITLEAKS_VERSION" validate:"required"`

	ServerURL       string
	StepSummaryPath string
	License         string
	RuleConfigPath  string
	BaseRef         string
	NotifyUserList  []string

	EnableSummary        bool
	EnableUploadArtifact bool
	EnableComments       bool
}

// ReportPath is where the engine writes its SARIF output.
func (s *ActionSettings) ReportPath() string {
	return filepath.Join(s.Workspace, ReportFileName)
}

// RepoParts splits the repository slug into owner and name.
func (s *ActionSettings) RepoParts() (string, string) {
	owner, name, ok := strings.Cut(s.Repository, "/")
	if !ok {
		return s.RepositoryOwner, ""
	}
	return owner, name
}

// RepositoryFallback derives "owner/name" from the checked out workspace when
// GITHUB_REPOSITORY is not provided.
type RepositoryFallback func(workspace string) (string, error)

// SettingsOption customises LoadActionSettings.
type SettingsOption func(*settingsLoader)

type settingsLoader struct {
	fallback RepositoryFallback
}

// WithRepositoryFallback installs a repository fallback.
func WithRepositoryFallback(fn RepositoryFallback) SettingsOption {
	return func(l *settingsLoader) { l.fallback = fn }
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("env"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// LoadActionSettings reads and validates the GitHub Actions environment.
func LoadActionSettings(logger hclog.Logger, opts ...SettingsOption) (*ActionSettings, error) {
	loader := &settingsLoader{}
	for _, opt := range opts {
		opt(loader)
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault(EnvVersion, DefaultGitleaksVersion)
	v.SetDefault(EnvServerURL, DefaultServerURL)

	s := &ActionSettings{
		Workspace:            v.GetString(EnvWorkspace),
		EventPath:            v.GetString(EnvEventPath),
		EventName:            v.GetString(EnvEventName),
		Repository:           v.GetString(EnvRepository),
		RepositoryOwner:      v.GetString(EnvRepositoryOwner),
		Token:                v.GetString(EnvToken),
		Version:              v.GetString(EnvVersion),
		ServerURL:            strings.TrimRight(v.GetString(EnvServerURL), "/"),
		StepSummaryPath:      v.GetString(EnvStepSummary),
		License:              v.GetString(EnvLicense),
		BaseRef:              v.GetString(EnvBaseRef),
		NotifyUserList:       ParseUserList(v.GetString(EnvNotifyUserList)),
		EnableSummary:        ParseToggle(v.GetString(EnvEnableSummary), v.IsSet(EnvEnableSummary), true),
		EnableUploadArtifact: ParseToggle(v.GetString(EnvEnableUploadArtifact), v.IsSet(EnvEnableUploadArtifact), true),
		EnableComments:       ParseToggle(v.GetString(EnvEnableComments), v.IsSet(EnvEnableComments), true),
	}

	if s.Repository == "" && s.Workspace != "" && loader.fallback != nil {
		if fullName, err := loader.fallback(s.Workspace); err == nil && fullName != "" {
			s.Repository = fullName
			if s.RepositoryOwner == "" {
				s.RepositoryOwner, _, _ = strings.Cut(fullName, "/")
			}
			if logger != nil {
				logger.Debug("repository hydrated from workspace remote", "repository", fullName)
			}
		} else if err != nil && logger != nil {
			logger.Debug("unable to derive repository from workspace", "error", err)
		}
	}

	if err := validateRequired(s); err != nil {
		return nil, err
	}
	if err := ValidateRepository(s.Repository); err != nil {
		return nil, err
	}

	workspace, err := ResolveWorkspace(s.Workspace)
	if err != nil {
		return nil, err
	}
	s.Workspace = workspace

	if s.EventPath, err = ResolveEventPath(s.EventPath); err != nil {
		return nil, err
	}

	if explicit := v.GetString(EnvRuleConfig); v.IsSet(EnvRuleConfig) && explicit != "" {
		if s.RuleConfigPath, err = ResolveInWorkspace(explicit, s.Workspace); err != nil {
			return nil, err
		}
	} else if candidate := filepath.Join(s.Workspace, DefaultRuleConfigName); fileExists(candidate) {
		s.RuleConfigPath = candidate
	}

	if err := ValidateGitRef(s.BaseRef); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Debug("action settings loaded",
			"workspace", s.Workspace,
			"event", s.EventName,
			"repository", s.Repository,
			"gitleaks_version", s.Version,
			"rule_config", s.RuleConfigPath,
			"summary", s.EnableSummary,
			"artifacts", s.EnableUploadArtifact,
			"comments", s.EnableComments,
			"notify_users", len(s.NotifyUserList),
		)
	}
	return s, nil
}

func validateRequired(s *ActionSettings) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.NewConfigError(apperrors.InvalidEnvVar, "", err)
	}

	fe := verrs[0]
	if fe.Tag() == "required_if" {
		return apperrors.NewConfigError(apperrors.MissingEnvVar, fmt.Sprintf("%s is required for pull_request events", fe.Field()), nil)
	}
	return apperrors.NewConfigError(apperrors.MissingEnvVar, fe.Field(), nil)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
