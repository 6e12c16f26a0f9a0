package engine

import (
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/viper"
	"github.com/zricethezav/gitleaks/v8/config"

	apperrors "github.com/secretscout-io/secretscout/pkg/shared/errors"
	"github.com/secretscout-io/secretscout/pkg/shared/files"
)

// ValidateRuleConfig loads a gitleaks TOML rule file the same way gitleaks does
// and returns the number of rules it defines. A malformed file is reported
// before the engine is started.
func ValidateRuleConfig(logger hclog.Logger, path string) (int, error) {
	if err := files.ValidatePath(path); err != nil {
		return 0, apperrors.NewConfigError(apperrors.InvalidRuleConfig, path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return 0, apperrors.NewConfigError(apperrors.InvalidRuleConfig, path, err)
	}

	var vc config.ViperConfig
	if err := v.Unmarshal(&vc); err != nil {
		return 0, apperrors.NewConfigError(apperrors.InvalidRuleConfig, path, err)
	}

	cfg, err := vc.Translate()
	if err != nil {
		return 0, apperrors.NewConfigError(apperrors.InvalidRuleConfig, path, err)
	}

	logger.Info("gitleaks rule configuration validated", "path", path, "rules", len(cfg.Rules))
	return len(cfg.Rules), nil
}
