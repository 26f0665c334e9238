package config

import (
	"path/filepath"

	apperrors "github.com/alexisbeaulieu97/promptkit/pkg/errors"
)

// ValidateConfig performs structural and cross-field validation on a configuration.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return apperrors.New(apperrors.CodeInvalidParameter, "configuration is nil", nil, nil)
	}

	if err := validatorInstance().Struct(cfg); err != nil {
		return convertValidationError(err)
	}

	for i, path := range cfg.ThemePaths {
		if !filepath.IsAbs(path) {
			return apperrors.New(apperrors.CodeInvalidParameter, "theme path must be absolute", nil, map[string]interface{}{
				"field": "theme_paths",
				"index": i,
				"path":  path,
			})
		}
	}

	if cfg.Git.Provider == "command" && cfg.Git.Binary == "" {
		return apperrors.New(apperrors.CodeInvalidParameter, "git.binary is required for the command provider", nil, map[string]interface{}{"field": "git.binary"})
	}

	return nil
}
