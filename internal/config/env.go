package config

import (
	"os"
	"strconv"
	"strings"

	apperrors "github.com/alexisbeaulieu97/promptkit/pkg/errors"
)

// EnvPrefix starts every environment override.
const EnvPrefix = "PROMPTKIT_"

// ApplyEnv overrides cfg from PROMPTKIT_* variables. NO_COLOR, when set to
// anything, forces color off unless PROMPTKIT_COLOR says otherwise.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if getenv("NO_COLOR") != "" {
		cfg.Color = "never"
	}

	strs := []struct {
		key    string
		target *string
	}{
		{"THEME", &cfg.Theme},
		{"COLOR", &cfg.Color},
		{"LOG_LEVEL", &cfg.Log.Level},
		{"LOG_FORMAT", &cfg.Log.Format},
		{"GIT_PROVIDER", &cfg.Git.Provider},
	}
	for _, s := range strs {
		if v := strings.TrimSpace(getenv(EnvPrefix + s.key)); v != "" {
			*s.target = strings.ToLower(v)
		}
	}
	if v := strings.TrimSpace(getenv(EnvPrefix + "GIT_BINARY")); v != "" {
		cfg.Git.Binary = v
	}

	ints := []struct {
		key    string
		target *int
	}{
		{"GIT_TIMEOUT_MS", &cfg.Git.TimeoutMS},
		{"CAPACITY", &cfg.Capacity},
		{"DIRECTORY_MAX_WIDTH", &cfg.Segments.DirectoryMaxWidth},
	}
	for _, s := range ints {
		v := strings.TrimSpace(getenv(EnvPrefix + s.key))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return apperrors.New(apperrors.CodeInvalidParameter, "environment override is not an integer", err, map[string]interface{}{
				"variable": EnvPrefix + s.key,
				"value":    v,
			})
		}
		*s.target = n
	}

	if v := getenv(EnvPrefix + "THEME_PATH"); v != "" {
		var paths []string
		for _, p := range strings.Split(v, string(os.PathListSeparator)) {
			if p = strings.TrimSpace(p); p != "" {
				paths = append(paths, p)
			}
		}
		cfg.ThemePaths = paths
	}
	return nil
}
