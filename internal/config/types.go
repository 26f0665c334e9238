// Package config loads the promptkit application settings.
package config

import "time"

// Config is the promptkit configuration document.
type Config struct {
	// Theme names the theme activated at startup.
	Theme string `yaml:"theme,omitempty" validate:"omitempty,theme_name"`
	// ThemePaths replaces the default theme search path when set. Earlier
	// directories shadow later ones.
	ThemePaths []string `yaml:"theme_paths,omitempty" validate:"omitempty,dive,required"`
	// Color is auto, always or never.
	Color    string          `yaml:"color,omitempty" validate:"omitempty,oneof=auto always never"`
	Capacity int             `yaml:"capacity,omitempty" validate:"omitempty,min=256,max=65536"`
	Log      LogSettings     `yaml:"log,omitempty"`
	Git      GitSettings     `yaml:"git,omitempty"`
	Segments SegmentSettings `yaml:"segments,omitempty"`
}

// LogSettings controls diagnostic output, which always goes to stderr.
type LogSettings struct {
	Level  string `yaml:"level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format,omitempty" validate:"omitempty,oneof=text json logfmt"`
}

// GitSettings selects how repository status is computed.
type GitSettings struct {
	Provider  string `yaml:"provider,omitempty" validate:"omitempty,oneof=gogit command"`
	Binary    string `yaml:"binary,omitempty"`
	TimeoutMS int    `yaml:"timeout_ms,omitempty" validate:"omitempty,min=10,max=10000"`
}

// SegmentSettings tunes the stock segments.
type SegmentSettings struct {
	DirectoryMaxWidth int `yaml:"directory_max_width,omitempty" validate:"omitempty,min=4,max=1024"`
}

// Default returns the settings used when no file or variable says otherwise.
func Default() *Config {
	return &Config{
		Theme:    "default",
		Color:    "auto",
		Capacity: 4096,
		Log:      LogSettings{Level: "warn", Format: "text"},
		Git:      GitSettings{Provider: "gogit", Binary: "git", TimeoutMS: 250},
	}
}

// GitTimeout returns the git probe deadline.
func (c *Config) GitTimeout() time.Duration {
	return time.Duration(c.Git.TimeoutMS) * time.Millisecond
}

// ColorEnabled resolves the color mode against whether output is a terminal.
func (c *Config) ColorEnabled(tty bool) bool {
	switch c.Color {
	case "always":
		return true
	case "never":
		return false
	default:
		return tty
	}
}
