package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/promptkit/internal/promptctx"
	"github.com/alexisbeaulieu97/promptkit/internal/tui/picker"
)

const oceanTheme = `name: ocean
description: "Blue tones"
version: "1.2.0"
category: dark
inherits: default
layout:
  left: "${directory:${directory}} ${weather} ${symbol} "
segments: [directory, symbol]
colors:
  directory: "bold #0077be"
symbols:
  prompt: ">"
`

type fakeSystem struct {
	uid string
}

func (f fakeSystem) Getwd() (string, error) { return "/home/ada/src", nil }
func (f fakeSystem) User() (promptctx.Account, error) {
	uid := f.uid
	if uid == "" {
		uid = "1000"
	}
	return promptctx.Account{Name: "ada", UID: uid, Home: "/home/ada"}, nil
}
func (f fakeSystem) Hostname() (string, error) { return "box.example.com", nil }
func (f fakeSystem) Getenv(string) string      { return "" }
func (f fakeSystem) Writable(string) bool      { return true }
func (f fakeSystem) Exists(string) bool        { return false }

type fakeProber struct{}

func (fakeProber) Probe() promptctx.Terminal { return promptctx.Terminal{Width: 80, Height: 24} }

type harness struct {
	env        *environment
	configPath string
	themeDir   string
	vars       map[string]string
}

func newHarness(t *testing.T, configExtra string) *harness {
	t.Helper()

	dir := t.TempDir()
	themeDir := filepath.Join(dir, "themes")
	require.NoError(t, os.MkdirAll(themeDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(themeDir, "ocean.yaml"), []byte(oceanTheme), 0o600))

	configPath := filepath.Join(dir, "config.yaml")
	contents := "theme_paths: [" + themeDir + "]\ncolor: never\ngit: {provider: command, binary: /nonexistent/git}\n" + configExtra
	require.NoError(t, os.WriteFile(configPath, []byte(contents), 0o600))

	h := &harness{configPath: configPath, themeDir: themeDir, vars: map[string]string{}}
	h.env = &environment{
		getenv: func(key string) string { return h.vars[key] },
		system: fakeSystem{},
		prober: fakeProber{},
		runPicker: func(m picker.Model) (picker.Model, error) {
			return m, nil
		},
	}
	return h
}

func (h *harness) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	root := newRootCmdWith(h.env)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(append([]string{"--config", h.configPath}, args...))

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}
