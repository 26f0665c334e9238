package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentsList(t *testing.T) {
	t.Parallel()

	stdout, _, err := newHarness(t, "").run(t, "segments", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "NAME")
	assert.Contains(t, stdout, "branch,staged,unstaged")
	assert.Contains(t, stdout, "symbol")

	stdout, _, err = newHarness(t, "").run(t, "segments", "list", "--json")
	require.NoError(t, err)
	var summaries []segmentSummary
	require.NoError(t, json.Unmarshal([]byte(stdout), &summaries))
	require.Len(t, summaries, 8)
	assert.Equal(t, "directory", summaries[0].Name)
	assert.Contains(t, summaries[1].Capabilities, "expensive")
}

func TestValidateFiles(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "")
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("name: Bad Name\nversion: \"1.0.0\"\n"), 0o600))
	good := filepath.Join(h.themeDir, "ocean.yaml")

	stdout, _, err := h.run(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, stdout, "ok   "+good+" (ocean)")
	assert.Contains(t, stdout, `unknown segment "weather"`)

	stdout, _, err = h.run(t, "validate", good, bad)
	require.Error(t, err)
	assert.Contains(t, stdout, "FAIL "+bad)
	assert.Contains(t, err.Error(), "1 of 2 files rejected")
}

func TestValidateSearchPath(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "")
	stdout, _, err := h.run(t, "validate")
	require.NoError(t, err)
	assert.Equal(t, "8 themes registered\n", stdout)

	require.NoError(t, os.WriteFile(filepath.Join(h.themeDir, "loop.yaml"), []byte("name: loop\nversion: \"1.0.0\"\ninherits: loop\n"), 0o600))
	_, _, err = h.run(t, "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading the theme search path")
}

func TestVersionCommandOutputsBuildInfo(t *testing.T) {
	originalVersion := version
	originalCommit := commit
	originalDate := date
	t.Cleanup(func() {
		version = originalVersion
		commit = originalCommit
		date = originalDate
	})

	version = "1.2.3"
	commit = "abcdef1"
	date = "2025-10-03"

	root := newRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())

	output := buf.String()
	require.Contains(t, output, "promptkit 1.2.3")
	require.Contains(t, output, "abcdef1")
	require.Contains(t, output, "2025-10-03")
}
