package theme

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/promptkit/internal/color"
	"github.com/alexisbeaulieu97/promptkit/internal/logging"
	apperrors "github.com/alexisbeaulieu97/promptkit/pkg/errors"
)

const oceanTheme = `name: ocean
description: "Blue tones"
version: "1.2.0"
category: dark
inherits: default
capabilities: [256color, unicode]
layout:
  left: "${directory:${directory}} ${symbol} "
  right: "${time}"
segments: [directory, symbol, time]
colors:
  directory: "bold #0077be"
  primary: "33"
symbols:
  prompt: ">"
syntax:
  command: green
`

func writeTheme(t *testing.T, dir, name, contents string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cases := []struct {
		name     string
		contents string
		wantErr  error
		assert   func(t *testing.T, th *Theme)
	}{
		{
			name:     "valid",
			contents: oceanTheme,
			assert: func(t *testing.T, th *Theme) {
				assert.Equal(t, "ocean", th.Name)
				assert.Equal(t, "default", th.InheritsFrom)
				assert.Equal(t, CategoryDark, th.Category)
				assert.True(t, th.Capabilities.Has(CapColors256|CapUnicode))
				assert.Equal(t, color.RGB(0, 0x77, 0xbe).With(color.AttrBold), th.Colors.Directory)
				assert.Equal(t, color.Palette(33), th.Colors.Primary)
				assert.Equal(t, color.Basic(2), th.Syntax.Command)
				assert.Equal(t, ">", th.Symbols.Prompt)
				assert.Equal(t, []string{"directory", "symbol", "time"}, th.Segments)
				assert.Equal(t, "${time}", th.Layout.Right)
			},
		},
		{name: "empty", contents: "", wantErr: apperrors.Parse},
		{name: "malformed yaml", contents: "name: [unclosed\n", wantErr: apperrors.Parse},
		{name: "unknown field", contents: "name: x\nflavor: salty\n", wantErr: apperrors.Parse},
		{name: "missing name", contents: "description: nameless\n", wantErr: apperrors.InvalidParameter},
		{name: "bad name", contents: "name: \"Has Spaces\"\n", wantErr: apperrors.InvalidParameter},
		{name: "bad version", contents: "name: x\nversion: beta\n", wantErr: apperrors.InvalidParameter},
		{name: "unknown color slot", contents: "name: x\ncolors:\n  sky: red\n", wantErr: apperrors.InvalidParameter},
		{name: "bad color", contents: "name: x\ncolors:\n  primary: chartreuse\n", wantErr: apperrors.InvalidParameter},
		{name: "unknown capability", contents: "name: x\ncapabilities: [telepathy]\n", wantErr: apperrors.InvalidParameter},
		{name: "unbalanced template", contents: "name: x\nlayout:\n  left: \"${user\"\n", wantErr: apperrors.InvalidParameter},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path := writeTheme(t, filepath.Join(dir, strings.ReplaceAll(tc.name, " ", "_")), "theme.yaml", tc.contents)
			th, err := LoadFile(path)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			tc.assert(t, th)
		})
	}
}

func TestLoadFileReportsLine(t *testing.T) {
	t.Parallel()

	path := writeTheme(t, t.TempDir(), "bad.yaml", "name: x\nlayout:\n  left: [\n")
	_, err := LoadFile(path)

	var parseErr *apperrors.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, path, parseErr.Path)
	assert.Positive(t, parseErr.Line)
}

func TestLoadFileSizeCap(t *testing.T) {
	t.Parallel()

	big := "name: big\ndescription: x\n# " + strings.Repeat("x", MaxFileSize) + "\n"
	path := writeTheme(t, t.TempDir(), "big.yaml", big)

	_, err := LoadFile(path)
	require.ErrorIs(t, err, apperrors.CapacityExceeded)

	_, err = LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorIs(t, err, apperrors.IO)
}

func TestLoaderUserTierShadowsSystem(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	user := filepath.Join(root, "user")
	system := filepath.Join(root, "system")
	writeTheme(t, user, "ocean.yaml", "name: ocean\ndescription: mine\n")
	writeTheme(t, system, "ocean.yml", "name: ocean\ndescription: shipped\n")
	writeTheme(t, system, "forest.yaml", "name: forest\n")
	writeTheme(t, system, "notes.txt", "not a theme")

	loader := NewLoader([]string{user, system, filepath.Join(root, "missing")}, logging.NewNoOpLogger())
	themes, err := loader.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, themes, 2)

	byName := map[string]*Theme{}
	for _, th := range themes {
		byName[th.Name] = th
	}
	assert.Equal(t, "mine", byName["ocean"].Description)
	assert.Contains(t, byName, "forest")
}

func TestLoaderLoadAllOrdersParentsFirst(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTheme(t, dir, "a_child.yaml", "name: a-child\ninherits: b-parent\n")
	writeTheme(t, dir, "b_parent.yaml", "name: b-parent\ninherits: default\nlayout:\n  left: \"parent> \"\n")
	writeTheme(t, dir, "ocean.yaml", oceanTheme)

	reg := newTestRegistry(t, 0)
	require.NoError(t, RegisterBuiltins(reg))

	loader := NewLoader([]string{dir}, nil)
	require.NoError(t, loader.LoadAll(context.Background(), reg))

	child, err := reg.Find("a-child")
	require.NoError(t, err)
	assert.Equal(t, "parent> ", child.Layout.Left)

	names := reg.List(0)
	assert.Less(t, indexOf(names, "b-parent"), indexOf(names, "a-child"))
	_, err = reg.Find("ocean")
	require.NoError(t, err)
}

func TestLoaderLoadAllReportsCycle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTheme(t, dir, "a.yaml", "name: a\ninherits: b\n")
	writeTheme(t, dir, "b.yaml", "name: b\ninherits: a\n")
	writeTheme(t, dir, "c.yaml", "name: c\n")
	writeTheme(t, dir, "broken.yaml", "name: [\n")

	reg := newTestRegistry(t, 0)
	err := NewLoader([]string{dir}, nil).LoadAll(context.Background(), reg)
	require.Error(t, err)
	require.ErrorIs(t, err, apperrors.InvalidState)
	require.ErrorIs(t, err, apperrors.Parse)
	assert.Contains(t, err.Error(), "a -> b -> a")

	assert.Equal(t, []string{"c"}, reg.List(0))
}

func TestDetectCycle(t *testing.T) {
	t.Parallel()

	acyclic := map[string]*Theme{
		"a": {Name: "a", InheritsFrom: "b"},
		"b": {Name: "b", InheritsFrom: "outside"},
	}
	assert.Nil(t, detectCycle(acyclic))

	cyclic := map[string]*Theme{
		"x": {Name: "x", InheritsFrom: "y"},
		"y": {Name: "y", InheritsFrom: "z"},
		"z": {Name: "z", InheritsFrom: "x"},
	}
	assert.Equal(t, []string{"x", "y", "z", "x"}, detectCycle(cyclic))
}

func TestExportRoundTrip(t *testing.T) {
	t.Parallel()

	for _, original := range Builtins() {
		original := original
		t.Run(original.Name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			require.NoError(t, Export(&buf, original))

			loaded, err := Decode("export.yaml", buf.Bytes())
			require.NoError(t, err, buf.String())

			assert.Equal(t, original.Name, loaded.Name)
			assert.Equal(t, original.InheritsFrom, loaded.InheritsFrom)
			assert.Equal(t, original.Layout, loaded.Layout)
			assert.Equal(t, original.Colors, loaded.Colors)
			assert.Equal(t, original.Syntax, loaded.Syntax)
			assert.Equal(t, original.Symbols, loaded.Symbols)
			assert.Equal(t, original.Capabilities&^CapBuiltin, loaded.Capabilities)
		})
	}
}

func TestExportQuotesTemplates(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, &Theme{Name: "q", Layout: Layout{Left: "a \"b\"\\n${symbol} "}}))
	assert.Contains(t, buf.String(), `left: "a \"b\"\\n${symbol} "`)

	path, err := ExportFile(filepath.Join(t.TempDir(), "out"), TwoLine())
	require.NoError(t, err)
	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, TwoLine().Layout.Left, loaded.Layout.Left)
}

func TestValidName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"default", "two-line", "dark_2", "9lives", strings.Repeat("a", 64)} {
		assert.True(t, ValidName(name), name)
	}
	for _, name := range []string{"", "Dark", "-lead", "has space", "dots.not.ok", strings.Repeat("a", 65)} {
		assert.False(t, ValidName(name), name)
	}
}
