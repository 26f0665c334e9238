package composer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/promptkit/internal/color"
	"github.com/alexisbeaulieu97/promptkit/internal/events"
	"github.com/alexisbeaulieu97/promptkit/internal/gitstatus"
	"github.com/alexisbeaulieu97/promptkit/internal/logger"
	"github.com/alexisbeaulieu97/promptkit/internal/ports"
	"github.com/alexisbeaulieu97/promptkit/internal/promptctx"
	"github.com/alexisbeaulieu97/promptkit/internal/segment"
	"github.com/alexisbeaulieu97/promptkit/internal/segment/builtin"
	"github.com/alexisbeaulieu97/promptkit/internal/symbols"
	"github.com/alexisbeaulieu97/promptkit/internal/theme"
	apperrors "github.com/alexisbeaulieu97/promptkit/pkg/errors"
)

type fakeEnv struct {
	cwd   string
	paths map[string]bool
}

func (f *fakeEnv) Getwd() (string, error) { return f.cwd, nil }
func (f *fakeEnv) User() (promptctx.Account, error) {
	return promptctx.Account{Name: "ada", UID: "1000", Home: "/home/ada"}, nil
}
func (f *fakeEnv) Hostname() (string, error) { return "box.example.com", nil }
func (f *fakeEnv) Getenv(string) string      { return "" }
func (f *fakeEnv) Writable(string) bool      { return true }
func (f *fakeEnv) Exists(path string) bool   { return f.paths[path] }

type fakeProber struct{ terminal promptctx.Terminal }

func (f fakeProber) Probe() promptctx.Terminal { return f.terminal }

type fixture struct {
	composer *Composer
	themes   *theme.Registry
	segments *segment.Registry
	git      *gitstatus.Static
	env      *fakeEnv
}

func testTheme() *theme.Theme {
	return &theme.Theme{
		Name:         "test",
		Version:      "1.0.0",
		Capabilities: theme.CapRightPrompt | theme.CapGitAware,
		Colors: theme.ColorScheme{
			User:      color.Basic(2),
			GitBranch: color.RGB(255, 0, 0),
		},
		Syntax:  theme.SyntaxScheme{Path: color.Basic(4)},
		Symbols: symbols.ASCII(),
		Layout: theme.Layout{
			Left:         "${user:${user}} ${directory}${?git: ${git}}${?status: [${status}]} ${symbol} ",
			Right:        "${time}",
			Continuation: "> ",
			RightPrompt:  true,
		},
	}
}

func newFixture(t *testing.T, terminal promptctx.Terminal, opts Options) *fixture {
	t.Helper()

	themes := theme.NewRegistry(nil, logger.Nop())
	require.NoError(t, theme.RegisterBuiltins(themes))
	require.NoError(t, themes.Register(testTheme()))
	require.NoError(t, themes.SetActive("test"))

	git := &gitstatus.Static{Result: gitstatus.Status{Branch: "main", Staged: 1}}
	segments := segment.NewRegistry(logger.Nop())
	require.NoError(t, builtin.Register(segments, builtin.Options{Git: git, GitTimeout: time.Second}))

	env := &fakeEnv{cwd: "/home/ada/src", paths: map[string]bool{"/home/ada/src/.git": true}}
	clock := func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	pc, err := promptctx.New(promptctx.Options{Env: env, Prober: fakeProber{terminal}, Clock: clock})
	require.NoError(t, err)

	c, err := New(themes, segments, pc, opts)
	require.NoError(t, err)
	return &fixture{composer: c, themes: themes, segments: segments, git: git, env: env}
}

func TestNewRejectsMissingCollaborators(t *testing.T) {
	t.Parallel()

	_, err := New(nil, nil, nil, Options{})
	require.ErrorIs(t, err, apperrors.InvalidParameter)
}

func TestRender(t *testing.T) {
	t.Parallel()

	f := newFixture(t, promptctx.Terminal{Has256: true}, Options{})
	out, err := f.composer.Render(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "test", out.Theme)
	assert.Equal(t, "\x1b[32mada"+color.Reset+" ~/src main +1 $ ", out.PS1.Text)
	assert.Equal(t, len(out.PS1.Text), out.PS1.Bytes)
	assert.Equal(t, len("ada ~/src main +1 $ "), out.PS1.Width)
	assert.False(t, out.PS1.Multiline)
	assert.False(t, out.PS1.Truncated)
	assert.Equal(t, "> ", out.PS2.Text)
	assert.Equal(t, "03:04:05", out.RPrompt.Text)
	assert.False(t, f.composer.NeedsRegeneration())
}

func TestRenderWithoutActiveTheme(t *testing.T) {
	t.Parallel()

	f := newFixture(t, promptctx.Terminal{}, Options{})
	themes := theme.NewRegistry(nil, logger.Nop())
	c, err := New(themes, f.segments, f.composer.Context(), Options{})
	require.NoError(t, err)

	_, err = c.Render(context.Background())
	require.ErrorIs(t, err, apperrors.InvalidState)
}

func TestRenderRejectsMalformedTemplate(t *testing.T) {
	t.Parallel()

	f := newFixture(t, promptctx.Terminal{}, Options{})
	broken := testTheme()
	broken.Name = "broken"
	broken.Layout.Left = "${user"
	require.NoError(t, f.themes.Register(broken))
	require.NoError(t, f.themes.SetActive("broken"))

	_, err := f.composer.Render(context.Background())
	require.ErrorIs(t, err, apperrors.Parse)
}

func TestThemeSwitchChangesPrompt(t *testing.T) {
	t.Parallel()

	f := newFixture(t, promptctx.Terminal{}, Options{})
	first, err := f.composer.Render(context.Background())
	require.NoError(t, err)

	require.NoError(t, f.themes.SetActive("minimal"))
	second, err := f.composer.Render(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "minimal", second.Theme)
	assert.Equal(t, "~/src $ ", second.PS1.Text)
	assert.NotEqual(t, first.PS1.Text, second.PS1.Text)
	assert.Empty(t, second.RPrompt.Text, "minimal has no right prompt")
}

func TestTemplateCache(t *testing.T) {
	t.Parallel()

	f := newFixture(t, promptctx.Terminal{}, Options{})
	for i := 0; i < 3; i++ {
		_, err := f.composer.Render(context.Background())
		require.NoError(t, err)
	}

	stats := f.composer.Stats()
	assert.Equal(t, 3, stats.Renders)
	assert.Equal(t, 3, stats.CacheMisses, "one parse per layout slot")
	assert.Equal(t, 6, stats.CacheHits)

	f.composer.Invalidate()
	assert.True(t, f.composer.NeedsRegeneration())
	_, err := f.composer.Render(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, f.composer.Stats().CacheMisses)
}

func TestMultilinePrompt(t *testing.T) {
	t.Parallel()

	f := newFixture(t, promptctx.Terminal{Unicode: true}, Options{NoColor: true})
	require.NoError(t, f.themes.SetActive("twoline"))

	out, err := f.composer.Render(context.Background())
	require.NoError(t, err)
	assert.True(t, out.PS1.Multiline)
	lines := strings.Split(out.PS1.Text, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "$ ", lines[1])
	assert.Equal(t, 2, out.PS1.Width)
}

func TestSegmentFilter(t *testing.T) {
	t.Parallel()

	f := newFixture(t, promptctx.Terminal{}, Options{NoColor: true})
	filtered := testTheme()
	filtered.Name = "filtered"
	filtered.Segments = []string{"directory", "symbol"}
	require.NoError(t, f.themes.Register(filtered))
	require.NoError(t, f.themes.SetActive("filtered"))

	out, err := f.composer.Render(context.Background())
	require.NoError(t, err)
	assert.Equal(t, " ~/src $ ", out.PS1.Text)
	assert.Zero(t, f.git.Calls(), "disabled segments are never rendered")
}

func TestColorDowngrade(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		terminal promptctx.Terminal
		noColor  bool
		want     string
	}{
		{name: "truecolor", terminal: promptctx.Terminal{TrueColor: true}, want: "\x1b[38;2;255;0;0m"},
		{name: "256 colors", terminal: promptctx.Terminal{Has256: true}, want: "\x1b[38;5;196m"},
		{name: "basic", terminal: promptctx.Terminal{}, want: "\x1b[31m"},
		{name: "disabled", terminal: promptctx.Terminal{TrueColor: true}, noColor: true, want: ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, tc.terminal, Options{NoColor: tc.noColor})
			p := f.composer.provider(context.Background(), f.themes.Active())
			assert.Equal(t, tc.want, p.Color("git_branch"))
		})
	}
}

func TestColorFallsBackToSyntax(t *testing.T) {
	t.Parallel()

	f := newFixture(t, promptctx.Terminal{}, Options{})
	p := f.composer.provider(context.Background(), f.themes.Active())
	assert.Equal(t, "\x1b[34m", p.Color("path"))
	assert.Equal(t, "", p.Color("warning"), "unset slot")
	assert.Equal(t, "", p.Color("nope"))
}

func TestASCIIGlyphsWithoutUnicode(t *testing.T) {
	t.Parallel()

	f := newFixture(t, promptctx.Terminal{}, Options{})
	p := f.composer.provider(context.Background(), theme.Powerline())
	assert.Equal(t, "git:", p.Segment("symbol", "branch"))

	f = newFixture(t, promptctx.Terminal{Unicode: true}, Options{})
	p = f.composer.provider(context.Background(), theme.Powerline())
	assert.Equal(t, "", p.Segment("symbol", "branch"))
}

func TestEventsRefreshContext(t *testing.T) {
	t.Parallel()

	f := newFixture(t, promptctx.Terminal{}, Options{})
	hub := events.NewHub(nil)
	require.NoError(t, f.composer.Attach(hub))
	ctx := context.Background()

	_, err := f.composer.Render(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, f.git.Calls())

	require.NoError(t, hub.Publish(ctx, ports.Event{Type: ports.EventPreCommand, Data: ports.PreCommand{Command: "false"}}))
	require.NoError(t, hub.Publish(ctx, ports.Event{Type: ports.EventPostCommand, Data: ports.PostCommand{Command: "false", ExitCode: 1, Duration: time.Second}}))
	assert.True(t, f.composer.NeedsRegeneration())

	out, err := f.composer.Render(ctx)
	require.NoError(t, err)
	assert.Contains(t, out.PS1.Text, " [1] ")
	assert.Equal(t, 2, f.git.Calls(), "git status is probed again after a command")
	assert.Equal(t, 1, f.composer.Context().CommandCount)

	require.NoError(t, hub.Publish(ctx, ports.Event{Type: ports.EventDirectoryChanged, Data: ports.DirectoryChanged{From: "/home/ada/src", To: "/tmp"}}))
	out, err = f.composer.Render(ctx)
	require.NoError(t, err)
	assert.Contains(t, out.PS1.Text, " /tmp [1] $ ")
	assert.NotContains(t, out.PS1.Text, "main")
	assert.Equal(t, 3, f.composer.Stats().EventRefreshes)

	f.composer.Detach()
	assert.Zero(t, hub.Subscribers(ports.EventPostCommand))
	require.NoError(t, hub.Publish(ctx, ports.Event{Type: ports.EventPostCommand, Data: ports.PostCommand{}}))
	assert.Equal(t, 3, f.composer.Stats().EventRefreshes)
}

func TestEventHandlerRejectsBadPayload(t *testing.T) {
	t.Parallel()

	f := newFixture(t, promptctx.Terminal{}, Options{})
	hub := events.NewHub(nil)
	require.NoError(t, f.composer.Attach(hub))

	err := hub.Publish(context.Background(), ports.Event{Type: ports.EventPostCommand, Data: "exit 1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.InvalidParameter))
	require.ErrorIs(t, f.composer.Attach(nil), apperrors.InvalidParameter)
}

func TestRenderTruncatesToCapacity(t *testing.T) {
	t.Parallel()

	f := newFixture(t, promptctx.Terminal{}, Options{Capacity: 8, NoColor: true})
	out, err := f.composer.Render(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, out.PS1.Bytes, 8)
	assert.True(t, out.PS1.Truncated)
}

func TestFallback(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "$ ", Fallback(false).PS1.Text)
	assert.Equal(t, "# ", Fallback(true).PS1.Text)
	assert.Equal(t, "> ", Fallback(true).PS2.Text)
}

func TestRenderThemeLeavesActiveThemeAlone(t *testing.T) {
	t.Parallel()

	f := newFixture(t, promptctx.Terminal{}, Options{NoColor: true})
	minimal, err := f.themes.Find("minimal")
	require.NoError(t, err)

	out, err := f.composer.RenderTheme(context.Background(), minimal)
	require.NoError(t, err)
	assert.Equal(t, "~/src $ ", out.PS1.Text)
	assert.Equal(t, "test", f.themes.Active().Name)

	_, err = f.composer.RenderTheme(context.Background(), nil)
	require.ErrorIs(t, err, apperrors.InvalidParameter)
}
