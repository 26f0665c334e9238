// Package composer turns the active theme's layout into prompt strings.
package composer

import (
	"context"
	"strings"
	"time"

	"github.com/alexisbeaulieu97/promptkit/internal/logging"
	"github.com/alexisbeaulieu97/promptkit/internal/outbuf"
	"github.com/alexisbeaulieu97/promptkit/internal/ports"
	"github.com/alexisbeaulieu97/promptkit/internal/promptctx"
	"github.com/alexisbeaulieu97/promptkit/internal/segment"
	"github.com/alexisbeaulieu97/promptkit/internal/template"
	"github.com/alexisbeaulieu97/promptkit/internal/textwidth"
	"github.com/alexisbeaulieu97/promptkit/internal/theme"
	apperrors "github.com/alexisbeaulieu97/promptkit/pkg/errors"
)

// DefaultCapacity bounds each rendered prompt.
const DefaultCapacity = 4096

// Rendered is one finished prompt string.
type Rendered struct {
	Text  string
	Bytes int
	// Width is the visual width of the last line, where the cursor ends up.
	Width     int
	Multiline bool
	Truncated bool
}

func newRendered(buf *outbuf.Buffer) Rendered {
	text := buf.String()
	return Rendered{
		Text:      text,
		Bytes:     len(text),
		Width:     textwidth.Visual(text),
		Multiline: strings.IndexByte(text, '\n') >= 0,
		Truncated: buf.Truncated(),
	}
}

// PromptOutput holds the primary, continuation and right prompts.
type PromptOutput struct {
	Theme   string
	PS1     Rendered
	PS2     Rendered
	RPrompt Rendered
}

// Stats accumulates render counters.
type Stats struct {
	Renders        int
	Total          time.Duration
	CacheHits      int
	CacheMisses    int
	EventRefreshes int
}

// Options tunes a Composer.
type Options struct {
	// Capacity bounds each prompt in bytes; zero means DefaultCapacity.
	Capacity int
	// NoColor drops every color escape.
	NoColor bool
	Logger  ports.Logger
}

type slot int

const (
	slotLeft slot = iota
	slotRight
	slotContinuation
	slotCount
)

var slotNames = [slotCount]string{"left", "right", "continuation"}

type cachedTemplate struct {
	theme  string
	source string
	tmpl   *template.Template
}

// Composer renders prompts from the active theme. It holds the prompt
// context and parsed templates; the registries are borrowed and never
// cleaned up here.
type Composer struct {
	themes   *theme.Registry
	segments *segment.Registry
	prompt   *promptctx.Context

	cache      [slotCount]*cachedTemplate
	stats      Stats
	needsRegen bool
	subs       []ports.Subscription

	capacity int
	noColor  bool
	logger   ports.Logger
}

// New returns a composer over the given registries and context.
func New(themes *theme.Registry, segments *segment.Registry, prompt *promptctx.Context, opts Options) (*Composer, error) {
	if themes == nil || segments == nil || prompt == nil {
		return nil, apperrors.New(apperrors.CodeInvalidParameter, "composer needs a theme registry, a segment registry and a prompt context", nil, nil)
	}
	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Composer{
		themes:     themes,
		segments:   segments,
		prompt:     prompt,
		needsRegen: true,
		capacity:   capacity,
		noColor:    opts.NoColor,
		logger:     logging.OrNoOp(opts.Logger).With("component", "composer"),
	}, nil
}

// Context returns the prompt context the composer renders from.
func (c *Composer) Context() *promptctx.Context { return c.prompt }

// Stats returns the render counters.
func (c *Composer) Stats() Stats { return c.stats }

// NeedsRegeneration reports whether an event arrived since the last render.
func (c *Composer) NeedsRegeneration() bool { return c.needsRegen }

// Invalidate drops every parsed template.
func (c *Composer) Invalidate() {
	for i := range c.cache {
		c.cache[i] = nil
	}
	c.needsRegen = true
}

// Render produces PS1, PS2 and, when the layout asks for it, the right
// prompt. It fails without an active theme or with a malformed template.
func (c *Composer) Render(ctx context.Context) (PromptOutput, error) {
	t := c.themes.Active()
	if t == nil {
		return PromptOutput{}, apperrors.New(apperrors.CodeInvalidState, "no active theme", nil, nil)
	}
	return c.RenderTheme(ctx, t)
}

// RenderTheme renders with t regardless of which theme is active, as theme
// previews do.
func (c *Composer) RenderTheme(ctx context.Context, t *theme.Theme) (PromptOutput, error) {
	if t == nil {
		return PromptOutput{}, apperrors.New(apperrors.CodeInvalidParameter, "theme is nil", nil, nil)
	}
	start := time.Now()

	sources := [slotCount]string{t.Layout.Left, t.Layout.Right, t.Layout.Continuation}
	if !t.Layout.RightPrompt {
		sources[slotRight] = ""
	}

	var templates [slotCount]*template.Template
	for s := slotLeft; s < slotCount; s++ {
		tmpl, err := c.template(s, t.Name, sources[s])
		if err != nil {
			c.logger.Warn(ctx, "template rejected", "theme", t.Name, "layout", slotNames[s], "error", err)
			return PromptOutput{}, err
		}
		templates[s] = tmpl
	}

	p := c.provider(ctx, t)
	var rendered [slotCount]Rendered
	for s := slotLeft; s < slotCount; s++ {
		buf := outbuf.New(c.capacity)
		templates[s].Render(p, buf)
		rendered[s] = newRendered(buf)
	}

	elapsed := time.Since(start)
	c.stats.Renders++
	c.stats.Total += elapsed
	c.needsRegen = false
	c.logger.Debug(ctx, "prompt rendered", "theme", t.Name, "duration_ms", elapsed.Milliseconds(), "bytes", rendered[slotLeft].Bytes)

	return PromptOutput{
		Theme:   t.Name,
		PS1:     rendered[slotLeft],
		PS2:     rendered[slotContinuation],
		RPrompt: rendered[slotRight],
	}, nil
}

// template returns the parsed form of source, reusing the cache while the
// theme and the source are unchanged.
func (c *Composer) template(s slot, themeName, source string) (*template.Template, error) {
	if cached := c.cache[s]; cached != nil && cached.theme == themeName && cached.source == source {
		c.stats.CacheHits++
		return cached.tmpl, nil
	}
	c.stats.CacheMisses++
	tmpl, err := template.Parse(source)
	if err != nil {
		c.cache[s] = nil
		return nil, err
	}
	c.cache[s] = &cachedTemplate{theme: themeName, source: source, tmpl: tmpl}
	return tmpl, nil
}

// Fallback is the static prompt shown when rendering fails.
func Fallback(isRoot bool) PromptOutput {
	text := "$ "
	if isRoot {
		text = "# "
	}
	r := Rendered{Text: text, Bytes: len(text), Width: len(text)}
	return PromptOutput{PS1: r, PS2: Rendered{Text: "> ", Bytes: 2, Width: 2}}
}
