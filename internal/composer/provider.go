package composer

import (
	"context"

	"github.com/alexisbeaulieu97/promptkit/internal/color"
	"github.com/alexisbeaulieu97/promptkit/internal/segment"
	"github.com/alexisbeaulieu97/promptkit/internal/symbols"
	"github.com/alexisbeaulieu97/promptkit/internal/template"
	"github.com/alexisbeaulieu97/promptkit/internal/theme"
)

// renderProvider answers template lookups for one render of one theme.
type renderProvider struct {
	segments *segment.Registry
	theme    *theme.Theme
	in       segment.Input
	noColor  bool
}

func (c *Composer) provider(ctx context.Context, t *theme.Theme) template.Provider {
	snapshot := c.prompt.Snapshot()
	glyphs := t.Symbols
	if !snapshot.Terminal.Unicode && t.Capabilities.Has(theme.CapUnicode) {
		glyphs = symbols.ASCII()
	}
	return &renderProvider{
		segments: c.segments,
		theme:    t,
		in:       segment.Input{Ctx: ctx, Prompt: snapshot, Symbols: glyphs},
		noColor:  c.noColor,
	}
}

func (p *renderProvider) Segment(name, prop string) string {
	if !p.theme.SegmentEnabled(name) {
		return ""
	}
	if prop != "" {
		return p.segments.Property(p.in, name, prop)
	}
	return p.segments.Render(p.in, name).Content
}

func (p *renderProvider) Visible(name, prop string) bool {
	if !p.theme.SegmentEnabled(name) {
		return false
	}
	return p.segments.Visible(p.in, name, prop)
}

// Color resolves a color slot, falling back to the syntax table, and
// downgrades it to what the terminal supports.
func (p *renderProvider) Color(name string) string {
	if p.noColor {
		return ""
	}
	c, ok := p.theme.Colors.Lookup(name)
	if !ok {
		c, ok = p.theme.Syntax.Lookup(name)
	}
	if !ok || !c.IsSet() {
		return ""
	}
	term := p.in.Prompt.Terminal
	return color.Downgrade(c, term.TrueColor, term.Has256).Escape(color.Foreground)
}
