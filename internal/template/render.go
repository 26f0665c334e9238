package template

import (
	"github.com/alexisbeaulieu97/promptkit/internal/color"
	"github.com/alexisbeaulieu97/promptkit/internal/outbuf"
)

// Provider supplies segment text, visibility and color prefixes while a
// template renders. Unknown names yield "" or false, never an error.
type Provider interface {
	Segment(name, prop string) string
	Visible(name, prop string) bool
	Color(name string) string
}

// ProviderFuncs adapts plain functions to Provider. Nil functions behave as
// if every name were unknown.
type ProviderFuncs struct {
	SegmentFunc func(name, prop string) string
	VisibleFunc func(name, prop string) bool
	ColorFunc   func(name string) string
}

func (f ProviderFuncs) Segment(name, prop string) string {
	if f.SegmentFunc == nil {
		return ""
	}
	return f.SegmentFunc(name, prop)
}

func (f ProviderFuncs) Visible(name, prop string) bool {
	if f.VisibleFunc == nil {
		return false
	}
	return f.VisibleFunc(name, prop)
}

func (f ProviderFuncs) Color(name string) string {
	if f.ColorFunc == nil {
		return ""
	}
	return f.ColorFunc(name)
}

// Render appends the template's output to buf. Output that does not fit is
// dropped; buf.Truncated reports it.
func (t *Template) Render(p Provider, buf *outbuf.Buffer) {
	if t == nil || len(t.tokens) == 0 || p == nil || buf == nil {
		return
	}
	t.render(0, 0, p, buf)
}

func (t *Template) render(start, depth int, p Provider, buf *outbuf.Buffer) {
	if start < 0 || depth > MaxDepth+1 {
		return
	}
	for i := start; i < len(t.tokens); i++ {
		tok := &t.tokens[i]
		if tok.Kind == KindEnd {
			return
		}
		if buf.Full() {
			// Whatever the remaining tokens would have produced is lost.
			buf.Drop()
			return
		}

		switch tok.Kind {
		case KindLiteral:
			_, _ = buf.WriteString(tok.Text)
		case KindNewline:
			_ = buf.WriteByte('\n')
		case KindSegment:
			_, _ = buf.WriteString(p.Segment(tok.Text, ""))
		case KindProperty:
			_, _ = buf.WriteString(p.Segment(tok.Text, tok.Prop))
		case KindConditional:
			if p.Visible(tok.Text, tok.Prop) {
				t.render(tok.Then, depth+1, p, buf)
			} else {
				t.render(tok.Else, depth+1, p, buf)
			}
		case KindColor:
			t.renderColor(tok, depth, p, buf)
		}
	}
}

func (t *Template) renderColor(tok *Token, depth int, p Provider, buf *outbuf.Buffer) {
	prefix := p.Color(tok.Text)
	if prefix == "" {
		t.render(tok.Then, depth+1, p, buf)
		return
	}
	if !buf.Fits(prefix + color.Reset) {
		buf.Drop()
		return
	}
	_, _ = buf.WriteString(prefix)
	buf.Reserve(len(color.Reset))
	t.render(tok.Then, depth+1, p, buf)
	buf.Release(len(color.Reset))
	_, _ = buf.WriteString(color.Reset)
}

// Execute parses src and renders it into a buffer of the given capacity.
func Execute(src string, p Provider, capacity int) (string, error) {
	tmpl, err := Parse(src)
	if err != nil {
		return "", err
	}
	buf := outbuf.New(capacity)
	tmpl.Render(p, buf)
	return buf.String(), nil
}
