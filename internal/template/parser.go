// Package template parses and renders prompt format strings.
//
// A format string is literal text interleaved with expressions:
//
//	${name}                 segment content
//	${name.prop}            segment property
//	${?name[.prop]:yes:no}  conditional on segment visibility
//	${color:text}           text wrapped in a theme color
//
// Branches and colored text are format strings themselves. \n is a line
// break; a backslash before $, \, {, } or : produces that character.
package template

import (
	"sort"
	"strings"

	apperrors "github.com/alexisbeaulieu97/promptkit/pkg/errors"
)

// MaxDepth bounds how deeply branches and colored text may nest. Deeper
// text is kept verbatim instead of being parsed.
const MaxDepth = 8

// Kind tags a Token.
type Kind uint8

const (
	KindLiteral Kind = iota
	KindSegment
	KindProperty
	KindConditional
	KindColor
	KindNewline
	KindEnd
)

var kindNames = [...]string{"literal", "segment", "property", "conditional", "color", "newline", "end"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Token is one node of a parsed template. Sequences are runs of tokens in the
// template's arena terminated by KindEnd; Then and Else index into the arena.
type Token struct {
	Kind Kind
	// Text is the literal text, or the segment or color name.
	Text string
	// Prop is the property name of KindProperty and of conditionals on a property.
	Prop string
	// Then starts the true branch of a conditional or the text of a color.
	Then int
	// Else starts the false branch of a conditional.
	Else int
	// Offset is the byte position of the token in the source.
	Offset int
}

// Template is a parsed format string. The root sequence starts at index 0.
type Template struct {
	source string
	tokens []Token
}

// Source returns the format string the template was parsed from.
func (t *Template) Source() string { return t.source }

// Tokens returns a copy of the token arena.
func (t *Template) Tokens() []Token { return append([]Token(nil), t.tokens...) }

// Names returns the distinct segment names the template refers to, sorted.
func (t *Template) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for _, tok := range t.tokens {
		switch tok.Kind {
		case KindSegment, KindProperty, KindConditional:
			if tok.Text != "" && !seen[tok.Text] {
				seen[tok.Text] = true
				names = append(names, tok.Text)
			}
		}
	}
	sort.Strings(names)
	return names
}

type pending struct {
	token  int
	isElse bool
	text   string
	offset int
	depth  int
}

type parser struct {
	tokens  []Token
	pending []pending
}

// Parse scans src once and returns its token arena. An expression opened with
// ${ and never closed is a *errors.ParseError carrying its offset.
func Parse(src string) (*Template, error) {
	p := &parser{tokens: make([]Token, 0, 16)}
	if err := p.sequence(src, 0, 0); err != nil {
		return nil, err
	}

	for len(p.pending) > 0 {
		next := p.pending[0]
		p.pending = p.pending[1:]

		start := len(p.tokens)
		if next.depth > MaxDepth {
			p.literal(next.text, next.offset)
			p.end(next.offset + len(next.text))
		} else if err := p.sequence(next.text, next.offset, next.depth); err != nil {
			return nil, err
		}
		if next.isElse {
			p.tokens[next.token].Else = start
		} else {
			p.tokens[next.token].Then = start
		}
	}

	return &Template{source: src, tokens: p.tokens}, nil
}

// sequence appends the tokens of src followed by End.
func (p *parser) sequence(src string, base, depth int) error {
	var lit strings.Builder
	litStart := base
	flush := func(at int) {
		if lit.Len() > 0 {
			p.literal(lit.String(), litStart)
			lit.Reset()
		}
		litStart = at
	}

	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '\\' && i+1 < len(src):
			switch src[i+1] {
			case 'n':
				flush(base + i)
				p.tokens = append(p.tokens, Token{Kind: KindNewline, Offset: base + i})
				litStart = base + i + 2
			case '$', '\\', '{', '}', ':':
				if lit.Len() == 0 {
					litStart = base + i
				}
				lit.WriteByte(src[i+1])
			default:
				if lit.Len() == 0 {
					litStart = base + i
				}
				lit.WriteByte('\\')
				i++
				continue
			}
			i += 2
		case c == '$' && i+1 < len(src) && src[i+1] == '{':
			end := closingBrace(src, i+2)
			if end < 0 {
				return apperrors.NewTemplateError(base+i, "unterminated expression")
			}
			flush(base + i)
			p.expression(src[i+2:end], base+i, base+i+2, depth)
			i = end + 1
			litStart = base + i
		default:
			if lit.Len() == 0 {
				litStart = base + i
			}
			lit.WriteByte(c)
			i++
		}
	}
	flush(base + len(src))
	p.end(base + len(src))
	return nil
}

// expression appends the token for the body of ${...}.
func (p *parser) expression(body string, offset, bodyOffset, depth int) {
	if body == "" {
		return
	}

	if body[0] == '?' {
		rest := body[1:]
		cond, branches, hasBranches := cutTopLevel(rest)
		name, prop, _ := strings.Cut(cond, ".")
		idx := len(p.tokens)
		p.tokens = append(p.tokens, Token{Kind: KindConditional, Text: name, Prop: prop, Then: -1, Else: -1, Offset: offset})
		if !hasBranches {
			return
		}
		branchOffset := bodyOffset + 1 + len(cond) + 1
		then, otherwise, hasElse := cutTopLevel(branches)
		if then != "" {
			p.pending = append(p.pending, pending{token: idx, text: then, offset: branchOffset, depth: depth + 1})
		}
		if hasElse && otherwise != "" {
			p.pending = append(p.pending, pending{token: idx, isElse: true, text: otherwise, offset: branchOffset + len(then) + 1, depth: depth + 1})
		}
		return
	}

	if name, text, isColor := cutTopLevel(body); isColor {
		idx := len(p.tokens)
		p.tokens = append(p.tokens, Token{Kind: KindColor, Text: name, Then: -1, Else: -1, Offset: offset})
		if text != "" {
			p.pending = append(p.pending, pending{token: idx, text: text, offset: bodyOffset + len(name) + 1, depth: depth + 1})
		}
		return
	}

	if name, prop, ok := strings.Cut(body, "."); ok {
		p.tokens = append(p.tokens, Token{Kind: KindProperty, Text: name, Prop: prop, Then: -1, Else: -1, Offset: offset})
		return
	}
	p.tokens = append(p.tokens, Token{Kind: KindSegment, Text: body, Then: -1, Else: -1, Offset: offset})
}

func (p *parser) literal(text string, offset int) {
	p.tokens = append(p.tokens, Token{Kind: KindLiteral, Text: text, Then: -1, Else: -1, Offset: offset})
}

func (p *parser) end(offset int) {
	p.tokens = append(p.tokens, Token{Kind: KindEnd, Then: -1, Else: -1, Offset: offset})
}

// closingBrace returns the index of the brace closing an expression whose
// body starts at from, or -1. Nested braces are counted and escaped
// characters skipped.
func closingBrace(src string, from int) int {
	depth := 1
	for i := from; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// cutTopLevel splits s around the first ':' outside nested braces.
func cutTopLevel(s string) (before, after string, found bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case ':':
			if depth == 0 {
				return s[:i], s[i+1:], true
			}
		}
	}
	return s, "", false
}

// CheckBraces reports whether every ${ in src is closed. It allocates nothing
// and is meant for validating format strings before they are stored.
func CheckBraces(src string) bool {
	for i := 0; i < len(src); i++ {
		switch {
		case src[i] == '\\':
			i++
		case src[i] == '$' && i+1 < len(src) && src[i+1] == '{':
			end := closingBrace(src, i+2)
			if end < 0 {
				return false
			}
			i = end
		}
	}
	return true
}
