// Package segment defines the units of prompt content and the registry that
// owns them.
package segment

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/alexisbeaulieu97/promptkit/internal/promptctx"
	"github.com/alexisbeaulieu97/promptkit/internal/symbols"
)

var (
	namePattern   = regexp.MustCompile(`^[a-z][a-z0-9_]{0,31}$`)
	semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
)

// Capability describes how a segment behaves.
type Capability uint16

const (
	CapAsync Capability = 1 << iota
	CapCacheable
	CapExpensive
	CapThemeAware
	CapDynamic
	CapOptional
	CapHasProperties
)

var capabilityNames = []struct {
	cap  Capability
	name string
}{
	{CapAsync, "async"},
	{CapCacheable, "cacheable"},
	{CapExpensive, "expensive"},
	{CapThemeAware, "theme_aware"},
	{CapDynamic, "dynamic"},
	{CapOptional, "optional"},
	{CapHasProperties, "has_properties"},
}

// Has reports whether every bit of other is set.
func (c Capability) Has(other Capability) bool { return c&other == other }

func (c Capability) String() string {
	var names []string
	for _, entry := range capabilityNames {
		if c.Has(entry.cap) {
			names = append(names, entry.name)
		}
	}
	return strings.Join(names, ",")
}

// Info identifies a segment.
type Info struct {
	Name         string
	Description  string
	Version      string
	Capabilities Capability
	// Properties lists the names Property answers, for discovery.
	Properties []string
}

// Validate ensures the info is well-formed.
func (i Info) Validate() error {
	if !namePattern.MatchString(i.Name) {
		return fmt.Errorf("segment name %q must match %s", i.Name, namePattern)
	}
	if i.Version != "" && !semverPattern.MatchString(i.Version) {
		return fmt.Errorf("segment %q has invalid version %q (expected format: X.Y.Z)", i.Name, i.Version)
	}
	return nil
}

// Input is what a segment sees while rendering.
type Input struct {
	Ctx     context.Context
	Prompt  promptctx.Context
	Symbols symbols.Set
}

// Context returns the request context, never nil.
func (in Input) Context() context.Context {
	if in.Ctx == nil {
		return context.Background()
	}
	return in.Ctx
}

// Segment is one named unit of prompt content.
//
// Render must always return a usable Output, even alongside an error; the
// registry records the error and shows whatever was produced.
type Segment interface {
	Info() Info
	Init() error
	Cleanup()
	Enabled() bool
	Visible(in Input) bool
	Render(in Input) (Output, error)
	// Property returns a named detail of the segment and whether it exists.
	Property(in Input, name string) (string, bool)
	CacheValid() bool
	InvalidateCache()
}

// Base supplies default behavior for everything except Render. Embed it and
// set Meta.
type Base struct {
	Meta     Info
	Disabled bool
}

func (b *Base) Info() Info { return b.Meta }
func (b *Base) Init() error { return nil }
func (b *Base) Cleanup() {}
func (b *Base) Enabled() bool { return !b.Disabled }
func (b *Base) Visible(Input) bool { return true }
func (b *Base) Property(Input, string) (string, bool) { return "", false }
func (b *Base) CacheValid() bool { return false }
func (b *Base) InvalidateCache() {}

// Func builds a segment from plain functions. It is the extension point for
// segments defined outside this module.
type Func struct {
	Base
	RenderFunc  func(in Input) (string, error)
	VisibleFunc func(in Input) bool
	Properties  map[string]func(in Input) string
}

// NewFunc returns a segment rendering with fn.
func NewFunc(name, description string, fn func(in Input) (string, error)) *Func {
	return &Func{
		Base:       Base{Meta: Info{Name: name, Description: description, Version: "1.0.0"}},
		RenderFunc: fn,
	}
}

// WithProperty registers a property and returns f for chaining.
func (f *Func) WithProperty(name string, fn func(in Input) string) *Func {
	if f.Properties == nil {
		f.Properties = make(map[string]func(Input) string)
	}
	f.Properties[name] = fn
	f.Meta.Capabilities |= CapHasProperties
	f.Meta.Properties = append(f.Meta.Properties, name)
	return f
}

func (f *Func) Render(in Input) (Output, error) {
	if f.RenderFunc == nil {
		return NewOutput("", false), nil
	}
	text, err := f.RenderFunc(in)
	return NewOutput(text, true), err
}

func (f *Func) Visible(in Input) bool {
	if f.VisibleFunc == nil {
		return true
	}
	return f.VisibleFunc(in)
}

func (f *Func) Property(in Input, name string) (string, bool) {
	fn, ok := f.Properties[name]
	if !ok {
		return "", false
	}
	return fn(in), true
}
