package segment

import (
	"fmt"
	"time"

	"github.com/alexisbeaulieu97/promptkit/internal/logger"
	apperrors "github.com/alexisbeaulieu97/promptkit/pkg/errors"
)

// Stats accumulates per-segment render counters.
type Stats struct {
	Renders   int
	CacheHits int
	Errors    int
	Total     time.Duration
}

type entry struct {
	segment Segment
	stats   Stats
}

// Registry owns registered segments. Lookups are by name and listing follows
// registration order. A Registry is meant for use from a single goroutine.
type Registry struct {
	entries map[string]*entry
	order   []string
	closed  bool
	logger  *logger.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		logger:  log.Registry("segment"),
	}
}

// Register initializes s and takes ownership of it.
func (r *Registry) Register(s Segment) error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	if s == nil {
		return apperrors.New(apperrors.CodeInvalidParameter, "segment is nil", nil, nil)
	}
	info := s.Info()
	if err := info.Validate(); err != nil {
		return apperrors.New(apperrors.CodeInvalidParameter, "invalid segment info", err, map[string]interface{}{"segment": info.Name})
	}
	if _, exists := r.entries[info.Name]; exists {
		return apperrors.New(apperrors.CodeAlreadyExists, "segment already registered", nil, map[string]interface{}{"segment": info.Name})
	}
	if err := s.Init(); err != nil {
		return apperrors.New(apperrors.CodeInvalidState, fmt.Sprintf("init segment %q", info.Name), err, map[string]interface{}{"segment": info.Name})
	}

	r.entries[info.Name] = &entry{segment: s}
	r.order = append(r.order, info.Name)
	r.logger.Debug("segment registered", "segment", info.Name, "capabilities", info.Capabilities.String())
	return nil
}

// Find returns the segment registered under name.
func (r *Registry) Find(name string) (Segment, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}
	e, ok := r.entries[name]
	if !ok {
		return nil, apperrors.New(apperrors.CodeNotFound, "segment not found", nil, map[string]interface{}{"segment": name})
	}
	return e.segment, nil
}

// List returns the info of every segment in registration order.
func (r *Registry) List() []Info {
	infos := make([]Info, 0, len(r.order))
	for _, name := range r.order {
		infos = append(infos, r.entries[name].segment.Info())
	}
	return infos
}

// Names returns segment names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Len reports the number of registered segments.
func (r *Registry) Len() int { return len(r.entries) }

// InvalidateAll drops every segment's cache.
func (r *Registry) InvalidateAll() {
	for _, name := range r.order {
		r.entries[name].segment.InvalidateCache()
	}
}

// Invalidate drops the cache of the named segments; unknown names are ignored.
func (r *Registry) Invalidate(names ...string) {
	for _, name := range names {
		if e, ok := r.entries[name]; ok {
			e.segment.InvalidateCache()
		}
	}
}

// Stats returns the counters of the named segment.
func (r *Registry) Stats(name string) (Stats, bool) {
	e, ok := r.entries[name]
	if !ok {
		return Stats{}, false
	}
	return e.stats, true
}

// Cleanup calls Cleanup on every segment, last registered first, and rejects
// further use.
func (r *Registry) Cleanup() {
	if r == nil || r.closed {
		return
	}
	for i := len(r.order) - 1; i >= 0; i-- {
		r.entries[r.order[i]].segment.Cleanup()
	}
	r.entries = make(map[string]*entry)
	r.order = nil
	r.closed = true
}

// Render renders the named segment. Unknown or disabled segments render
// empty; render errors are counted and logged, and the output is used anyway.
func (r *Registry) Render(in Input, name string) Output {
	e, ok := r.usable(name)
	if !ok {
		return NewOutput("", false)
	}

	if e.segment.CacheValid() {
		e.stats.CacheHits++
	}
	start := time.Now()
	out, err := e.segment.Render(in)
	e.stats.Total += time.Since(start)
	e.stats.Renders++
	if err != nil {
		e.stats.Errors++
		r.logger.Error(err, "segment render failed", "segment", name)
	}
	return out
}

// Visible reports whether the named segment should be shown. With prop set it
// reports whether the property has a non-empty value instead.
func (r *Registry) Visible(in Input, name, prop string) bool {
	e, ok := r.usable(name)
	if !ok {
		return false
	}
	if prop != "" {
		value, found := e.segment.Property(in, prop)
		return found && value != "" && value != "0" && value != "false"
	}
	return e.segment.Visible(in)
}

// Property returns a named property of a segment, or "" when either is unknown.
func (r *Registry) Property(in Input, name, prop string) string {
	e, ok := r.usable(name)
	if !ok {
		return ""
	}
	value, _ := e.segment.Property(in, prop)
	return value
}

func (r *Registry) usable(name string) (*entry, bool) {
	if r == nil || r.closed {
		return nil, false
	}
	e, ok := r.entries[name]
	if !ok || !e.segment.Enabled() {
		return nil, false
	}
	return e, true
}

func (r *Registry) checkOpen() error {
	if r == nil || r.closed {
		return apperrors.New(apperrors.CodeInvalidState, "segment registry is not initialized", nil, nil)
	}
	return nil
}
