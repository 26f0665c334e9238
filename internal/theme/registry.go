package theme

import (
	"strings"

	"github.com/alexisbeaulieu97/promptkit/internal/logger"
	apperrors "github.com/alexisbeaulieu97/promptkit/pkg/errors"
)

const (
	// DefaultCapacity bounds how many themes a registry accepts.
	DefaultCapacity = 64
	// MaxInheritanceDepth bounds the ancestor chain of any theme.
	MaxInheritanceDepth = 10
)

// RegistryConfig tunes a Registry.
type RegistryConfig struct {
	Capacity int
}

// DefaultRegistryConfig returns the stock configuration.
func DefaultRegistryConfig() *RegistryConfig {
	return &RegistryConfig{Capacity: DefaultCapacity}
}

// Registry owns registered themes and tracks the active one. Lookup is by
// name; listing follows registration order. A Registry is meant for use from
// a single goroutine.
type Registry struct {
	themes   map[string]*Theme
	order    []string
	active   *Theme
	switches int
	capacity int
	closed   bool
	logger   *logger.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(config *RegistryConfig, log *logger.Logger) *Registry {
	if config == nil {
		config = DefaultRegistryConfig()
	}
	capacity := config.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Registry{
		themes:   make(map[string]*Theme),
		capacity: capacity,
		logger:   log.Registry("theme"),
	}
}

// Register takes ownership of t after resolving its inheritance. Names are
// unique; a full registry rejects new themes.
func (r *Registry) Register(t *Theme) error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	if t == nil {
		return apperrors.New(apperrors.CodeInvalidParameter, "theme is nil", nil, nil)
	}
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return apperrors.New(apperrors.CodeInvalidParameter, "theme name is empty", nil, nil)
	}
	if _, exists := r.themes[t.Name]; exists {
		return apperrors.New(apperrors.CodeAlreadyExists, "theme already registered", nil, map[string]interface{}{"theme": t.Name})
	}
	if len(r.themes) >= r.capacity {
		return apperrors.New(apperrors.CodeCapacityExceeded, "theme registry is full", nil, map[string]interface{}{"theme": t.Name, "capacity": r.capacity})
	}
	if err := r.resolveInheritance(t); err != nil {
		r.logWarn(t.Name, err.Error())
		return err
	}

	t.active = false
	r.themes[t.Name] = t
	r.order = append(r.order, t.Name)
	r.logDebug(t.Name, "theme registered")
	return nil
}

// Find returns the theme registered under name.
func (r *Registry) Find(name string) (*Theme, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}
	t, ok := r.themes[name]
	if !ok {
		return nil, apperrors.New(apperrors.CodeNotFound, "theme not found", nil, map[string]interface{}{"theme": name})
	}
	return t, nil
}

// SetActive makes name the active theme, deactivating the previous one.
func (r *Registry) SetActive(name string) error {
	t, err := r.Find(name)
	if err != nil {
		return err
	}
	if r.active != nil {
		r.active.active = false
	}
	t.active = true
	r.active = t
	r.switches++
	r.logDebug(name, "active theme changed")
	return nil
}

// Active returns the active theme, or nil when none was selected.
func (r *Registry) Active() *Theme {
	return r.active
}

// SwitchCount reports how many times SetActive succeeded.
func (r *Registry) SwitchCount() int { return r.switches }

// Len reports the number of registered themes.
func (r *Registry) Len() int { return len(r.themes) }

// List returns up to max theme names in registration order; max <= 0 means all.
func (r *Registry) List(max int) []string {
	n := len(r.order)
	if max > 0 && max < n {
		n = max
	}
	return append([]string(nil), r.order[:n]...)
}

// All returns the registered themes in registration order.
func (r *Registry) All() []*Theme {
	out := make([]*Theme, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.themes[name])
	}
	return out
}

// Cleanup releases every owned theme. The registry rejects further use.
func (r *Registry) Cleanup() {
	for name := range r.themes {
		delete(r.themes, name)
	}
	r.order = nil
	r.active = nil
	r.closed = true
}

func (r *Registry) checkOpen() error {
	if r == nil || r.closed {
		return apperrors.New(apperrors.CodeInvalidState, "theme registry is not initialized", nil, nil)
	}
	return nil
}

func (r *Registry) logDebug(name, msg string) {
	r.logger.Debug(msg, "theme", name)
}

func (r *Registry) logWarn(name, msg string) {
	r.logger.Warn(msg, "theme", name)
}
