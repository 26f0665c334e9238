package theme

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/promptkit/internal/logging"
	"github.com/alexisbeaulieu97/promptkit/internal/ports"
	apperrors "github.com/alexisbeaulieu97/promptkit/pkg/errors"
)

// MaxFileSize caps the size of a single theme file.
const MaxFileSize = 64 * 1024

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// DefaultSearchPaths returns the user theme directory followed by the system
// one. Earlier directories shadow later ones.
func DefaultSearchPaths() []string {
	var paths []string
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "promptkit", "themes"))
	}
	return append(paths, "/etc/promptkit/themes")
}

// Loader reads theme files from a list of directories.
type Loader struct {
	paths  []string
	logger ports.Logger
}

// NewLoader returns a loader over paths; nil paths means DefaultSearchPaths.
func NewLoader(paths []string, log ports.Logger) *Loader {
	if paths == nil {
		paths = DefaultSearchPaths()
	}
	return &Loader{
		paths:  paths,
		logger: logging.OrNoOp(log).With("component", "theme_loader"),
	}
}

// Paths returns the search path in priority order.
func (l *Loader) Paths() []string {
	return append([]string(nil), l.paths...)
}

// LoadFile reads, decodes and validates a single theme file.
func LoadFile(path string) (*Theme, error) {
	data, err := readCapped(path)
	if err != nil {
		return nil, err
	}
	return Decode(path, data)
}

// Decode parses the YAML form of one theme. path is only used in errors.
func Decode(path string, data []byte) (*Theme, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("theme file is empty")
		}
		return nil, apperrors.NewParseError(path, extractLine(err), err)
	}

	if err := validatorInstance().Struct(&f); err != nil {
		return nil, convertValidationError(path, err)
	}

	t, err := f.ToTheme()
	if err != nil {
		return nil, apperrors.New(apperrors.CodeInvalidParameter, "invalid theme file", err, map[string]interface{}{"path": path})
	}
	return t, nil
}

// LoadDir loads every *.yaml and *.yml file in dir, in name order. A missing
// directory yields no themes. Files that fail are reported together; the
// themes that loaded are still returned.
func (l *Loader) LoadDir(ctx context.Context, dir string) ([]*Theme, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, apperrors.New(apperrors.CodeIO, "read theme directory", err, map[string]interface{}{"path": dir})
	}

	var (
		themes []*Theme
		errs   []error
	)
	for _, entry := range entries {
		if entry.IsDir() || !isThemeFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		t, err := LoadFile(path)
		if err != nil {
			l.logger.Warn(ctx, "theme file rejected", "path", path, "error", err)
			errs = append(errs, err)
			continue
		}
		l.logger.Debug(ctx, "theme file loaded", "path", path, "theme", t.Name)
		themes = append(themes, t)
	}
	return themes, errors.Join(errs...)
}

// Discover loads every search directory. A theme name found in an earlier
// directory shadows the same name in later ones.
func (l *Loader) Discover(ctx context.Context) ([]*Theme, error) {
	seen := make(map[string]bool)
	var (
		themes []*Theme
		errs   []error
	)
	for _, dir := range l.paths {
		loaded, err := l.LoadDir(ctx, dir)
		if err != nil {
			errs = append(errs, err)
		}
		for _, t := range loaded {
			if seen[t.Name] {
				l.logger.Debug(ctx, "theme shadowed", "theme", t.Name, "path", dir)
				continue
			}
			seen[t.Name] = true
			themes = append(themes, t)
		}
	}
	return themes, errors.Join(errs...)
}

// LoadAll discovers theme files and registers them with reg, parents before
// children. Themes in an inheritance cycle are rejected with the cycle path.
// Registration continues past individual failures; all of them are returned.
func (l *Loader) LoadAll(ctx context.Context, reg *Registry) error {
	themes, err := l.Discover(ctx)
	var errs []error
	if err != nil {
		errs = append(errs, err)
	}
	return errors.Join(append(errs, l.register(ctx, reg, themes))...)
}

func (l *Loader) register(ctx context.Context, reg *Registry, themes []*Theme) error {
	ordered, cycleErrs := orderByInheritance(themes)
	errs := cycleErrs
	for _, t := range ordered {
		if err := reg.Register(t); err != nil {
			l.logger.Warn(ctx, "theme not registered", "theme", t.Name, "error", err)
			errs = append(errs, fmt.Errorf("register theme %q: %w", t.Name, err))
			continue
		}
		l.logger.Debug(ctx, "theme registered", "theme", t.Name, "inherits", t.InheritsFrom)
	}
	return errors.Join(errs...)
}

// orderByInheritance sorts themes so that every parent loaded alongside its
// child comes first. Members of a cycle are dropped and reported.
func orderByInheritance(themes []*Theme) ([]*Theme, []error) {
	byName := make(map[string]*Theme, len(themes))
	for _, t := range themes {
		byName[t.Name] = t
	}

	var errs []error
	for {
		cycle := detectCycle(byName)
		if len(cycle) == 0 {
			break
		}
		errs = append(errs, apperrors.New(apperrors.CodeInvalidState,
			fmt.Sprintf("inheritance cycle detected: %s", strings.Join(cycle, " -> ")), nil,
			map[string]interface{}{"path": cycle}))
		for _, name := range cycle {
			delete(byName, name)
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	placed := make(map[string]bool, len(byName))
	ordered := make([]*Theme, 0, len(byName))
	var place func(string)
	place = func(name string) {
		if placed[name] {
			return
		}
		placed[name] = true
		t := byName[name]
		if _, ok := byName[t.InheritsFrom]; ok {
			place(t.InheritsFrom)
		}
		ordered = append(ordered, t)
	}
	for _, name := range names {
		place(name)
	}
	return ordered, errs
}

// detectCycle returns the names on an inheritance cycle, closed by repeating
// the first one, or nil when the graph is acyclic.
func detectCycle(themes map[string]*Theme) []string {
	visiting := make(map[string]bool, len(themes))
	visited := make(map[string]bool, len(themes))
	var stack []string

	var cycle []string
	var dfs func(string) bool
	dfs = func(node string) bool {
		visiting[node] = true
		stack = append(stack, node)

		parent := themes[node].InheritsFrom
		if _, ok := themes[parent]; ok && !visited[parent] {
			if visiting[parent] {
				idx := indexOf(stack, parent)
				cycle = append([]string{}, stack[idx:]...)
				cycle = append(cycle, parent)
				return true
			}
			if dfs(parent) {
				return true
			}
		}

		visiting[node] = false
		visited[node] = true
		stack = stack[:len(stack)-1]
		return false
	}

	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if visited[name] {
			continue
		}
		if dfs(name) {
			break
		}
	}
	return cycle
}

func indexOf(slice []string, target string) int {
	for i, v := range slice {
		if v == target {
			return i
		}
	}
	return -1
}

func readCapped(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeIO, "open theme file", err, map[string]interface{}{"path": path})
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxFileSize+1))
	if err != nil {
		return nil, apperrors.New(apperrors.CodeIO, "read theme file", err, map[string]interface{}{"path": path})
	}
	if len(data) > MaxFileSize {
		return nil, apperrors.New(apperrors.CodeCapacityExceeded, "theme file too large", nil, map[string]interface{}{
			"path":  path,
			"limit": MaxFileSize,
		})
	}
	return data, nil
}

func isThemeFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}
	return line
}

func convertValidationError(path string, err error) error {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		field := strings.ToLower(strings.TrimPrefix(fe.Namespace(), "File."))
		return apperrors.New(apperrors.CodeInvalidParameter,
			fmt.Sprintf("%s failed validation for tag '%s'", field, fe.Tag()), err,
			map[string]interface{}{"path": path, "field": field})
	}
	return apperrors.New(apperrors.CodeInvalidParameter, "invalid theme file", err, map[string]interface{}{"path": path})
}
