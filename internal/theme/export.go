package theme

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	apperrors "github.com/alexisbeaulieu97/promptkit/pkg/errors"
)

// Export writes t in the file format read by LoadFile. Template strings are
// always double-quoted so escapes and quotes survive a round trip.
func Export(w io.Writer, t *Theme) error {
	if t == nil {
		return apperrors.New(apperrors.CodeInvalidParameter, "theme is nil", nil, nil)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(FileFromTheme(t)); err != nil {
		return apperrors.New(apperrors.CodeIO, "encode theme", err, map[string]interface{}{"theme": t.Name})
	}
	if err := enc.Close(); err != nil {
		return apperrors.New(apperrors.CodeIO, "encode theme", err, map[string]interface{}{"theme": t.Name})
	}
	return nil
}

// ExportFile writes t to dir/<name>.yaml, creating dir when needed.
func ExportFile(dir string, t *Theme) (string, error) {
	if t == nil {
		return "", apperrors.New(apperrors.CodeInvalidParameter, "theme is nil", nil, nil)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.New(apperrors.CodeIO, "create theme directory", err, map[string]interface{}{"path": dir})
	}
	path := filepath.Join(dir, fmt.Sprintf("%s.yaml", t.Name))
	file, err := os.Create(path)
	if err != nil {
		return "", apperrors.New(apperrors.CodeIO, "create theme file", err, map[string]interface{}{"path": path})
	}
	if err := Export(file, t); err != nil {
		_ = file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", apperrors.New(apperrors.CodeIO, "close theme file", err, map[string]interface{}{"path": path})
	}
	return path, nil
}
