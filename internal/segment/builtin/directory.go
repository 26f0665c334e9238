package builtin

import (
	"path/filepath"

	"github.com/alexisbeaulieu97/promptkit/internal/promptctx"
	"github.com/alexisbeaulieu97/promptkit/internal/segment"
	"github.com/alexisbeaulieu97/promptkit/internal/textwidth"
)

// Directory shows the working directory with the home directory as "~".
type Directory struct {
	segment.Base
	MaxWidth int
}

func NewDirectory(maxWidth int) *Directory {
	return &Directory{
		Base: segment.Base{Meta: segment.Info{
			Name:         NameDirectory,
			Description:  "Working directory, home abbreviated to ~",
			Version:      version,
			Capabilities: segment.CapDynamic | segment.CapThemeAware | segment.CapHasProperties,
			Properties:   []string{"path", "basename", "display", "readonly"},
		}},
		MaxWidth: maxWidth,
	}
}

func (d *Directory) display(in segment.Input) string {
	shown := promptctx.AbbreviateHome(in.Prompt.Cwd, in.Prompt.Home)
	if d.MaxWidth <= 0 {
		return shown
	}
	ellipsis := in.Symbols.Ellipsis
	if ellipsis == "" {
		ellipsis = "..."
	}
	return textwidth.TruncateLeft(shown, d.MaxWidth, ellipsis)
}

func (d *Directory) Visible(in segment.Input) bool { return in.Prompt.Cwd != "" }

func (d *Directory) Render(in segment.Input) (segment.Output, error) {
	return segment.NewOutput(d.display(in), true), nil
}

func (d *Directory) Property(in segment.Input, name string) (string, bool) {
	switch name {
	case "path":
		return in.Prompt.Cwd, true
	case "basename":
		if in.Prompt.Cwd == in.Prompt.Home && in.Prompt.Home != "" {
			return "~", true
		}
		return filepath.Base(in.Prompt.Cwd), true
	case "display":
		return d.display(in), true
	case "readonly":
		return boolProperty(in.Prompt.Cwd != "" && !in.Prompt.Writable), true
	}
	return "", false
}
