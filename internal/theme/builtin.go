package theme

import (
	"fmt"

	"github.com/alexisbeaulieu97/promptkit/internal/color"
	"github.com/alexisbeaulieu97/promptkit/internal/symbols"
)

// DefaultThemeName is selected when configuration names no theme.
const DefaultThemeName = "default"

// Builtins returns fresh copies of the stock themes, parents before children.
func Builtins() []*Theme {
	return []*Theme{
		Default(),
		Minimal(),
		Classic(),
		Powerline(),
		Dark(),
		Light(),
		TwoLine(),
	}
}

// RegisterBuiltins registers every stock theme.
func RegisterBuiltins(r *Registry) error {
	for _, t := range Builtins() {
		if err := r.Register(t); err != nil {
			return fmt.Errorf("register builtin theme %q: %w", t.Name, err)
		}
	}
	return nil
}

// Default is a colorful single-line prompt using basic colors.
func Default() *Theme {
	return &Theme{
		Name:         "default",
		Description:  "Single line prompt with user, host, directory and git status",
		Author:       "promptkit",
		Version:      "1.0.0",
		Category:     CategoryColorful,
		Capabilities: CapBuiltin | CapGitAware | CapRightPrompt,
		Colors: ColorScheme{
			Primary:      color.Basic(4),
			Secondary:    color.Basic(6),
			Success:      color.Basic(2),
			Warning:      color.Basic(3),
			Error:        color.Basic(1).With(color.AttrBold),
			Info:         color.Basic(6),
			Text:         color.Basic(7),
			Muted:        color.Palette(8),
			Highlight:    color.Basic(5).With(color.AttrBold),
			Directory:    color.Basic(4).With(color.AttrBold),
			User:         color.Basic(2),
			Host:         color.Basic(3),
			Time:         color.Palette(8),
			GitBranch:    color.Basic(5),
			GitClean:     color.Basic(2),
			GitDirty:     color.Basic(3),
			GitStaged:    color.Basic(2),
			GitUntracked: color.Basic(1),
			Status:       color.Basic(1),
			Jobs:         color.Basic(6),
			Symbol:       color.Basic(7).With(color.AttrBold),
			Separator:    color.Palette(8),
		},
		Syntax: SyntaxScheme{
			Command:  color.Basic(2).With(color.AttrBold),
			Keyword:  color.Basic(5),
			String:   color.Basic(3),
			Variable: color.Basic(6),
			Comment:  color.Palette(8),
			Operator: color.Basic(7),
			Path:     color.Basic(4).With(color.AttrUnderline),
			Number:   color.Basic(6),
			Error:    color.Basic(1).With(color.AttrBold),
		},
		Symbols: symbols.Unicode(),
		Layout: Layout{
			Left:         "${user:${user}}@${host:${host}} ${directory:${directory}}${?git: ${git_branch:${git}}}${?status: ${error:[${status}]}} ${symbol:${symbol}} ",
			Right:        "${?jobs:${jobs:${symbol.jobs}${jobs}} }${time:${time}}",
			Continuation: "${muted:${symbol.continuation}} ",
			RightPrompt:  true,
		},
	}
}

// Minimal renders the directory and the prompt character without color.
func Minimal() *Theme {
	return &Theme{
		Name:         "minimal",
		Description:  "Directory and prompt character only",
		Author:       "promptkit",
		Version:      "1.0.0",
		Category:     CategoryMinimal,
		Capabilities: CapBuiltin,
		Symbols:      symbols.ASCII(),
		Layout: Layout{
			Left:         "${directory} ${symbol} ",
			Continuation: "> ",
			Compact:      true,
		},
		Segments: []string{"directory", "symbol"},
	}
}

// Classic mimics the traditional bracketed shell prompt on any terminal.
func Classic() *Theme {
	return &Theme{
		Name:         "classic",
		Description:  "Traditional [user@host dir]$ prompt, ASCII only",
		Author:       "promptkit",
		Version:      "1.0.0",
		Category:     CategoryClassic,
		Capabilities: CapBuiltin,
		Colors: ColorScheme{
			User:      color.Basic(2),
			Host:      color.Basic(2),
			Directory: color.Basic(4),
			Error:     color.Basic(1),
		},
		Symbols: symbols.ASCII(),
		Layout: Layout{
			Left:         "[${user:${user}}@${host:${host}} ${directory:${directory.basename}}]${?status:${error:(${status})}}${symbol} ",
			Continuation: "> ",
		},
	}
}

// Powerline uses truecolor and powerline glyphs with a right prompt.
func Powerline() *Theme {
	return &Theme{
		Name:         "powerline",
		Description:  "Truecolor powerline segments with a right-hand status prompt",
		Author:       "promptkit",
		Version:      "1.0.0",
		Category:     CategoryPowerline,
		Capabilities: CapBuiltin | CapColors256 | CapTrueColor | CapUnicode | CapPowerline | CapRightPrompt | CapGitAware,
		Colors: ColorScheme{
			Primary:      color.RGB(97, 175, 239),
			Secondary:    color.RGB(198, 120, 221),
			Success:      color.RGB(152, 195, 121),
			Warning:      color.RGB(229, 192, 123),
			Error:        color.RGB(224, 108, 117).With(color.AttrBold),
			Info:         color.RGB(86, 182, 194),
			Text:         color.RGB(171, 178, 191),
			Muted:        color.RGB(92, 99, 112),
			Highlight:    color.RGB(229, 192, 123).With(color.AttrBold),
			Directory:    color.RGB(97, 175, 239).With(color.AttrBold),
			User:         color.RGB(152, 195, 121),
			Host:         color.RGB(229, 192, 123),
			Time:         color.RGB(92, 99, 112),
			GitBranch:    color.RGB(198, 120, 221),
			GitClean:     color.RGB(152, 195, 121),
			GitDirty:     color.RGB(229, 192, 123),
			GitStaged:    color.RGB(152, 195, 121),
			GitUntracked: color.RGB(224, 108, 117),
			Status:       color.RGB(224, 108, 117),
			Jobs:         color.RGB(86, 182, 194),
			Symbol:       color.RGB(171, 178, 191).With(color.AttrBold),
			Separator:    color.RGB(97, 175, 239),
		},
		Symbols: symbols.Unicode(),
		Layout: Layout{
			Left:         "${directory: ${directory} }${separator:${symbol.separator}}${?git: ${git_branch:${symbol.branch} ${git}}} ${symbol:${symbol}} ",
			Right:        "${?status:${error:${symbol.error} ${status}} }${?jobs:${jobs:${symbol.jobs} ${jobs}} }${time:${time}}",
			Continuation: "${muted:${symbol.separator}} ",
			RightPrompt:  true,
		},
	}
}

// Dark refines default with truecolor tones for dark backgrounds.
func Dark() *Theme {
	return &Theme{
		Name:         "dark",
		Description:  "Default layout tuned for dark terminals",
		Author:       "promptkit",
		Version:      "1.0.0",
		Category:     CategoryDark,
		Capabilities: CapBuiltin | CapColors256 | CapTrueColor,
		InheritsFrom: "default",
		Colors: ColorScheme{
			Directory: color.RGB(130, 170, 255).With(color.AttrBold),
			User:      color.RGB(195, 232, 141),
			Host:      color.RGB(255, 203, 107),
			GitBranch: color.RGB(199, 146, 234),
			Muted:     color.RGB(103, 110, 149),
			Time:      color.RGB(103, 110, 149),
		},
	}
}

// Light refines default with darker tones for light backgrounds.
func Light() *Theme {
	return &Theme{
		Name:         "light",
		Description:  "Default layout tuned for light terminals",
		Author:       "promptkit",
		Version:      "1.0.0",
		Category:     CategoryLight,
		Capabilities: CapBuiltin | CapColors256,
		InheritsFrom: "default",
		Colors: ColorScheme{
			Directory: color.Palette(25).With(color.AttrBold),
			User:      color.Palette(28),
			Host:      color.Palette(130),
			GitBranch: color.Palette(90),
			Text:      color.Palette(235),
			Symbol:    color.Palette(235).With(color.AttrBold),
		},
	}
}

// TwoLine puts context on the first line and the prompt character on the second.
func TwoLine() *Theme {
	return &Theme{
		Name:         "twoline",
		Description:  "Powerline colors with the prompt character on its own line",
		Author:       "promptkit",
		Version:      "1.0.0",
		Category:     CategoryPowerline,
		Capabilities: CapBuiltin | CapMultiline | CapRightPrompt,
		InheritsFrom: "powerline",
		Layout: Layout{
			Left:        "${user:${user}}@${host:${host}} ${directory:${directory}}${?git: ${git_branch:${symbol.branch} ${git}}}\\n${symbol:${symbol}} ",
			Multiline:   true,
			RightPrompt: true,
		},
	}
}
