package promptctx

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// TerminalProber reports the capabilities of the output terminal.
type TerminalProber interface {
	Probe() Terminal
}

// OSProber inspects stdout and the COLORTERM, TERM and locale variables.
type OSProber struct {
	Env Environment
	// Fd is the descriptor probed for size; zero means stdout.
	Fd int
}

func (p OSProber) Probe() Terminal {
	env := p.Env
	if env == nil {
		env = OSEnvironment{}
	}
	fd := p.Fd
	if fd == 0 {
		fd = int(os.Stdout.Fd())
	}

	t := DetectCapabilities(env.Getenv)
	t.TTY = term.IsTerminal(fd)
	if t.TTY {
		if w, h, err := term.GetSize(fd); err == nil {
			t.Width, t.Height = w, h
		}
	}
	if t.Width == 0 {
		t.Width = 80
	}
	if t.Height == 0 {
		t.Height = 24
	}
	return t
}

// DetectCapabilities derives color depth and Unicode support from the
// environment alone.
func DetectCapabilities(getenv func(string) string) Terminal {
	t := Terminal{Term: getenv("TERM")}

	colorterm := strings.ToLower(getenv("COLORTERM"))
	termName := strings.ToLower(t.Term)
	switch {
	case colorterm == "truecolor" || colorterm == "24bit":
		t.TrueColor = true
	case strings.Contains(termName, "truecolor") || strings.Contains(termName, "24bit") || strings.Contains(termName, "direct"):
		t.TrueColor = true
	}
	t.Has256 = t.TrueColor || strings.Contains(termName, "256color")

	locale := getenv("LC_ALL")
	if locale == "" {
		locale = getenv("LC_CTYPE")
	}
	if locale == "" {
		locale = getenv("LANG")
	}
	locale = strings.ToUpper(locale)
	t.Unicode = strings.Contains(locale, "UTF-8") || strings.Contains(locale, "UTF8")
	return t
}
