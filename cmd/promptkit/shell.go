package main

import (
	"fmt"
	"strings"
)

var shells = []string{"plain", "bash", "zsh"}

func validShell(name string) bool {
	for _, s := range shells {
		if s == name {
			return true
		}
	}
	return false
}

// escapeForShell marks escape sequences as zero-width so the line editor can
// measure the prompt, and protects characters the shell would interpret.
func escapeForShell(text, shell string) string {
	var open, close string
	switch shell {
	case "bash":
		open, close = `\[`, `\]`
		text = strings.ReplaceAll(text, `\`, `\\`)
	case "zsh":
		open, close = "%{", "%}"
		text = strings.ReplaceAll(text, "%", "%%")
	default:
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + 8)
	for i := 0; i < len(text); {
		end := escapeEnd(text, i)
		if end < 0 {
			b.WriteByte(text[i])
			i++
			continue
		}
		b.WriteString(open)
		b.WriteString(text[i:end])
		b.WriteString(close)
		i = end
	}
	return b.String()
}

// escapeEnd returns the index just past a CSI sequence starting at i, or -1.
func escapeEnd(s string, i int) int {
	if i+1 >= len(s) || s[i] != 0x1b || s[i+1] != '[' {
		return -1
	}
	for j := i + 2; j < len(s); j++ {
		if s[j] >= 0x40 && s[j] <= 0x7e {
			return j + 1
		}
	}
	return -1
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func assignment(name, value string) string {
	return fmt.Sprintf("%s=%s\n", name, shellQuote(value))
}
