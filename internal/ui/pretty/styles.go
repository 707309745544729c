// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/yaklabco/cheatfind/pkg/session"
)

// Styles contains the styled renderers for CLI output.
type Styles struct {
	Title   lipgloss.Style
	Path    lipgloss.Style
	Success lipgloss.Style
	Failure lipgloss.Style
	Dim     lipgloss.Style
	Bold    lipgloss.Style
}

// NewRenderer returns a lipgloss renderer for w. With color disabled every
// style renders plain text; with color enabled at least 256 colors are
// assumed even when w is not detected as a terminal.
func NewRenderer(w io.Writer, colorEnabled bool) *lipgloss.Renderer {
	renderer := lipgloss.NewRenderer(w)
	switch {
	case !colorEnabled:
		renderer.SetColorProfile(termenv.Ascii)
	case renderer.ColorProfile() == termenv.Ascii:
		renderer.SetColorProfile(termenv.ANSI256)
	}
	return renderer
}

// NewStyles creates CLI styles for output written to w.
func NewStyles(w io.Writer, colorEnabled bool) *Styles {
	r := NewRenderer(w, colorEnabled)
	return &Styles{
		Title:   r.NewStyle().Bold(true),
		Path:    r.NewStyle().Foreground(lipgloss.Color("14")),
		Success: r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Failure: r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Dim:     r.NewStyle().Foreground(lipgloss.Color("8")),
		Bold:    r.NewStyle().Bold(true),
	}
}

// NewSessionStyles creates the prompt, highlight and selection styles for
// an interactive session drawing on w.
func NewSessionStyles(w io.Writer, colorEnabled bool) session.Styles {
	r := NewRenderer(w, colorEnabled)
	return session.Styles{
		Prompt:    r.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		Highlight: r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Selected:  r.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// Mode values: "auto" (default), "always", "never".
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		// https://no-color.org/
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(interface{ Fd() uintptr }); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
