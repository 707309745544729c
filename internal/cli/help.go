package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/cheatfind/internal/configloader"
	"github.com/yaklabco/cheatfind/internal/ui/pretty"
)

// minFlagGap is the run of spaces pflag puts between a flag and its usage.
const minFlagGap = 2

// helpStyles colours the parts of a help page.
type helpStyles struct {
	command lipgloss.Style
	heading lipgloss.Style
	name    lipgloss.Style
	flag    lipgloss.Style
	dim     lipgloss.Style
}

func newHelpStyles(r *lipgloss.Renderer) helpStyles {
	return helpStyles{
		command: r.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		heading: r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		name:    r.NewStyle().Foreground(lipgloss.Color("10")),
		flag:    r.NewStyle().Foreground(lipgloss.Color("12")),
		dim:     r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// HelpFormatter renders cobra help and usage with lipgloss styles. Colour
// is decided per render from the --color value and the output writer.
type HelpFormatter struct {
	colorMode *string
}

// NewHelpFormatter creates a help formatter reading the colour mode
// (auto, always or never) from colorMode at render time.
func NewHelpFormatter(colorMode *string) *HelpFormatter {
	return &HelpFormatter{colorMode: colorMode}
}

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}{{end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}

{{- if .HasExample}}

{{ heading "Examples:" }}
{{ dim .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ name (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}

{{- if not .HasParent}}

{{ heading "Environment:" }}
{{ environment }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{ command .CommandPath }}{{if .Version}} {{ dim .Version }}{{end}}

{{with (or .Long .Short)}}{{ trimRight . }}

{{end}}` + usageTemplate

// ApplyToCommand installs the styled help and usage on cmd. Subcommands
// inherit them.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		return h.render(c.OutOrStderr(), usageTemplate, c)
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := h.render(c.OutOrStdout(), helpTemplate, c); err != nil {
			c.PrintErrln(err)
		}
	})
}

func (h *HelpFormatter) render(w io.Writer, text string, cmd *cobra.Command) error {
	mode := ""
	if h.colorMode != nil {
		mode = *h.colorMode
	}
	styles := newHelpStyles(pretty.NewRenderer(w, pretty.IsColorEnabled(mode, w)))

	tmpl, err := template.New("help").Funcs(styles.funcs()).Parse(text)
	if err != nil {
		return fmt.Errorf("parse help template: %w", err)
	}
	if err := tmpl.Execute(w, cmd); err != nil {
		return fmt.Errorf("render help: %w", err)
	}
	return nil
}

func (s helpStyles) funcs() template.FuncMap {
	return template.FuncMap{
		"command":     s.command.Render,
		"heading":     s.heading.Render,
		"name":        s.name.Render,
		"dim":         s.dim.Render,
		"flags":       s.flagUsages,
		"environment": s.environment,
		"rpad":        rpad,
		"trimRight":   trimTrailingWhitespaces,
	}
}

// flagUsages styles pflag's usage block line by line.
func (s helpStyles) flagUsages(flags interface{ FlagUsages() string }) string {
	lines := strings.Split(strings.TrimSuffix(flags.FlagUsages(), "\n"), "\n")
	for i, line := range lines {
		lines[i] = s.flagLine(line)
	}
	return strings.Join(lines, "\n")
}

// flagLine styles "  -p, --corpus-path string   usage". The flag names
// are coloured and the value type dimmed.
func (s helpStyles) flagLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(trimmed)]

	head, usage, ok := splitFlagLine(trimmed)
	if !ok {
		return line
	}

	tokens := strings.Fields(head)
	for i, token := range tokens {
		if !strings.HasPrefix(token, "-") {
			tokens[i] = s.dim.Render(token)
			continue
		}
		clean := strings.TrimSuffix(token, ",")
		tokens[i] = s.flag.Render(clean) + token[len(clean):]
	}
	return indent + strings.Join(tokens, " ") + "   " + usage
}

// splitFlagLine splits at the first run of at least minFlagGap spaces.
func splitFlagLine(line string) (string, string, bool) {
	start := -1
	for idx, char := range line {
		switch {
		case char == ' ' && start < 0:
			start = idx
		case char != ' ' && start >= 0:
			if idx-start >= minFlagGap {
				return line[:start], line[idx:], true
			}
			start = -1
		}
	}
	return line, "", false
}

// environment lists the CHEATFIND_* overrides.
func (s helpStyles) environment() string {
	vars := configloader.ListEnvVars()
	width := 0
	for _, v := range vars {
		width = max(width, len(v.Name))
	}

	lines := make([]string, 0, len(vars))
	for _, v := range vars {
		lines = append(lines, "  "+s.flag.Render(rpad(v.Name, width))+"  "+v.Description)
	}
	return strings.Join(lines, "\n")
}

func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
