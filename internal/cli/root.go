// Package cli provides the Cobra command structure for cheatfind.
package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/cheatfind/internal/logging"
	"github.com/yaklabco/cheatfind/pkg/terminal"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Options replaces process-level dependencies, mainly for tests.
type Options struct {
	// OpenTerminal returns the terminal for the interactive session and a
	// closer for it. Defaults to the controlling terminal.
	OpenTerminal func() (terminal.Terminal, io.Closer, error)

	// Getenv reads environment variables. Defaults to os.Getenv.
	Getenv func(string) string
}

func (o Options) withDefaults() Options {
	if o.OpenTerminal == nil {
		o.OpenTerminal = openControllingTerminal
	}
	if o.Getenv == nil {
		o.Getenv = os.Getenv
	}
	return o
}

func openControllingTerminal() (terminal.Terminal, io.Closer, error) {
	tty, err := terminal.Open()
	if err != nil {
		return nil, nil, err
	}
	return tty, tty, nil
}

// globalFlags are persistent flags shared by every command.
type globalFlags struct {
	debug      bool
	configPath string
	color      string
}

// NewRootCommand creates the root cheatfind command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	return NewRootCommandWithOptions(info, Options{})
}

// NewRootCommandWithOptions is NewRootCommand with injected dependencies.
func NewRootCommandWithOptions(info BuildInfo, opts Options) *cobra.Command {
	opts = opts.withDefaults()
	global := &globalFlags{}
	search := &searchFlags{}

	rootCmd := &cobra.Command{
		Use:   "cheatfind [query]",
		Short: "Search your command cheat sheets as you type",
		Long: `cheatfind searches "command ## description" lines kept in *.commands
files under the corpus directory. Results update while you type and while
the corpus is still being read.

Use the arrow keys to move the selection, Enter to print it and Ctrl-C to
leave without a selection. The chosen line is written to stdout as
"<index>: <line>", or just the command with --command-only.

Run "cheatfind update" once to fetch the tldr-pages examples.`,
		Example: `  cheatfind                 Start with an empty query
  cheatfind tar             Start searching for "tar"
  cheatfind -U docker       Refresh tldr pages, then search
  cheatfind --command-only  Print only the chosen command`,
		Args:    cobra.MaximumNArgs(1),
		Version: info.Version,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if global.debug {
				logging.SetLevel("debug")
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args, global, search, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&global.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&global.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&global.color, "color", "",
		"colorize output: auto, always, never")

	addSearchFlags(rootCmd, search)

	// Add subcommands.
	rootCmd.AddCommand(newUpdateCommand(global, opts))
	rootCmd.AddCommand(newInitCommand(opts))
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(&global.color)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
