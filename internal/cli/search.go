package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/cheatfind/internal/configloader"
	"github.com/yaklabco/cheatfind/internal/logging"
	"github.com/yaklabco/cheatfind/internal/ui/pretty"
	"github.com/yaklabco/cheatfind/pkg/config"
	"github.com/yaklabco/cheatfind/pkg/reporter"
	"github.com/yaklabco/cheatfind/pkg/runner"
	"github.com/yaklabco/cheatfind/pkg/session"
	"github.com/yaklabco/cheatfind/pkg/terminal"
)

// searchFlags holds the flags for the search (root) command.
type searchFlags struct {
	corpusPath  string
	height      int
	limit       int
	extension   string
	update      bool
	tldrURL     string
	commandOnly bool
	format      string
	logFile     string
}

func addSearchFlags(cmd *cobra.Command, flags *searchFlags) {
	cmd.Flags().StringVarP(&flags.corpusPath, "corpus-path", "p", "",
		"directory searched for corpus files")
	cmd.Flags().IntVar(&flags.height, "height", 0,
		fmt.Sprintf("result rows under the prompt (default %d)", config.DefaultHeight))
	cmd.Flags().IntVar(&flags.limit, "limit", 0,
		fmt.Sprintf("results kept per query (default %d)", config.DefaultLimit))
	cmd.Flags().StringVar(&flags.extension, "extension", "",
		"corpus file extension (default .commands)")
	cmd.Flags().BoolVarP(&flags.update, "update", "U", false,
		"refresh tldr pages before searching")
	cmd.Flags().StringVar(&flags.tldrURL, "tldr-url", "",
		"tldr-pages archive URL")
	cmd.Flags().BoolVar(&flags.commandOnly, "command-only", false,
		"print only the command of the selected line")
	cmd.Flags().StringVar(&flags.format, "format", "text",
		"selection output: text, command, json")
	cmd.Flags().StringVar(&flags.logFile, "log-file", "",
		"append logs to this file while the session runs")
}

// cliConfig converts explicitly set flags into a config layer.
func cliConfig(cmd *cobra.Command, global *globalFlags, flags *searchFlags) *config.Config {
	cfg := &config.Config{}
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if global.color != "" {
		cfg.Color = config.ColorMode(global.color)
	}
	if flags == nil {
		return cfg
	}
	if changed("corpus-path") {
		cfg.CorpusPath = flags.corpusPath
	}
	if changed("height") {
		cfg.Height = flags.height
	}
	if changed("limit") {
		cfg.Limit = flags.limit
	}
	if changed("extension") {
		cfg.Extension = flags.extension
	}
	if changed("tldr-url") {
		cfg.TLDRURL = flags.tldrURL
	}
	cfg.Update = flags.update
	cfg.CommandOnly = flags.commandOnly
	cfg.LogFile = flags.logFile
	return cfg
}

// loadConfig resolves the configuration and logs loader warnings.
func loadConfig(ctx context.Context, global *globalFlags, cliCfg *config.Config, opts Options) (*config.Config, error) {
	logger := logging.Default()

	result, err := configloader.Load(ctx, configloader.LoadOptions{
		ExplicitPath: global.configPath,
		Getenv:       opts.Getenv,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, err
	}

	for _, path := range result.LoadedFrom {
		logger.Debug("loaded config", logging.FieldPath, path)
	}
	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	return result.Config, nil
}

func runSearch(cmd *cobra.Command, args []string, global *globalFlags, flags *searchFlags, opts Options) error {
	ctx := cmd.Context()
	logger := logging.Default()

	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return &UsageError{Err: err}
	}

	cfg, err := loadConfig(ctx, global, cliConfig(cmd, global, flags), opts)
	if err != nil {
		return err
	}
	if cfg.CommandOnly && format == reporter.FormatText {
		format = reporter.FormatCommand
	}
	rep, err := reporter.New(reporter.Options{Writer: cmd.OutOrStdout(), Format: format})
	if err != nil {
		return &UsageError{Err: err}
	}

	if cfg.Update {
		if _, err := runUpdate(ctx, cfg, logger); err != nil {
			logger.Warn("tldr update failed, searching existing corpus", logging.FieldError, err)
		}
	}

	sessionLogger, closeLog, err := openSessionLogger(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	term, closer, err := opts.OpenTerminal()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	defer func() {
		if cerr := closer.Close(); cerr != nil {
			logger.Debug("close terminal", logging.FieldError, cerr)
		}
	}()

	var query string
	if len(args) > 0 {
		query = args[0]
	}

	result, err := runner.New(term).Run(ctx, runner.Options{
		Root:         cfg.CorpusPath,
		Extension:    cfg.Extension,
		Rows:         cfg.Height,
		Limit:        cfg.Limit,
		InitialQuery: query,
		Styles:       sessionStyles(term, cfg.Color),
		Logger:       sessionLogger,
	})
	if err != nil {
		return err
	}

	return rep.Report(ctx, result)
}

// openSessionLogger keeps logs off the terminal while the session draws.
func openSessionLogger(path string) (*log.Logger, func(), error) {
	if path == "" {
		return logging.Discard(), func() {}, nil
	}
	logger, closer, err := logging.OpenFile(path, logging.LevelName())
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = closer.Close() }, nil
}

// sessionStyles styles the session for the terminal's output stream.
func sessionStyles(term terminal.Terminal, mode config.ColorMode) session.Styles {
	out, ok := term.(interface{ Output() *os.File })
	if !ok {
		return session.PlainStyles()
	}
	file := out.Output()
	return pretty.NewSessionStyles(file, pretty.IsColorEnabled(string(mode), file))
}
