package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/cheatfind/internal/configloader"
	"github.com/yaklabco/cheatfind/internal/logging"
	"github.com/yaklabco/cheatfind/pkg/config"
	"github.com/yaklabco/cheatfind/pkg/fsutil"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	output string
}

func newInitCommand(opts Options) *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Create the user configuration file with the default values and a short
description of every key. The file is written to
$XDG_CONFIG_HOME/cheatfind/config.yaml unless --output is given.`,
		Example: `  cheatfind init
  cheatfind init --force
  cheatfind init --output ./cheatfind.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags, opts)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file path")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags, opts Options) error {
	logger := logging.Default()

	outputPath := flags.output
	if outputPath == "" {
		outputPath = configloader.DefaultConfigPath(opts.Getenv)
	}
	if outputPath == "" {
		return &UsageError{Err: fmt.Errorf("no config directory found; use --output")}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return &UsageError{Err: fmt.Errorf("file %q already exists; use --force to overwrite", outputPath)}
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content, err := config.NewConfig().Template()
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := fsutil.WriteAtomic(cmd.Context(), absPath, content, fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, absPath)
	return nil
}
