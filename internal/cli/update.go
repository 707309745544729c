package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/cheatfind/internal/logging"
	"github.com/yaklabco/cheatfind/internal/ui/pretty"
	"github.com/yaklabco/cheatfind/pkg/config"
	"github.com/yaklabco/cheatfind/pkg/tldr"
)

// updateFlags holds the flags for the update command.
type updateFlags struct {
	corpusPath string
	tldrURL    string
	platform   string
}

func newUpdateCommand(global *globalFlags, opts Options) *cobra.Command {
	flags := &updateFlags{}

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Download tldr pages into the corpus",
		Long: `Download the tldr-pages archive and rewrite the tldr corpus files:

  <corpus>/tldr/common.commands
  <corpus>/tldr/<platform>.commands

Each example becomes one "command ## description" line. Existing files are
kept when the download or the archive is broken.`,
		Example: `  cheatfind update
  cheatfind update --platform osx
  cheatfind update --tldr-url https://example.com/tldr.tar.gz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCfg := cliConfig(cmd, global, nil)
			if flags.corpusPath != "" {
				cliCfg.CorpusPath = flags.corpusPath
			}
			if flags.tldrURL != "" {
				cliCfg.TLDRURL = flags.tldrURL
			}
			if flags.platform != "" {
				cliCfg.Platform = flags.platform
			}

			cfg, err := loadConfig(cmd.Context(), global, cliCfg, opts)
			if err != nil {
				return err
			}

			stats, err := runUpdate(cmd.Context(), cfg, logging.Default())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			styles := pretty.NewStyles(out, pretty.IsColorEnabled(string(cfg.Color), out))
			_, err = fmt.Fprintf(out, "%s %d records from %d pages\n",
				styles.Success.Render("updated"), stats.Records, stats.Pages)
			if err != nil {
				return fmt.Errorf("write summary: %w", err)
			}
			for _, file := range stats.Files {
				rel, relErr := filepath.Rel(cfg.CorpusPath, file)
				if relErr != nil {
					rel = file
				}
				if _, err := fmt.Fprintf(out, "  %s\n", styles.Path.Render(rel)); err != nil {
					return fmt.Errorf("write summary: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.corpusPath, "corpus-path", "p", "", "directory searched for corpus files")
	cmd.Flags().StringVar(&flags.tldrURL, "tldr-url", "", "tldr-pages archive URL")
	cmd.Flags().StringVar(&flags.platform, "platform", "",
		fmt.Sprintf("page folder kept next to common (default %q)", tldr.DefaultPlatform()))

	return cmd
}

func runUpdate(ctx context.Context, cfg *config.Config, logger *log.Logger) (*tldr.Stats, error) {
	updater := &tldr.Updater{
		URL:      cfg.TLDRURL,
		Root:     cfg.CorpusPath,
		Platform: cfg.Platform,
		Logger:   logger,
	}

	logger.Info("updating tldr pages", logging.FieldURL, cfg.TLDRURL, logging.FieldPlatform, cfg.Platform)
	stats, err := updater.Update(ctx)
	if err != nil {
		return nil, fmt.Errorf("update tldr pages: %w", err)
	}
	logger.Info("tldr pages updated",
		logging.FieldPages, stats.Pages,
		logging.FieldRecords, stats.Records,
	)
	return stats, nil
}
