package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hyphen-docs/hyphen/internal/config"
	"github.com/hyphen-docs/hyphen/internal/docset"
	"github.com/hyphen-docs/hyphen/internal/logging"
	"github.com/hyphen-docs/hyphen/internal/pipeline"
	"github.com/hyphen-docs/hyphen/internal/progress"
)

const version = "1.1.0"

type rootFlags struct {
	languages  []string
	platforms  []string
	output     string
	configPath string
	logLevel   string
	source     string
	helper     string
}

func newRootCmd() *cobra.Command {
	var f rootFlags

	cmd := &cobra.Command{
		Use:   "hyphen -l LANGUAGE -p PLATFORM [-o OUTPUT_PATH]",
		Short: "Hyphen - Making Apple Docs for Dash great again",
		Long: `Hyphen dumps the Apple API Reference docset installed in Dash, removes
every entry that is not written in one of the requested languages or not
available on one of the requested platforms, and links type names in the
remaining pages to their own documentation.`,
		Version: version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := config.ParseOptions(f.languages, f.platforms, f.output)
			if err != nil {
				return err
			}
			// Past flag validation, failures are not usage errors.
			cmd.SilenceUsage = true

			cfg, err := loadConfig(cmd, f.configPath)
			if err != nil {
				return err
			}
			if f.source != "" {
				cfg.SourceDocset = f.source
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = f.logLevel
			}

			logger := logging.BuildLogger(cfg.LogLevel)
			return run(cmd.Context(), cmd.OutOrStdout(), logger, cfg, opts, f.helper)
		},
	}

	cmd.SetVersionTemplate("hyphen version {{.Version}}\n")

	cmd.Flags().StringArrayVarP(&f.languages, "language", "l", nil,
		"Language that should be kept. May be specified multiple times. Possible values: swift, objc.")
	cmd.Flags().StringArrayVarP(&f.platforms, "platform", "p", nil,
		"Platform that should be kept. May be specified multiple times. Possible values: ios, macos, watchos, tvos.")
	cmd.Flags().StringVarP(&f.output, "output", "o", "",
		"Destination path where the docset will be created. Defaults to the current directory.")
	cmd.Flags().StringVar(&f.configPath, "config", "", "Path to config YAML (default $HYPHEN_CONFIG_FILE or the user config dir)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&f.source, "source", "", "Installed Apple API Reference docset (overrides source_docset)")
	cmd.Flags().StringVar(&f.helper, "helper", "", "Dump helper binary (default: the one inside the source docset)")

	return cmd
}

func loadConfig(cmd *cobra.Command, path string) (*config.Config, error) {
	if cmd.Flags().Changed("config") {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, w io.Writer, logger *slog.Logger, cfg *config.Config, opts config.Options, helper string) error {
	dumper := &docset.HelperDumper{
		Source:    cfg.SourceDocset,
		Platforms: opts.Platforms,
		Logger:    logger,
		Helper:    helper,
	}
	// Missing inputs are reported before the output directory is touched.
	if err := dumper.Check(); err != nil {
		return err
	}

	out, err := docset.PrepareOutputDir(opts.OutputDir)
	if err != nil {
		return err
	}
	dumper.OutputDir = out

	lock, err := docset.LockOutput(out)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	css, err := docset.LoadStyleOverrides(cfg.StyleOverrides)
	if err != nil {
		return err
	}

	runner := &pipeline.Runner{
		Dumper:         dumper,
		OpenIndex:      pipeline.OpenStore,
		Languages:      opts.Languages,
		Platforms:      opts.Platforms,
		StyleOverrides: css,
		Logger:         logger,
		Progress:       progress.New(w, cfg.ProgressEvery),
	}

	sum, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "Done: kept %d of %d entries, injected %d links.\nDocset written to %s\n",
		sum.Kept, sum.Entries, sum.LinksInjected, sum.Bundle.Root)
	return nil
}
