package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sghaida/assistfactory/config"
	"github.com/sghaida/assistfactory/emit"
	"github.com/sghaida/assistfactory/metrics"
)

func newGenerateCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Write factories, modules and the dependency index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := g.setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return generate(cmd.Context(), cfg, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

// generate runs one full session against the output directory.
func generate(ctx context.Context, cfg *config.Config, logger *zap.Logger, stdout, stderr io.Writer) error {
	rec := metrics.New()
	files := emit.NewFile(cfg.OutDir, emit.WithFileLogger(logger))

	res, err := runSession(ctx, cfg, logger, files, rec)
	if err != nil {
		return err
	}
	if err := files.WriteIndex(); err != nil {
		return err
	}
	if cfg.MetricsFile != "" {
		if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
			return fmt.Errorf("metrics: write %s: %w", cfg.MetricsFile, err)
		}
	}

	return res.report(stdout, stderr,
		fmt.Sprintf(" (%d written, %d unchanged)", files.Written(), files.Unchanged()))
}
