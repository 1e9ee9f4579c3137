package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultDebounce = 300 * time.Millisecond

func newWatchCmd(g *globalFlags) *cobra.Command {
	debounce := defaultDebounce

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run generate, then again whenever the manifest changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := g.setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
			regenerate := func(ctx context.Context) error {
				// Each run is a new session: the manifest may have changed.
				fresh, err := g.load()
				if err != nil {
					return err
				}
				return generate(ctx, fresh, logger, stdout, stderr)
			}

			if err := regenerate(cmd.Context()); err != nil && !errors.Is(err, errStructural) {
				return err
			}
			w := &manifestWatcher{path: cfg.Manifest, debounce: debounce, logger: logger, onChange: regenerate}
			return w.Run(cmd.Context())
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "wait this long after the last change before regenerating")
	return cmd
}

// manifestWatcher calls onChange once per burst of writes to path. It watches
// the parent directory so editors that replace the file by rename are seen.
type manifestWatcher struct {
	path     string
	debounce time.Duration
	logger   *zap.Logger
	onChange func(context.Context) error
}

// Run blocks until ctx is done. Errors from onChange are logged, not returned.
func (w *manifestWatcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fw.Close()

	target, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if err := fw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	w.logger.Info("watching manifest", zap.String("path", target))

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if abs, _ := filepath.Abs(ev.Name); abs != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.logger.Debug("manifest changed", zap.String("op", ev.Op.String()))
			timer.Reset(w.debounce)

		case <-timer.C:
			if err := w.onChange(ctx); err != nil {
				w.logger.Warn("regeneration failed", zap.Error(err))
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}
