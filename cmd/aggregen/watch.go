package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/syssam/aggregen/compiler"
	"github.com/syssam/aggregen/compiler/load"
)

func newWatchCmd(o *rootOptions) *cobra.Command {
	var delay time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate whenever the config or schema snapshot changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			paths := []string{o.config}
			if cfg, err := load.LoadConfig(o.config); err == nil && cfg.Schema.Snapshot != "" {
				paths = append(paths, cfg.Path(cfg.Schema.Snapshot))
			}
			regenerate := func(ctx context.Context) {
				report, err := compiler.Generate(ctx, o.config, o.genOptions(cmd)...)
				if err != nil {
					o.logger.Error("generation failed", "error", err)
					return
				}
				printSummary(cmd.OutOrStdout(), report)
			}
			regenerate(ctx)
			o.logger.Info("watching for changes", "paths", paths)
			return watch(ctx, paths, delay, o.logger, regenerate)
		},
	}
	cmd.Flags().DurationVar(&delay, "delay", 200*time.Millisecond, "Time to wait for changes to settle")
	return cmd
}

// watch calls run once changes to any of paths have settled for delay.
// It watches the parent directories so files replaced by editors are
// still followed. It returns when ctx is done.
func watch(ctx context.Context, paths []string, delay time.Duration, log *slog.Logger, run func(context.Context)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	files := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		files[abs] = true
		if dir := filepath.Dir(abs); !dirs[dir] {
			if err := w.Add(dir); err != nil {
				return err
			}
			dirs[dir] = true
		}
	}

	settle := time.NewTimer(delay)
	settle.Stop()
	defer settle.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if files[filepath.Clean(ev.Name)] && ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				log.Debug("change detected", "file", ev.Name, "op", ev.Op.String())
				settle.Reset(delay)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "error", err)
		case <-settle.C:
			run(ctx)
		}
	}
}
