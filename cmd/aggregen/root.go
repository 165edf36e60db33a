package main

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/syssam/aggregen/compiler/gen"
	"github.com/syssam/aggregen/internal/logging"
)

// rootOptions are the flags shared by all subcommands.
type rootOptions struct {
	config    string
	envFile   string
	logLevel  string
	logFormat string
	strict    bool

	logger *slog.Logger
}

// genOptions returns the generator options set by flags.
func (o *rootOptions) genOptions(cmd *cobra.Command) []gen.Option {
	opts := []gen.Option{gen.WithLogger(o.logger)}
	if cmd.Flags().Changed("strict") {
		opts = append(opts, gen.WithStrict(o.strict))
	}
	return opts
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "aggregen",
		Short: "Generate aggregate data-access code from a relational schema",
		Long: `aggregen reads a schema (inline, snapshot or live database) and the
aggregates declared in aggregen.yaml, and writes Go code that loads, saves
and removes each aggregate inside one transaction.

Examples:
  aggregen generate                  # generate from ./aggregen.yaml
  aggregen check --strict            # report unresolved relations
  aggregen snapshot                  # store the database schema for offline runs
  aggregen watch                     # regenerate when the config changes
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if o.envFile != "" {
				if err := godotenv.Load(o.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
					return err
				}
			}
			o.logger = logging.Setup(cmd.ErrOrStderr(), o.logLevel, o.logFormat)
			return nil
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVarP(&o.config, "config", "c", "aggregen.yaml", "Path of the config file")
	flags.StringVar(&o.envFile, "env-file", ".env", "Environment file loaded before the config is read")
	flags.StringVar(&o.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	flags.StringVar(&o.logFormat, "log-format", "text", "Log format: text or json")
	flags.BoolVar(&o.strict, "strict", false, "Fail on any unresolved relation (overrides the config)")

	cmd.AddCommand(
		newGenerateCmd(o),
		newCheckCmd(o),
		newSnapshotCmd(o),
		newWatchCmd(o),
	)
	return cmd
}
