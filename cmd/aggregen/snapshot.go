package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/aggregen/compiler"
)

func newSnapshotCmd(o *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Write the inspected database schema to a snapshot file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := compiler.Snapshot(cmd.Context(), o.config, out)
			if err != nil {
				return err
			}
			o.logger.Info("snapshot written", "path", path)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Snapshot path (defaults to schema.snapshot of the config)")
	return cmd
}
