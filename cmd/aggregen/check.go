package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/aggregen/compiler"
)

func newCheckCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Resolve the aggregates and report skipped relations",
		Long: `Resolve the declared aggregates against the schema without writing files.
Every skipped relation is printed. With --strict the command fails when
any relation was skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := compiler.Check(cmd.Context(), o.config, o.genOptions(cmd)...)
			if report != nil {
				w := cmd.OutOrStdout()
				for _, a := range report.Aggregates {
					fmt.Fprintf(w, "ok      %s (%d relation(s))\n", a.Name, len(a.Relations()))
				}
				for _, warn := range report.Warnings {
					fmt.Fprintf(w, "skipped %s\n", warn)
				}
				for _, fail := range report.Failed {
					fmt.Fprintf(w, "failed  %s\n", fail)
				}
			}
			return err
		},
	}
}
