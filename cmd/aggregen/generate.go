package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/syssam/aggregen/compiler"
	"github.com/syssam/aggregen/compiler/gen"
)

func newGenerateCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate the aggregate package",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := compiler.Generate(cmd.Context(), o.config, o.genOptions(cmd)...)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

func printSummary(w io.Writer, report *gen.Report) {
	fmt.Fprintf(w, "%d aggregate(s), %d file(s) written", len(report.Aggregates), len(report.Files))
	if n := report.Problems(); n > 0 {
		fmt.Fprintf(w, ", %d problem(s)", n)
	}
	fmt.Fprintln(w)
}
