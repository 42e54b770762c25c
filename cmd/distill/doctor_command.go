package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"distill/internal/preflight"
)

func newDoctorCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check required tools, directories, and API access",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			failed := 0
			results := preflight.RunAll(ctx, cfg)
			rows := make([][]string, 0, len(results))
			for _, result := range results {
				status := "ok"
				if !result.Passed {
					status = "FAIL"
					failed++
				}
				rows = append(rows, []string{result.Name, status, result.Detail})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows))
			if failed > 0 {
				fmt.Fprintf(out, "%d of %d checks failed. Processing may not work until they are fixed.\n", failed, len(results))
			} else {
				fmt.Fprintln(out, "All checks passed.")
			}
			return nil
		},
	}
}
