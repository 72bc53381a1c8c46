package main

import (
	"fmt"
	"runtime"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/spf13/cobra"
)

func newVerifyCmd(s *settings) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify object integrity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := s.openRepo()
			if err != nil {
				return err
			}
			defer r.Close()

			report, err := r.Store.Verify(cmd.Context(), workers)
			if err != nil {
				return err
			}

			fmt.Fprintf(
				cmd.OutOrStdout(),
				"ok: verified %d object(s) (%d blob, %d tree), %d byte(s)\n",
				report.Objects,
				report.ByType[object.TypeBlob],
				report.ByType[object.TypeTree],
				report.Bytes,
			)
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "number of objects checked concurrently")
	return cmd
}
