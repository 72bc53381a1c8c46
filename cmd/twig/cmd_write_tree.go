package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWriteTreeCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "write-tree [path]",
		Short: "Snapshot a directory into tree objects and print the root tree id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := s.openRepo()
			if err != nil {
				return err
			}
			defer r.Close()

			dir := ""
			if len(args) > 0 {
				dir = s.resolvePath(args[0])
			}
			h, err := r.WriteTree(dir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
}
