package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLsTreeCmd(s *settings) *cobra.Command {
	var recursive, showTrees bool

	cmd := &cobra.Command{
		Use:   "ls-tree <tree>",
		Short: "List the entries of a tree object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := s.openRepo()
			if err != nil {
				return err
			}
			defer r.Close()

			h, err := r.Store.ResolvePrefix(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !recursive {
				tr, err := r.Store.ReadTree(h)
				if err != nil {
					return fmt.Errorf("ls-tree: %w", err)
				}
				for _, e := range tr.Entries {
					printTreeLine(out, e.Mode, e.Hash, e.Name)
				}
				return nil
			}

			entries, err := r.FlattenTree(h, showTrees)
			if err != nil {
				return err
			}
			for _, e := range entries {
				printTreeLine(out, e.Mode, e.Hash, e.Path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "recurse into subtrees")
	cmd.Flags().BoolVarP(&showTrees, "trees", "t", false, "with -r, also list subtree entries")
	return cmd
}
