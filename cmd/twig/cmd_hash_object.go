package main

import (
	"fmt"
	"io"
	"os"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/spf13/cobra"
)

func newHashObjectCmd(s *settings) *cobra.Command {
	var (
		write   bool
		objType string
	)

	cmd := &cobra.Command{
		Use:   "hash-object [path]",
		Short: "Compute an object id, optionally storing the object",
		Long: "Compute the id of a file (or stdin when no path is given) framed as an object.\n" +
			"The object is only written to the store when -w is set.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := object.ParseObjectType(objType)
			if err != nil {
				return err
			}

			var data []byte
			if len(args) > 0 {
				data, err = os.ReadFile(s.resolvePath(args[0]))
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			if t == object.TypeTree {
				if _, err := object.UnmarshalTree(data); err != nil {
					return fmt.Errorf("hash-object: %w", err)
				}
			}

			var h object.Hash
			if write {
				r, err := s.openRepo()
				if err != nil {
					return err
				}
				defer r.Close()
				if h, err = r.HashObject(t, data, true); err != nil {
					return err
				}
			} else {
				// Hashing alone needs no repository.
				h = object.HashObject(t, data)
			}

			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the object into the store")
	cmd.Flags().StringVarP(&objType, "type", "t", string(object.TypeBlob), "object type")
	return cmd
}
