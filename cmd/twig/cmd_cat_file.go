package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/spf13/cobra"
)

func newCatFileCmd(s *settings) *cobra.Command {
	var showType, showSize, pretty bool

	cmd := &cobra.Command{
		Use:   "cat-file <object>",
		Short: "Print the content, type or size of a stored object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := s.openRepo()
			if err != nil {
				return err
			}
			defer r.Close()

			_, obj, err := r.ReadObject(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case showType:
				fmt.Fprintln(out, obj.Type)
			case showSize:
				fmt.Fprintln(out, obj.Size)
			case pretty && obj.Type == object.TypeTree:
				tr, err := object.UnmarshalTree(obj.Data)
				if err != nil {
					return err
				}
				for _, e := range tr.Entries {
					printTreeLine(out, e.Mode, e.Hash, e.Name)
				}
			default:
				_, err = out.Write(obj.Data)
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showType, "type", "t", false, "print the object type")
	cmd.Flags().BoolVarP(&showSize, "size", "s", false, "print the payload size")
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "pretty-print the object")
	cmd.MarkFlagsMutuallyExclusive("type", "size", "pretty")
	return cmd
}

// printTreeLine writes one entry in ls-tree format. Modes are padded to six
// digits for display only; the stored form stays "40000".
func printTreeLine(w io.Writer, mode string, h object.Hash, name string) {
	if n := len(mode); n < 6 {
		mode = strings.Repeat("0", 6-n) + mode
	}
	t := object.TypeBlob
	if mode == "0"+object.TreeModeDir {
		t = object.TypeTree
	}
	fmt.Fprintf(w, "%s %s %s\t%s\n", mode, t, h, name)
}
