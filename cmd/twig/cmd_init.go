package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/twig/pkg/repo"
	"github.com/spf13/cobra"
)

func newInitCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Create an empty twig repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := s.workDir()
			if len(args) > 0 {
				path = s.resolvePath(args[0])
			}

			abs, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			if err := os.MkdirAll(abs, 0o755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}

			r, err := repo.Init(abs, repo.WithLogger(s.logger()))
			if errors.Is(err, repo.ErrAlreadyInitialized) {
				fmt.Fprintf(cmd.OutOrStdout(), "twig repository already exists at %s\n", filepath.Join(abs, repo.MetaDirName))
				return nil
			}
			if err != nil {
				return err
			}
			defer r.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "initialized empty twig repository in %s\n", r.TwigDir+string(filepath.Separator))
			return nil
		},
	}
}
