package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/twig/pkg/logger"
	"github.com/odvcencio/twig/pkg/repo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const version = "0.1.0-dev"

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "twig: %v\n", err)
		os.Exit(1)
	}
}

// settings carries process-level options resolved from flags and TWIG_*
// environment variables.
type settings struct {
	v   *viper.Viper
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	s := &settings{v: viper.New()}

	root := &cobra.Command{
		Use:           "twig",
		Short:         "Content-addressable object store with Git-style blobs and trees",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s.log = logger.New(logger.Options{
				Verbose: s.v.GetBool("verbose"),
				Output:  cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.BoolP("verbose", "v", false, "log debug records to stderr")
	flags.StringP("dir", "C", "", "run as if twig was started in this directory")
	s.v.BindPFlag("verbose", flags.Lookup("verbose"))
	s.v.BindPFlag("dir", flags.Lookup("dir"))
	s.v.SetEnvPrefix("TWIG")
	s.v.AutomaticEnv()

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(s))
	root.AddCommand(newHashObjectCmd(s))
	root.AddCommand(newCatFileCmd(s))
	root.AddCommand(newWriteTreeCmd(s))
	root.AddCommand(newLsTreeCmd(s))
	root.AddCommand(newVerifyCmd(s))
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "twig %s\n", version)
		},
	}
}

func (s *settings) logger() *zap.Logger {
	if s.log == nil {
		return zap.NewNop()
	}
	return s.log
}

// workDir is the directory commands run from.
func (s *settings) workDir() string {
	if d := s.v.GetString("dir"); d != "" {
		return d
	}
	return "."
}

// resolvePath interprets p relative to the working directory.
func (s *settings) resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.workDir(), p)
}

func (s *settings) openRepo() (*repo.Repo, error) {
	return repo.Open(s.workDir(), repo.WithLogger(s.logger()))
}
