package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/javafront/format"
	"github.com/dhamidi/javafront/java/env"
	"github.com/dhamidi/javafront/java/types"
)

func newEnvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Inspect the name environment",
	}
	cmd.AddCommand(newEnvIndexCmd())
	cmd.AddCommand(newEnvShowCmd())
	return cmd
}

func newEnvIndexCmd() *cobra.Command {
	var cacheDir string
	var list bool

	cmd := &cobra.Command{
		Use:   "index <classpath-entry>...",
		Short: "Index class path entries into the cache",
		Long: `Index directories and jars of compiled classes and store the index
in the cache directory, so later compiles with the same class path skip
decoding class files.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cacheDir == "" {
				return fmt.Errorf("no cache directory")
			}
			cp, err := env.Cache{Dir: cacheDir}.Open(args, env.WithParent(env.Bootstrap()))
			if err != nil {
				return err
			}
			defer cp.Close()
			names := cp.Names()
			out := cmd.OutOrStdout()
			if list {
				for _, n := range names {
					fmt.Fprintln(out, n)
				}
				return nil
			}
			fmt.Fprintf(out, "indexed %d classes in %s\n", len(names), cacheDir)
			return nil
		},
	}
	cmd.Flags().StringVar(&cacheDir, "cache", defaultCacheDir(), "directory for class path indexes")
	cmd.Flags().BoolVar(&list, "list", false, "print the indexed class names")
	return cmd
}

func newEnvShowCmd() *cobra.Command {
	var envs envFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <qualified-name>",
		Short: "Print the members of a library class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			environment, release, err := envs.open()
			if err != nil {
				return err
			}
			defer release()
			sym := environment.FindType(args[0])
			if sym == nil {
				return fmt.Errorf("%s: %w", args[0], env.ErrNotFound)
			}
			var enc format.Encoder[*types.ClassSym] = format.NewClassLineEncoder(cmd.OutOrStdout())
			if asJSON {
				enc = format.NewClassJSONEncoder(cmd.OutOrStdout())
			}
			return enc.Encode(sym)
		},
	}
	envs.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the class as JSON")
	return cmd
}
