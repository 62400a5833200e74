package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/javafront/lsp"
)

func newLSPCmd() *cobra.Command {
	var opts optionFlags
	var envs envFlags
	var workspace bool

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := opts.resolve()
			if err != nil {
				return err
			}
			environment, release, err := envs.open()
			if err != nil {
				return err
			}
			defer release()
			server := lsp.NewServer(version, lsp.Config{
				Options:       o,
				Env:           environment,
				LoadWorkspace: workspace,
			})
			return server.RunStdio()
		},
	}
	opts.bind(cmd)
	envs.bind(cmd)
	cmd.Flags().BoolVar(&workspace, "workspace", true, "load every .java file under the workspace root")
	return cmd
}
