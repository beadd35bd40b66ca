package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a directory, compiling stylesheets on request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := c.loadOptions(cmd)
			if err != nil {
				return err
			}
			return c.app.Serve(cmd.Context(), opts)
		},
	}
	addServeFlags(cmd)
	addCompileFlags(cmd)
	return cmd
}
