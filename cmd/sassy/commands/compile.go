package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <file.scss>",
		Short: "Compile one stylesheet through the post-processors and print the CSS",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.loadOptions(cmd)
			if err != nil {
				return err
			}
			return c.app.Compile(cmd.Context(), opts, args[0], cmd.OutOrStdout())
		},
	}
	addCompileFlags(cmd)
	return cmd
}
