package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/weld/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the site into the destination directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			clean, _ := cmd.Flags().GetBool("clean")
			_, err := c.app.Build(cmd.Context(), configPath, app.BuildOptions{Clean: clean})
			return err
		},
	}
	cmd.Flags().Bool("clean", false, "Remove the destination directory before writing")
	return cmd
}
