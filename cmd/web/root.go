package main

import (
	"github.com/spf13/cobra"

	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/config"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "plumbweb",
		Short:         "Texas Quality Plumbing website",
		Long:          `Serves the Texas Quality Plumbing landing page with an htmx-driven navigation header.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "config file path")

	root.AddCommand(
		newServeCmd(opts),
		newValidateCmd(opts),
		newVersionCmd(),
	)
	return root
}
