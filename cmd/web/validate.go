package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/menu"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/render"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/site"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the config, page content and templates, then print the navigation tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			content, err := site.LoadFile(cfg.Site.ContentFile)
			if err != nil {
				return fmt.Errorf("loading content: %w", err)
			}
			if _, err := render.New(render.Options{}); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: content ok\n", content.Company.Name)
			printTree(out, content.Nav)
			return nil
		},
	}
}

func printTree(w io.Writer, tree *menu.Tree) {
	for _, it := range tree.Items() {
		fmt.Fprintf(w, "%s [%s] %s\n", it.ID, it.Kind, it.Href)
		for _, c := range it.Categories {
			fmt.Fprintf(w, "  %s\n", c.Name)
			for _, l := range c.Links {
				fmt.Fprintf(w, "    %s %s\n", l.Label, l.Href)
			}
		}
		for _, l := range it.Links {
			fmt.Fprintf(w, "  %s %s\n", l.Label, l.Href)
		}
	}
	fmt.Fprintf(w, "%d leaf links\n", tree.LeafCount())
}
