package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnemet/DeckForge/internal/bootstrap"
	"github.com/gnemet/DeckForge/internal/generation"
)

func newGenerateCmd() *cobra.Command {
	var (
		req    generation.Request
		out    string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one deck and write it to the output directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if out != "" {
				cfg.Application.Storage.Output = out
			}

			app, err := bootstrap.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			res, err := app.Orchestrator.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			fmt.Fprintf(w, "Created %s\n", res.Path)
			fmt.Fprintf(w, "  theme:  %s\n", res.Theme)
			fmt.Fprintf(w, "  slides: %d\n", res.SlideCount)
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Title, "title", "t", "", "presentation title")
	cmd.Flags().StringVar(&req.Theme, "theme", "", "Modern, Classic or Dark (default: random)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory (overrides config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}
