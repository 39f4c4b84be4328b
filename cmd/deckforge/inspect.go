package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnemet/DeckForge/internal/pptx"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.pptx>",
		Short: "Print the slide titles and bodies of a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slides, err := pptx.Inspect(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, s := range slides {
				fmt.Fprintf(w, "Slide %d: %s\n", s.Number, s.Title)
				for _, line := range strings.Split(s.Body, "\n") {
					if line != "" {
						fmt.Fprintf(w, "    %s\n", line)
					}
				}
			}
			return nil
		},
	}
}
