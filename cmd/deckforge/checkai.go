package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gnemet/DeckForge/internal/ai"
)

const pingPrompt = "Say 'The forge is hot!' if you are working correctly."

func newCheckAICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-ai",
		Short: "Send a test prompt to the active AI provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			settings, _ := cfg.AI.Active()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Provider: %s (driver %s)\n", cfg.AI.ActiveProvider, settings.Driver)
			fmt.Fprintf(w, "Model:    %s\n", settings.Model)
			fmt.Fprintf(w, "Key:      %s\n", settings.MaskedKey())

			client, err := ai.NewClient(cmd.Context(), &cfg.AI)
			if err != nil {
				return err
			}
			defer client.Close()

			start := time.Now()
			resp, err := client.GenerateContent(cmd.Context(), pingPrompt)
			if err != nil {
				return fmt.Errorf("AI call failed: %w", err)
			}
			fmt.Fprintf(w, "Response (%s): %s\n", time.Since(start).Round(time.Millisecond), resp)
			return nil
		},
	}
}
