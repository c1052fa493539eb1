package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subgen/internal/whisper"
)

// Rough characteristics per tier, from the upstream Whisper model card.
var modelNotes = map[string]string{
	"tiny":     "fastest, lowest accuracy",
	"base":     "fast, basic accuracy",
	"small":    "balanced speed and accuracy",
	"medium":   "good accuracy, slower",
	"large":    "high accuracy, slow",
	"large-v2": "improved large model",
	"large-v3": "best accuracy, slowest",
	"turbo":    "near large-v3 accuracy at much higher speed",
}

func newModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List supported Whisper model sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(whisper.ModelTiers))
			for _, tier := range whisper.ModelTiers {
				name := tier
				if tier == whisper.DefaultModel {
					name += " (default)"
				}
				rows = append(rows, []string{name, modelNotes[tier]})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Model", "Notes"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}
}
