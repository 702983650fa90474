// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/answer-engine/internal/ollama"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available Ollama models and the auto-detected picks",
	Long: `Models lists the models the local Ollama server has pulled and shows
which ones answer-engine would auto-detect for article selection and for
answer generation.`,
	RunE: runModels,
}

func init() {
	modelsCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()

	available, err := ollama.ListModels(context.Background(), cfg.Ollama)
	if err != nil {
		return err
	}

	selectionModel, selErr := ollama.DetectSelectionModel(cfg.Ollama.SelectionModel, available)
	generationModel, genErr := ollama.DetectGenerationModel(cfg.Ollama.GenerationModel, available)

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		out := struct {
			Available  []string `json:"available"`
			Selection  string   `json:"selection,omitempty"`
			Generation string   `json:"generation,omitempty"`
		}{available, selectionModel, generationModel}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(available) == 0 {
		fmt.Println("No models installed. Pull one with: ollama pull llama3.1:8b")
		return nil
	}

	fmt.Println("Available models:")
	for _, m := range available {
		fmt.Printf("  %s\n", m)
	}
	fmt.Println()
	if selErr == nil {
		fmt.Printf("Selection model:  %s\n", selectionModel)
	} else {
		fmt.Printf("Selection model:  none suitable (%v)\n", selErr)
	}
	if genErr == nil {
		fmt.Printf("Generation model: %s\n", generationModel)
	} else {
		fmt.Printf("Generation model: none suitable (%v)\n", genErr)
	}
	return nil
}
