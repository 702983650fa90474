// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/answer-engine/internal/answer"
	"github.com/pdiddy/answer-engine/internal/cache"
	"github.com/pdiddy/answer-engine/internal/kiwix"
	"github.com/pdiddy/answer-engine/internal/ollama"
	"github.com/pdiddy/answer-engine/internal/query"
	"github.com/pdiddy/answer-engine/internal/retrieve"
	"github.com/pdiddy/answer-engine/internal/selection"
	"github.com/pdiddy/answer-engine/pkg/types"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the local Wikipedia archive",
	Long: `Ask answers a natural-language question using locally hosted Wikipedia
content and locally hosted models. With a question argument it answers once
and exits; without one it starts an interactive session (type "quit" to
leave).

The number of articles consulted is estimated from question complexity;
--max-results overrides the estimate.`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().String("question", "", "question to answer (alternative to the positional argument)")
	askCmd.Flags().String("model", "", "generation model (default: auto-detect)")
	askCmd.Flags().String("selection-model", "", "article selection model (default: auto-detect)")
	askCmd.Flags().String("kiwix-url", "", "Kiwix server base URL")
	askCmd.Flags().String("book", "", "ZIM book slug for direct article lookups")
	askCmd.Flags().Int("max-results", 0, "number of articles to consult (0 = estimate from question)")
	askCmd.Flags().Bool("no-auto-start", false, "do not launch kiwix-serve when the server is down")
	askCmd.Flags().Bool("no-cache", false, "bypass the local article cache")
	askCmd.Flags().Bool("json", false, "output the result as JSON")
	askCmd.Flags().String("save", "", "also write the result to a file (.json or .yaml)")

	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	if v, _ := cmd.Flags().GetString("kiwix-url"); v != "" {
		cfg.Kiwix.URL = v
	}
	if v, _ := cmd.Flags().GetString("book"); v != "" {
		cfg.Kiwix.Book = v
	}
	if v, _ := cmd.Flags().GetString("model"); v != "" {
		cfg.Ollama.GenerationModel = v
	}
	if v, _ := cmd.Flags().GetString("selection-model"); v != "" {
		cfg.Ollama.SelectionModel = v
	}
	if v, _ := cmd.Flags().GetBool("no-auto-start"); v {
		cfg.Kiwix.AutoStart = false
	}
	if v, _ := cmd.Flags().GetBool("no-cache"); v {
		cfg.Cache.Enabled = false
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	savePath, _ := cmd.Flags().GetString("save")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	client := kiwix.NewClient(cfg.Kiwix)
	if cfg.Kiwix.AutoStart {
		stop, err := kiwix.NewLauncher(client, os.Stderr).EnsureRunning(ctx)
		if err != nil {
			return err
		}
		if stop != nil {
			defer stop()
		}
	} else if !client.Ping(ctx) {
		return fmt.Errorf("kiwix server not reachable at %s", cfg.Kiwix.URL)
	}

	available, err := ollama.ListModels(ctx, cfg.Ollama)
	if err != nil {
		return err
	}
	selectionModel, err := ollama.DetectSelectionModel(cfg.Ollama.SelectionModel, available)
	if err != nil {
		return err
	}
	generationModel, err := ollama.DetectGenerationModel(cfg.Ollama.GenerationModel, available)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "selection model: %s\n", selectionModel)
	fmt.Fprintf(os.Stderr, "generation model: %s\n", generationModel)

	classifier, err := ollama.NewClassifier(cfg.Ollama.Host, selectionModel)
	if err != nil {
		return err
	}
	generator, err := ollama.NewGenerator(cfg.Ollama.Host, generationModel)
	if err != nil {
		return err
	}

	var articleCache answer.ArticleCache
	if cfg.Cache.Enabled {
		store, err := cache.NewStore(cfg.Cache)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: cache disabled: %v\n", err)
		} else {
			defer store.Close()
			articleCache = store
		}
	}

	engine := answer.NewEngine(
		query.NewAnalyzer(query.DefaultFilters()),
		retrieve.NewRetriever(client, cfg.Retrieval, os.Stderr),
		selection.NewSelector(classifier, os.Stderr),
		client,
		generator,
		articleCache,
		os.Stderr,
	)

	question, _ := cmd.Flags().GetString("question")
	if question == "" && len(args) > 0 {
		question = strings.Join(args, " ")
	}
	if question != "" {
		return answerOnce(ctx, engine, question, maxResults, jsonOutput, savePath)
	}
	return interactive(ctx, engine, maxResults)
}

func answerOnce(ctx context.Context, engine *answer.Engine, question string, maxResults int, jsonOutput bool, savePath string) error {
	result := engine.Answer(ctx, question, maxResults)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		printResult(result)
	}

	if savePath != "" {
		if err := answer.SaveResult(savePath, result); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "result saved to %s\n", savePath)
	}
	return ctx.Err()
}

func interactive(ctx context.Context, engine *answer.Engine, maxResults int) error {
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println(" Offline Wikipedia Assistant")
	fmt.Println(" Ask any question; type 'quit' to exit")
	fmt.Println(strings.Repeat("=", 70))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "quit" || question == "exit" {
			break
		}

		printResult(engine.Answer(ctx, question, maxResults))
		if ctx.Err() != nil {
			break
		}
	}
	fmt.Println("\nGoodbye.")
	return scanner.Err()
}

func printResult(r types.Result) {
	fmt.Println()
	fmt.Println(r.Answer)
	if len(r.Sources) > 0 {
		fmt.Println("\n" + strings.Repeat("-", 70))
		fmt.Println("Source articles:")
		for i, s := range r.Sources {
			fmt.Printf("  [%d] %s\n      %s\n", i+1, s.Title, s.URL)
		}
	}
	fmt.Printf("\nanswered in %.1fs with %s\n", r.Elapsed.Seconds(), r.Model)
}
