// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the answer-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/answer-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the answer-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "answer-engine",
	Short: "Offline Wikipedia question answering over Kiwix and Ollama",
	Long: `answer-engine answers natural-language questions from a local Kiwix
Wikipedia archive. It analyzes the question, retrieves and ranks candidate
articles, selects the most relevant ones with a local classification model,
and synthesizes a cited answer with a local generation model.

Everything runs offline: Kiwix serves the articles and Ollama serves the
models. No external network access is required.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./answer-engine.yaml or ~/.config/answer-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("answer-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "answer-engine"))
		}
	}

	viper.SetEnvPrefix("ANSWER_ENGINE")
	viper.AutomaticEnv()

	viper.SetDefault("kiwix.url", "http://localhost:8080")
	viper.SetDefault("kiwix.auto_start", true)
	viper.SetDefault("ollama.host", "http://localhost:11434")
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.path", "cache/articles.db")
	viper.SetDefault("cache.ttl", "168h")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig assembles the stage configuration from viper, with
// defaults applied.
func pipelineConfig() types.PipelineConfig {
	cfg := types.PipelineConfig{
		Kiwix: types.KiwixConfig{
			URL:       viper.GetString("kiwix.url"),
			Book:      viper.GetString("kiwix.book"),
			AutoStart: viper.GetBool("kiwix.auto_start"),
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("kiwix.timeout"),
				UserAgent: viper.GetString("kiwix.user_agent"),
			},
		},
		Ollama: types.OllamaConfig{
			Host:            viper.GetString("ollama.host"),
			GenerationModel: viper.GetString("ollama.generation_model"),
			SelectionModel:  viper.GetString("ollama.selection_model"),
		},
		Retrieval: types.RetrievalConfig{
			PerTermResults: viper.GetInt("retrieval.per_term_results"),
		},
		Cache: types.CacheConfig{
			Enabled: viper.GetBool("cache.enabled"),
			Path:    viper.GetString("cache.path"),
			TTL:     viper.GetDuration("cache.ttl"),
		},
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 7 * 24 * time.Hour
	}
	cfg.ApplyDefaults()
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
