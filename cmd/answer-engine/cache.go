// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/answer-engine/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local article cache",
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete cached articles older than the configured TTL",
	RunE:  runCachePrune,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the cache database entirely",
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cachePruneCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCachePrune(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()

	store, err := cache.NewStore(cfg.Cache)
	if err != nil {
		return err
	}
	defer store.Close()

	removed, err := store.Prune()
	if err != nil {
		return err
	}
	fmt.Printf("pruned %d expired article(s)\n", removed)
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()

	if err := os.Remove(cfg.Cache.Path); err != nil {
		if os.IsNotExist(err) {
			fmt.Println("cache is already empty")
			return nil
		}
		return err
	}
	fmt.Printf("removed %s\n", cfg.Cache.Path)
	return nil
}
