// Package main provides the entry point for the DeathWatch obituary search CLI and API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "deathwatch",
	Short: "Obituary search across web and native backends",
	Long:  "DeathWatch fans an obituary search out across general web search engines and native obituary sites, extracts structured fields from the hits, and ranks them by how well they match the person being looked for.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
