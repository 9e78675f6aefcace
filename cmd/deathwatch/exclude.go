package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Data-Integrities/DeathWatch-sub001/internal/db"
)

var (
	excludeFingerprint string
	excludeURL         string
	excludeSearchKey   string
	excludeNote        string
	excludeDBURL       string
)

var excludeCmd = &cobra.Command{
	Use:   "exclude",
	Short: "Suppress a result from future searches",
	Long: `Insert an exclusion row so matching results stay out of future searches.

A result is matched by its fingerprint or by its normalized URL. With --search-key the exclusion applies only to runs of that search; without it the exclusion is global.`,
	RunE: runExclude,
}

func init() {
	excludeCmd.Flags().StringVar(&excludeFingerprint, "fingerprint", "", "Fingerprint of the result to suppress")
	excludeCmd.Flags().StringVar(&excludeURL, "url", "", "URL of the result to suppress")
	excludeCmd.Flags().StringVar(&excludeSearchKey, "search-key", "", "Restrict the exclusion to one search key")
	excludeCmd.Flags().StringVar(&excludeNote, "note", "", "Free-form note on why the result is excluded")
	excludeCmd.Flags().StringVar(&excludeDBURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	rootCmd.AddCommand(excludeCmd)
}

func runExclude(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	if excludeFingerprint == "" && excludeURL == "" {
		return fmt.Errorf("either --fingerprint or --url must be provided")
	}

	database, err := openDatabase(ctx, excludeDBURL)
	if err != nil {
		return err
	}
	defer database.Close()

	id, err := database.AddExclusion(ctx, db.AddExclusionParams{
		SearchKey:   excludeSearchKey,
		Fingerprint: excludeFingerprint,
		URL:         excludeURL,
		Note:        excludeNote,
	})
	if err != nil {
		return err
	}

	scope := "globally"
	if excludeSearchKey != "" {
		scope = fmt.Sprintf("for search key %s", excludeSearchKey)
	}
	fmt.Fprintf(os.Stdout, "Added exclusion %s (%s)\n", id, scope)
	return nil
}

// openDatabase connects using the --db-url flag value, falling back to the
// DATABASE_URL environment variable.
func openDatabase(ctx context.Context, flagURL string) (*db.DB, error) {
	databaseURL := flagURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return database, nil
}
