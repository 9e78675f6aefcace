package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	exclusionsSearchKey string
	exclusionsJSON      bool
	exclusionsDBURL     string
)

var exclusionsCmd = &cobra.Command{
	Use:   "exclusions",
	Short: "List stored exclusion rows",
	Long:  `List exclusion rows. With --search-key only the rows that apply to that search are shown (global rows plus rows scoped to the key); without it every row is shown.`,
	RunE:  runExclusions,
}

func init() {
	exclusionsCmd.Flags().StringVar(&exclusionsSearchKey, "search-key", "", "Show only rows applying to this search key")
	exclusionsCmd.Flags().BoolVar(&exclusionsJSON, "json", false, "Print the rows as JSON")
	exclusionsCmd.Flags().StringVar(&exclusionsDBURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	rootCmd.AddCommand(exclusionsCmd)
}

func runExclusions(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	database, err := openDatabase(ctx, exclusionsDBURL)
	if err != nil {
		return err
	}
	defer database.Close()

	list, err := database.ListExclusions(ctx, exclusionsSearchKey)
	if err != nil {
		return err
	}

	if exclusionsJSON {
		out, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal exclusions: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(out))
		return nil
	}

	if len(list) == 0 {
		fmt.Fprintln(os.Stdout, "No exclusions found.")
		return nil
	}

	for _, e := range list {
		scope := "global"
		if e.SearchKey != "" {
			scope = e.SearchKey
		}
		target := e.Fingerprint
		if target == "" {
			target = e.URLNormalized
		}
		fmt.Fprintf(os.Stdout, "%s  %s  %-16s  %s\n", e.ID, e.CreatedAt.Format("2006-01-02"), scope, target)
		if e.Note != "" {
			fmt.Fprintf(os.Stdout, "    note: %s\n", e.Note)
		}
	}
	return nil
}
