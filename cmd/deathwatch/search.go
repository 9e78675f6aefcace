package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Data-Integrities/DeathWatch-sub001/internal/config"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/db"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/exclusions"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/normalize"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/observability"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/pipeline"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/providers"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/scoring"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run one obituary search end-to-end",
	Long: `Fan a search out across the configured backends, extract structured fields from the hits, and print the ranked matches.

Backends without credentials fall back to embedded sample hits, so the command works with no API keys set. When a database is reachable the run is recorded in the search history and stored exclusions are applied; otherwise the search runs standalone.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runSearchCmd,
}

var (
	searchConfigPath string
	searchLast       string
	searchFirst      string
	searchNickname   string
	searchMiddle     string
	searchCity       string
	searchState      string
	searchKeywords   string
	searchAge        int
	searchProviders  string
	searchMax        int
	searchAgeWindow  int
	searchJSON       bool
	searchUseBrowser bool
	searchVerbose    bool
	searchDBURL      string
)

func init() {
	// Config file flag (processed first)
	searchCmd.Flags().StringVar(&searchConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	searchCmd.Flags().StringVar(&searchLast, "last", "", "Last name of the person (required)")
	searchCmd.Flags().StringVar(&searchFirst, "first", "", "First name (required unless --nickname is given)")
	searchCmd.Flags().StringVar(&searchNickname, "nickname", "", "Nickname (required unless --first is given)")
	searchCmd.Flags().StringVar(&searchMiddle, "middle", "", "Middle name or initial")
	searchCmd.Flags().StringVar(&searchCity, "city", "", "City the person lived in")
	searchCmd.Flags().StringVar(&searchState, "state", "", "State name or 2-letter code")
	searchCmd.Flags().StringVar(&searchKeywords, "keywords", "", "Extra search terms, space separated")
	searchCmd.Flags().IntVar(&searchAge, "age", 0, "Approximate age at death")

	searchCmd.Flags().StringVar(&searchProviders, "providers", "", "Comma-separated backends to query (google,bing,legacy)")
	searchCmd.Flags().IntVar(&searchMax, "max", 0, "Maximum number of ranked results to return")
	searchCmd.Flags().IntVar(&searchAgeWindow, "age-window", 0, "Age-match tolerance in years")
	searchCmd.Flags().BoolVar(&searchUseBrowser, "use-browser", false, "Render native pages with a headless browser (requires Chrome)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Print the full result as JSON instead of a listing")
	searchCmd.Flags().BoolVarP(&searchVerbose, "verbose", "v", false, "Print detailed debug information")

	// Database URL for history and stored exclusions
	searchCmd.Flags().StringVar(&searchDBURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(searchCmd)
}

func runSearchCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config (env, optional file, defaults)
	cfg, err := config.Load(searchConfigPath)
	if err != nil {
		return err
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("providers") {
		cfg.Providers = splitProviders(searchProviders)
	}
	if cmd.Flags().Changed("max") {
		cfg.MaxResults = searchMax
	}
	if cmd.Flags().Changed("age-window") {
		cfg.AgeWindowYears = searchAgeWindow
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = searchUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = searchVerbose
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = searchDBURL
	}

	// Step 3: Validate required fields
	if searchLast == "" {
		return fmt.Errorf("--last is required")
	}
	if searchFirst == "" && searchNickname == "" {
		return fmt.Errorf("either --first or --nickname must be provided")
	}

	q := types.ObitQuery{
		LastName:   searchLast,
		FirstName:  searchFirst,
		Nickname:   searchNickname,
		MiddleName: searchMiddle,
		AgeApprox:  searchAge,
		City:       searchCity,
		State:      searchState,
		Keywords:   searchKeywords,
	}
	if err := q.Validate(); err != nil {
		return fmt.Errorf("invalid query: %w", err)
	}

	// Step 4: Assemble the backends
	backends, err := providers.FromConfig(ctx, cfg)
	if err != nil {
		return err
	}

	// Step 5: Open the database when one is configured. A connection failure
	// downgrades the run to standalone instead of failing it.
	var store exclusions.Store
	var database *db.DB
	if cfg.DatabaseURL != "" {
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: database unreachable, running without history or exclusions: %v\n", err)
			database = nil
		} else {
			defer database.Close()
			store = database
		}
	}

	searcher := pipeline.NewSearcher(pipeline.Options{
		Providers:  backends,
		Scorer:     scoring.NewScorer(cfg.Weights, cfg.AgeWindowYears),
		Exclusions: store,
		MaxResults: cfg.MaxResults,
		Verbose:    cfg.Verbose,
	})

	printer := observability.NewPrinter(os.Stdout)
	if cfg.Verbose && !searchJSON {
		nq := normalize.Query(q)
		printer.PrintQuery(&nq)
	}

	result, err := searcher.Run(ctx, q)
	if err != nil {
		return err
	}

	// Record the run as anonymous history
	if database != nil {
		first := q.FirstName
		if first == "" {
			first = q.Nickname
		}
		rec := db.SearchRecord{
			SearchKey:   result.SearchKey,
			LastName:    q.LastName,
			FirstName:   first,
			City:        q.City,
			State:       q.State,
			AgeYears:    q.AgeApprox,
			ResultCount: len(result.Results),
		}
		if _, err := database.RecordSearch(ctx, rec); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to record search history: %v\n", err)
		}
	}

	if searchJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(out))
		return nil
	}

	if cfg.Verbose {
		printer.PrintResults(result)
		return nil
	}

	printResultList(os.Stdout, result)
	return nil
}

// splitProviders parses a comma-separated provider list, lowercased and
// trimmed.
func splitProviders(s string) []string {
	var names []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			names = append(names, p)
		}
	}
	return names
}

// printResultList writes the compact non-verbose listing.
func printResultList(w io.Writer, result *types.SearchResult) {
	if result == nil || len(result.Results) == 0 {
		fmt.Fprintln(w, "No matches found.")
		return
	}

	fmt.Fprintf(w, "Search key: %s\n", result.SearchKey)
	for _, r := range result.Results {
		name := r.FullName
		if name == "" {
			name = "(name not recognized)"
		}
		fmt.Fprintf(w, "%3d. [%3d] %s\n", r.Rank, r.FinalScore, name)

		var details []string
		if r.AgeYears > 0 {
			details = append(details, fmt.Sprintf("age %d", r.AgeYears))
		}
		if r.DOD != "" {
			details = append(details, "died "+r.DOD)
		}
		if r.City != "" {
			details = append(details, r.City)
		}
		if r.State != "" {
			details = append(details, r.State)
		}
		if len(details) > 0 {
			fmt.Fprintf(w, "     %s\n", strings.Join(details, ", "))
		}
		fmt.Fprintf(w, "     %s  %s\n", r.Source, r.URL)
	}
}
