package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Data-Integrities/DeathWatch-sub001/internal/extract"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/fetch"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/observability"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/types"
)

var (
	pageUseBrowser bool
	pageVerbose    bool
	pageTimeout    time.Duration
	pageHeaders    []string
)

var pageCmd = &cobra.Command{
	Use:   "page <url>",
	Short: "Fetch one obituary page and extract its fields",
	Long: `Fetch a single obituary page, strip boilerplate using the per-site selectors, and run the field heuristics over the remaining text. Prints the recognized fields followed by the cleaned page text.

Use --browser for pages that only render their content with JavaScript (requires Chrome).`,
	Args: cobra.ExactArgs(1),
	RunE: runPage,
}

func init() {
	pageCmd.Flags().BoolVar(&pageUseBrowser, "browser", false, "Render the page with a headless browser (requires Chrome)")
	pageCmd.Flags().BoolVarP(&pageVerbose, "verbose", "v", false, "Print detailed debug information")
	pageCmd.Flags().DurationVar(&pageTimeout, "timeout", fetch.DefaultTimeout, "Fetch or render deadline")
	pageCmd.Flags().StringArrayVar(&pageHeaders, "header", nil, "Extra request header as 'Name: value' (repeatable)")
	rootCmd.AddCommand(pageCmd)
}

func runPage(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	pageURL := args[0]

	headers, err := parseHeaderFlags(pageHeaders)
	if err != nil {
		return err
	}

	site := fetch.DetectSite(pageURL)
	if pageVerbose {
		fmt.Fprintf(os.Stdout, "Detected site: %s\n", site)
	}

	var html string
	if pageUseBrowser {
		rendered, err := fetch.WithBrowser(ctx, pageURL, pageTimeout, pageVerbose)
		if err != nil {
			return fmt.Errorf("failed to render page: %w", err)
		}
		html = rendered
	} else {
		result, err := fetch.URL(ctx, pageURL, &fetch.Options{
			Timeout: pageTimeout,
			Headers: headers,
		})
		if err != nil {
			return fmt.Errorf("failed to fetch page: %w", err)
		}
		if pageVerbose {
			fmt.Fprintf(os.Stdout, "Fetched %d bytes (%s, HTTP %d)\n",
				len(result.HTML), result.ContentType, result.StatusCode)
		}
		html = result.HTML
	}

	text, err := fetch.ExtractMainText(html, fetch.SiteContentSelectors(site), fetch.SiteNoiseSelectors(site)...)
	if err != nil {
		return fmt.Errorf("failed to extract page text: %w", err)
	}
	if !pageUseBrowser && fetch.ShouldUseBrowser(text) {
		fmt.Fprintln(os.Stderr, "Warning: extracted text is very short; the page may need --browser to render")
	}

	c := candidateFromPage(pageURL, fetch.Title(html), text, site)
	printer := observability.NewPrinter(os.Stdout)
	printer.PrintExtraction(c)

	if text != "" {
		fmt.Fprintln(os.Stdout)
		fmt.Fprintln(os.Stdout, text)
	}
	return nil
}

// parseHeaderFlags turns repeated --header flags into a header map.
func parseHeaderFlags(flags []string) (map[string]string, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(flags))
	for _, f := range flags {
		name, value, ok := strings.Cut(f, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid header %q, want 'Name: value'", f)
		}
		headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return headers, nil
}

// candidateFromPage runs the hit heuristics over a whole page instead of a
// search snippet.
func candidateFromPage(pageURL, title, text string, site fetch.Site) *types.Candidate {
	c := &types.Candidate{
		Source: string(site),
		URL:    pageURL,
	}

	if name, ok := extract.Name(title, text, pageURL); ok {
		c.FirstName = name.First
		c.MiddleName = name.Middle
		c.LastName = name.Last
		c.FullName = name.FullName()
	}
	if age, ok := extract.Age(text, title); ok {
		c.AgeYears = age
	}
	if dod, ok := extract.DeathDate(text, title); ok {
		c.DOD = dod
	}
	c.DateVisitation, c.DateFuneral = extract.ServiceDates(text, c.DOD)

	if city, state, ok := extract.Location(text); ok {
		c.City, c.State = city, state
	} else if city, state, ok := extract.Location(title); ok {
		c.City, c.State = city, state
	}

	return c
}
