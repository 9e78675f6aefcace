// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/Data-Integrities/DeathWatch-sub001/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintQuery outputs a human-readable summary of the normalized query.
func (p *Printer) PrintQuery(nq *types.NormalizedQuery) {
	if nq == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Last name:  %s\n", nq.NormalizedLastName))
	sb.WriteString(fmt.Sprintf("First name: %s\n", nq.NormalizedFirstName))

	if len(nq.FirstNameVariants) > 0 {
		variants := strings.Join(nq.FirstNameVariants, ", ")
		if len(variants) > 44 {
			variants = variants[:41] + "..."
		}
		sb.WriteString(fmt.Sprintf("Variants:   %s\n", variants))
	}

	if nq.NormalizedCity != "" || nq.NormalizedState != "" {
		location := nq.NormalizedCity
		if nq.NormalizedState != "" {
			if location != "" {
				location += ", "
			}
			location += nq.NormalizedState
		}
		sb.WriteString(fmt.Sprintf("Location:   %s\n", location))
	}

	if nq.AgeApprox > 0 {
		sb.WriteString(fmt.Sprintf("Age:        ~%d\n", nq.AgeApprox))
	}

	sb.WriteString(fmt.Sprintf("Search key: %s", nq.SearchKey))

	p.printBox("NORMALIZED QUERY", sb.String())
}

// PrintResults outputs the top ranked results with scores and match reasons.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintResults(result *types.SearchResult) {
	if result == nil || len(result.Results) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO MATCHES FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total results: %d\n\n", len(result.Results)))

	count := min(len(result.Results), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := result.Results[i]

		name := r.FullName
		if name == "" {
			name = "(name not recognized)"
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", r.Rank, name))
		sb.WriteString(fmt.Sprintf("    Score: %d\n", r.FinalScore))

		details := []string{}
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
			sb.WriteString(fmt.Sprintf("    %s\n", strings.Join(details, ", ")))
		}

		if len(r.Reasons) > 0 {
			reasons := strings.Join(r.Reasons, ", ")
			if len(reasons) > 44 {
				reasons = reasons[:41] + "..."
			}
			sb.WriteString(fmt.Sprintf("    [%s]\n", reasons))
		}

		source := r.Source
		if n := len(r.AlsoFoundAt); n > 0 {
			source = fmt.Sprintf("%s (+%d more sources)", source, n)
		}
		sb.WriteString(fmt.Sprintf("    via %s\n", source))

		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(result.Results) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more results", len(result.Results)-maxItemsToShow))
	}

	p.printBox("RANKED RESULTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintExtraction outputs the fields the heuristics recovered from one
// obituary page.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintExtraction(c *types.Candidate) {
	if c == nil {
		return
	}

	rows := []struct {
		label string
		value string
	}{
		{"Name:      ", c.FullName},
		{"Age:       ", ageString(c.AgeYears)},
		{"Died:      ", c.DOD},
		{"Visitation:", c.DateVisitation},
		{"Funeral:   ", c.DateFuneral},
		{"City:      ", c.City},
		{"State:     ", c.State},
	}

	var sb strings.Builder
	for _, row := range rows {
		if row.value == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", row.label, row.value))
	}

	if sb.Len() == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO FIELDS RECOGNIZED")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	p.printBox("EXTRACTED FIELDS", strings.TrimSuffix(sb.String(), "\n"))
}

func ageString(age int) string {
	if age <= 0 {
		return ""
	}
	return fmt.Sprintf("%d", age)
}
