package cli

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/worklens/worklens/internal/port"
)

// printSummary renders one pass summary for a human operator.
func printSummary(s *port.Summary) {
	titleColor := color.New(color.FgHiCyan, color.Bold)
	successColor := color.New(color.FgHiGreen)
	warnColor := color.New(color.FgHiYellow)
	dimColor := color.New(color.FgHiBlack)

	mode := "live"
	if s.DryRun {
		mode = "dry-run"
	}
	scope := "all repositories"
	if s.RepoFilter != "" {
		scope = "repository " + s.RepoFilter
	}

	fmt.Println()
	titleColor.Printf("Pass %q (%s, %s)\n", s.Pass, mode, scope)
	dimColor.Printf("  run %s\n", s.RunID)

	verb := "mutated"
	if s.DryRun {
		verb = "would mutate"
	}
	successColor.Printf("  considered %d, %s %d, skipped %d\n", s.Considered, verb, s.Mutated, s.Skipped)
	if s.Rejected > 0 {
		warnColor.Printf("  rejected %d candidate(s)\n", s.Rejected)
	}
	if s.Warnings > 0 {
		warnColor.Printf("  %d warning(s)\n", s.Warnings)
	}

	for _, cs := range s.Categories {
		line := fmt.Sprintf("  %-24s commits=%d updated=%d", cs.Name, cs.Commits, cs.Updated)
		if cs.Weight > 0 || cs.SkippedReverted > 0 {
			line += fmt.Sprintf(" weight=%d reverted=%d", cs.Weight, cs.SkippedReverted)
		}
		fmt.Println(line)
	}
	for _, note := range s.Notes {
		dimColor.Printf("  note: %s\n", note)
	}
}

func printSummaries(summaries []*port.Summary) {
	for _, s := range summaries {
		printSummary(s)
	}
}
