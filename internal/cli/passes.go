package cli

import (
	"github.com/spf13/cobra"
)

var forceFlag bool

var categorizeCmd = &cobra.Command{
	Use:   "categorize",
	Short: "Assign business-domain categories from commit subjects",
	Long: `Derives a category for every commit that does not have one yet, using
three heuristics in order: "PREFIX | rest", "[PREFIX] rest", and a leading
all-caps token. Candidates are validated to reject version numbers, issue
numbers and other numeric noise. With --force, already-categorized commits
are redone as well.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		req := passRequest()
		req.Force = forceFlag
		summary, err := e.pipeline.RunPass(cmd.Context(), "categorize", req)
		if err != nil {
			return err
		}
		printSummary(summary)
		return nil
	},
}

var revertsCmd = &cobra.Command{
	Use:   "reverts",
	Short: "Zero the weight of revert commits and their originals",
	Long: `Scans commit subjects for whole-word "Revert" (unreverts excluded),
extracts (!NNN) / (#NNN) cross-references, links them to commits in the same
repository by subject substring, and zeroes both sides. References that
match nothing are warned about and skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		summary, err := e.pipeline.RunPass(cmd.Context(), "reverts", passRequest())
		if err != nil {
			return err
		}
		printSummary(summary)
		return nil
	},
}

var syncWeightsCmd = &cobra.Command{
	Use:   "sync-weights",
	Short: "Propagate category weights onto non-reverted commits",
	Long: `For every category, bulk-updates commits carrying it to the category's
administrator-set weight. Commits at weight zero were reverted and are never
raised back up. Run 'reverts' before this pass.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		summary, err := e.pipeline.RunPass(cmd.Context(), "sync-weights", passRequest())
		if err != nil {
			return err
		}
		printSummary(summary)
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: categorize, reverts, sync-weights",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		summaries, err := e.pipeline.RunAll(cmd.Context(), passRequest())
		printSummaries(summaries)
		return err
	},
}

func init() {
	categorizeCmd.Flags().BoolVar(&forceFlag, "force", false, "recategorize commits that already have a category")

	rootCmd.AddCommand(categorizeCmd)
	rootCmd.AddCommand(revertsCmd)
	rootCmd.AddCommand(syncWeightsCmd)
	rootCmd.AddCommand(runCmd)
}
