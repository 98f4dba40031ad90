package cli

import (
	"fmt"
	"os/user"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Inspect and administer categories",
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all categories with their weight and usage count",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		cats, err := e.categories.List(cmd.Context())
		if err != nil {
			return err
		}

		titleColor := color.New(color.FgHiCyan, color.Bold)
		dimColor := color.New(color.FgHiBlack)

		titleColor.Printf("%-24s %8s %12s\n", "CATEGORY", "WEIGHT", "USAGE")
		for _, c := range cats {
			fmt.Printf("%-24s %8d %12d\n", c.Name, c.Weight, c.UsageCount)
		}
		dimColor.Printf("%d categories\n", len(cats))
		return nil
	},
}

var categoriesSetWeightCmd = &cobra.Command{
	Use:   "set-weight NAME WEIGHT",
	Short: "Set a category's weight (0-100)",
	Long: `Sets the administrator weight for one category. Commits pick the new
weight up on the next sync-weights pass; reverted commits stay at zero.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		weight, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("weight must be an integer: %q", args[1])
		}

		e, err := newEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		cat, err := e.categories.SetWeight(cmd.Context(), cliActor(), args[0], weight)
		if err != nil {
			return err
		}

		color.New(color.FgHiGreen).Printf("category %s weight set to %d\n", cat.Name, cat.Weight)
		return nil
	},
}

func cliActor() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return "cli:" + u.Username
	}
	return "cli"
}

func init() {
	categoriesCmd.AddCommand(categoriesListCmd)
	categoriesCmd.AddCommand(categoriesSetWeightCmd)
	rootCmd.AddCommand(categoriesCmd)
}
