package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/worklens/worklens/internal/adapter/store"
	"github.com/worklens/worklens/internal/adapter/weighting"
	"github.com/worklens/worklens/internal/port"
	"github.com/worklens/worklens/internal/service"
	"github.com/worklens/worklens/pkg/config"
)

var (
	repoFlag    string
	dryRunFlag  bool
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "worklens",
	Short: "WorkLens - commit weighting and categorization engine",
	Long: `WorkLens enriches ingested git commits with a business-domain category
and a productivity weight (0-100), and keeps the two consistent as an
administrator re-weights categories.

Passes run in a fixed order: 'categorize' assigns categories from commit
subjects, 'reverts' links revert commits to their originals and zeroes both
weights, and 'sync-weights' propagates category weights onto commits that
were not reverted. Every pass is idempotent and supports --dry-run.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verboseFlag {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&repoFlag, "repo", "", "restrict the pass to one repository by name")
	rootCmd.PersistentFlags().BoolVar(&dryRunFlag, "dry-run", false, "report every decision without writing")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// engine bundles everything a CLI command needs for one invocation.
type engine struct {
	cfg        *config.Config
	store      *store.PostgresStore
	pipeline   *service.PipelineService
	categories *service.CategoryService
}

// newEngine loads configuration and connects to the store. A store that
// cannot be reached is fatal before any pass starts.
func newEngine() (*engine, error) {
	cfg := config.Load()

	pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to store: %w", err)
	}

	validator := weighting.NewValidator(cfg.PreventNumericCategories)
	pipeline := port.NewPipeline(
		weighting.NewExtractorPass(pgStore, validator),
		weighting.NewRevertPass(pgStore),
		weighting.NewSyncPass(pgStore),
	)

	return &engine{
		cfg:        cfg,
		store:      pgStore,
		pipeline:   service.NewPipelineService(pipeline),
		categories: service.NewCategoryService(pgStore),
	}, nil
}

func (e *engine) Close() {
	if err := e.store.Close(); err != nil {
		slog.Error("close store", "error", err)
	}
}

func passRequest() port.PassRequest {
	return port.PassRequest{
		DryRun:     dryRunFlag,
		RepoFilter: repoFlag,
	}
}
