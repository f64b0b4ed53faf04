package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/cerebro/internal/catalog"
	"github.com/ziadkadry99/cerebro/internal/progress"
)

var seedIndex bool

var seedCmd = &cobra.Command{
	Use:   "seed <dir>",
	Short: "Load the reference catalog from YAML seed files",
	Long: `Reads every .yml/.yaml file under dir and upserts its courses, equipment,
videos, scientific articles and approved content examples. Seeding is
idempotent. With --index the articles are also embedded into the semantic
article index (requires embedding_model in the config).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := context.Background()

		a, err := openApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		if seedIndex && a.index == nil {
			return fmt.Errorf("--index needs embedding_model set in %s and OPENAI_API_KEY", cfgFile)
		}

		result, err := catalog.Seed(ctx, a.catalog, args[0], progress.NewReporter("Seeding catalog"))
		if err != nil {
			return fmt.Errorf("seeding catalog: %w", err)
		}

		fmt.Printf("Seeded %d file(s) from %s\n", result.Files, args[0])
		for _, k := range catalog.Kinds {
			fmt.Printf("  %-18s %d\n", k, result.Counts[k])
		}

		if !seedIndex {
			return nil
		}
		if err := a.index.Index(ctx, result.Articles); err != nil {
			return fmt.Errorf("indexing articles: %w", err)
		}
		if err := a.vectors.Persist(ctx, cfg.VectorDir()); err != nil {
			return fmt.Errorf("saving article index: %w", err)
		}
		logger.Info("article index saved", zap.String("dir", cfg.VectorDir()), zap.Int("articles", a.index.Count()))
		fmt.Printf("Indexed %d article(s)\n", a.index.Count())
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedIndex, "index", false, "also build the semantic article index")
	rootCmd.AddCommand(seedCmd)
}
