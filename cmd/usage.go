package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/cerebro/internal/db"
	"github.com/ziadkadry99/cerebro/internal/usage"
)

var (
	usageService string
	usageSince   time.Duration
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Summarize recorded token usage and estimated cost",
	Long:  `Aggregates usage records by service, category and model, with request counts, failures, tokens and estimated cost.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := db.Open(cfg.DatabasePath())
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		filter := usage.SummaryFilter{ServiceName: usageService}
		if usageSince > 0 {
			since := time.Now().Add(-usageSince)
			filter.Since = &since
		}

		rows, err := usage.NewStore(database).Summary(context.Background(), filter)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Println("No usage recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SERVICE\tCATEGORY\tMODEL\tREQUESTS\tFAILURES\tTOKENS\tAVG MS\tCOST (USD)")
		var totalCost float64
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%.0f\t$%.4f\n",
				r.ServiceName, r.Category, r.Model, r.Requests, r.Failures, r.TotalTokens, r.AvgResponseTimeMs, r.EstimatedCostUSD)
			totalCost += r.EstimatedCostUSD
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("\nEstimated total: $%.4f\n", totalCost)
		return nil
	},
}

func init() {
	usageCmd.Flags().StringVar(&usageService, "service", "", "only records of this service")
	usageCmd.Flags().DurationVar(&usageSince, "since", 0, "only records newer than this (e.g. 24h)")
	rootCmd.AddCommand(usageCmd)
}
