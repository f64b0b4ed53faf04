package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/cerebro/internal/assistant"
)

var (
	askTier    string
	askProfile string
	askUserID  string
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the assistant a single question from the terminal",
	Long: `Runs the full assistant pipeline for one user message and prints the
answer followed by the detected intent, model and token usage.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		a, err := openApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		a.recorder.Start(context.Background())

		resp, err := a.pipeline.Run(ctx, assistant.Request{
			Messages:    []assistant.Turn{{Role: "user", Content: strings.Join(args, " ")}},
			UserProfile: askProfile,
			ModelTier:   askTier,
			UserID:      askUserID,
		})
		if err != nil {
			return fmt.Errorf("assistant failed (%s): %w", assistant.ErrorKind(err), err)
		}

		fmt.Println(resp.Content)
		fmt.Println()
		fmt.Printf("intent:     %s (confidence %.2f)\n", resp.Intent, resp.Confidence)
		fmt.Printf("keywords:   %s\n", strings.Join(resp.Keywords, ", "))
		fmt.Printf("model:      %s\n", resp.Model)
		fmt.Printf("tokens:     %d prompt, %d completion\n", resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

		keys := make([]string, 0, len(resp.Counters))
		for k := range resp.Counters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%s: %d\n", k, resp.Counters[k])
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askTier, "tier", "standard", "model tier (standard or gpt5)")
	askCmd.Flags().StringVar(&askProfile, "profile", "", "free-text professional profile")
	askCmd.Flags().StringVar(&askUserID, "user", "", "user id stored with the usage record")
	rootCmd.AddCommand(askCmd)
}
