package cmd

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <text>",
	Short: "Print the intent a message would be routed to",
	Long:  `Runs only the intent classifier and prints category, confidence and keywords as JSON. No model is called.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		classifier, err := loadClassifier(cfg)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(classifier.Classify(strings.Join(args, " ")))
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
