package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ziadkadry99/cerebro/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize cerebro configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to pick the generation provider and tier models, and writes a .cerebro.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.RunWizard(cfgFile); err != nil {
			return err
		}
		fmt.Println("Run `cerebro seed <dir>` to load the reference catalog.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
