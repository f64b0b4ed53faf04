package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/cerebro/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long: `Starts a Model Context Protocol (MCP) server on stdio, exposing intent
classification, the assistant and catalog search as tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := openApp(context.Background(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		a.recorder.Start(context.Background())

		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "cerebro MCP server started on stdio (database=%s)\n", a.db.Path())

		srv := mcpserver.NewServer(a.pipeline, a.catalog)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
