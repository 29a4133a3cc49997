package cmd

import (
	"cmacbench/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the reporting server",
	Long: `Start the HTTP server that exposes the dataset inventory as a read-only
JSON API and streams prep progress events over a websocket.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start(cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
