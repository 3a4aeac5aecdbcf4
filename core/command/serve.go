package command

import (
	"taskcal/core/server"

	"github.com/spf13/cobra"
)

var serveWithoutWorker bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the background sync worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Run(cmd.Context(), !serveWithoutWorker)
	},
}

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run only the background sync worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.RunWorker(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveWithoutWorker, "no-worker", false, "serve HTTP only, without processing background jobs")
}
