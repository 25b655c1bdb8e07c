package cmd

import (
	"fmt"
	"log/slog"

	"github.com/takelab/takecap/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the remote control server",
	Long: `Start a small JSON API server to control recording from another
device on the same network, e.g. a phone on stage while the workstation sits
by the audio interface.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")

		srv := server.New(cfg, port)

		slog.Info("takecap remote control starting", "port", port, "config", cfgFile)

		// Start server (this blocks)
		if err := srv.Start(); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().String("port", "8080", "port for the remote control server")
}
