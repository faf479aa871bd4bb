package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"boty-storefront/internal/config"
	"boty-storefront/internal/logger"
)

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "server",
		Short:         "Boty storefront API and admin back-office",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	root.AddCommand(serveCmd(), seedAdminCmd())
	return root
}

// setupLogger installs the process logger from cfg, or the pretty info
// logger when cfg is nil.
func setupLogger(cfg *config.Config) {
	level, format := "info", "pretty"
	if cfg != nil {
		level, format = cfg.LogLevel, cfg.LogFormat
	}
	slog.SetDefault(logger.New(os.Stdout, level, format))
}
