// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/digiflydk/studio-sub001/internal/config"
	"github.com/digiflydk/studio-sub001/internal/logger"
)

var (
	configPath string // directory holding main.toml
	cfg        config.Config

	rootCmd = &cobra.Command{
		Use:   "studio",
		Short: "Studio serves the marketing site and its CMS",
		Long: `Studio serves the public marketing site, the CMS editor and its JSON API
over one document store. Design settings saved in the CMS reach open
pages live over a websocket.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "directory holding main.toml")
}

// loadConfig reads the configuration and initializes the logger.
func loadConfig() error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err
	}

	return logger.Init(cfg.Log)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
