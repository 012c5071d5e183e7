// backend/cmd/root.go
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/smartagri/cropadvisor/backend/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "cropadvisor",
	Short:         "Sensor ingestion and crop recommendation backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"path to config.yaml (searched in the usual places when empty)")
	rootCmd.AddCommand(newServeCmd(), newSimulateCmd(), newGenModelCmd(), newImportCSVCmd(), newModelsCmd())
}

// initializeConfig loads AppConfig and sets up global logging from it.
func initializeConfig() error {
	if err := config.LoadConfig(configPath); err != nil {
		return errors.Wrap(err, "error loading configuration")
	}
	level, err := log.ParseLevel(config.AppConfig.Log.Level)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error(fmt.Sprintf("%+v", err))
		os.Exit(1)
	}
}
