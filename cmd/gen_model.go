// backend/cmd/gen_model.go
package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/smartagri/cropadvisor/backend/config"
	"github.com/smartagri/cropadvisor/backend/ml"
)

func newGenModelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gen-model [path]",
		Short: "Write the sample random forest artifact",
		Long: "Write a tiny three-class random forest (Maize, Rice, Wheat) so the API can\n" +
			"serve real predictions before a trained model is registered. The path\n" +
			"defaults to model.fallback_path.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.AppConfig.Model.FallbackPath
			if len(args) == 1 {
				path = args[0]
			}
			if err := ml.WriteSampleModel(path); err != nil {
				return err
			}
			log.Infof("Wrote sample model to %s", path)
			return nil
		},
	}
}
