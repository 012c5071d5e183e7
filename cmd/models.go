// backend/cmd/models.go
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/smartagri/cropadvisor/backend/config"
	"github.com/smartagri/cropadvisor/backend/database"
	"github.com/smartagri/cropadvisor/backend/models"
	"github.com/smartagri/cropadvisor/backend/services"
)

func newModelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Inspect and update the model registry",
	}
	cmd.AddCommand(newModelsRegisterCmd(), newModelsListCmd())
	return cmd
}

func newModelsRegisterCmd() *cobra.Command {
	var (
		req      models.RegisterModelRequest
		version  string
		accuracy float64
		metadata string
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Append a model record, optionally making it the active one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if cmd.Flags().Changed("version") {
				req.Version = &version
			}
			if cmd.Flags().Changed("accuracy") {
				req.Accuracy = &accuracy
			}
			if metadata != "" {
				if err := json.Unmarshal([]byte(metadata), &req.Metadata); err != nil {
					return fmt.Errorf("--metadata must be a JSON object: %w", err)
				}
			}

			store, err := openStore(ctx, config.AppConfig)
			if err != nil {
				return err
			}
			defer database.CloseDB()

			rec, err := services.NewRegistry(store).Register(ctx, req)
			if err != nil {
				return err
			}
			log.Infof("Registered model %d %s (%s), active=%t", rec.ID, rec.Name, rec.Path, rec.Active)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "model name")
	cmd.Flags().StringVar(&req.Path, "path", "", "artifact path readable by the server")
	cmd.Flags().StringVar(&version, "version", "", "model version")
	cmd.Flags().Float64Var(&accuracy, "accuracy", 0, "validation accuracy")
	cmd.Flags().StringVar(&metadata, "metadata", "", "extra JSON object stored with the record")
	cmd.Flags().BoolVar(&req.Activate, "activate", false, "make this the active model")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("path")
	return cmd
}

func newModelsListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered models, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openStore(ctx, config.AppConfig)
			if err != nil {
				return err
			}
			defer database.CloseDB()

			recs, err := services.NewRegistry(store).List(ctx, limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tVERSION\tACCURACY\tACTIVE\tPATH")
			for _, r := range recs {
				acc := ""
				if r.Accuracy.Valid {
					acc = fmt.Sprintf("%.4f", r.Accuracy.Float64)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\t%s\n", r.ID, r.Name, r.Version.String, acc, r.Active, r.Path)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum records to show")
	return cmd
}
