// backend/cmd/simulate.go
package cmd

import (
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/smartagri/cropadvisor/backend/config"
	"github.com/smartagri/cropadvisor/backend/simulator"
)

func newSimulateCmd() *cobra.Command {
	var (
		apiURL string
		count  int
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Post random sensor readings to a running API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.AppConfig.Simulator
			if cmd.Flags().Changed("api-url") {
				cfg.APIURL = apiURL
			}
			if cmd.Flags().Changed("count") {
				cfg.Count = count
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			res, err := simulator.New(cfg).Run(ctx)
			log.Infof("Simulator: sent %d, failed %d", res.Sent, res.Failed)
			if err != nil && ctx.Err() != nil {
				// interrupted
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&apiURL, "api-url", "", "ingest endpoint (overrides simulator.api_url)")
	cmd.Flags().IntVar(&count, "count", 0, "readings to send, 0 runs until interrupted")
	return cmd
}
