// backend/cmd/import_csv.go
package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/smartagri/cropadvisor/backend/config"
	"github.com/smartagri/cropadvisor/backend/database"
	"github.com/smartagri/cropadvisor/backend/scraper"
)

func newImportCSVCmd() *cobra.Command {
	var (
		batchSize  int
		farmID     int
		downloadTo string
	)
	cmd := &cobra.Command{
		Use:   "import-csv <path|url>",
		Short: "Bulk load readings from a local CSV file or a URL",
		Long: "Bulk load readings from a CSV file. A URL may point at the CSV itself or at an\n" +
			"HTML dataset page, in which case the first linked .csv is downloaded.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.AppConfig

			src, err := openSource(cmd, args[0], downloadTo)
			if err != nil {
				return err
			}
			defer src.Close()

			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer database.CloseDB()

			var farm *int
			if cmd.Flags().Changed("farm-id") {
				farm = &farmID
			}
			resp, err := newIngestService(store, cfg).ImportCSV(ctx, src, batchSize, farm)
			if err != nil {
				return err
			}
			log.WithFields(log.Fields{
				"total":   resp.TotalRows,
				"ok":      resp.SuccessfulRows,
				"failed":  resp.FailedRows,
				"batches": resp.Batches,
			}).Infof("Imported %s in %dms", args[0], resp.ProcessingTimeMs)
			for _, be := range resp.Errors {
				log.Warnf("batch %d (%d rows) failed: %s", be.BatchIndex, be.Rows, be.Error)
			}
			if resp.FailedRows > 0 {
				return errors.Errorf("%d of %d rows failed", resp.FailedRows, resp.TotalRows)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "rows per transaction (defaults to ingest.batch_size)")
	cmd.Flags().IntVar(&farmID, "farm-id", 0, "assign every row to this farm")
	cmd.Flags().StringVar(&downloadTo, "download-to", "", "keep a local copy of a remote CSV at this path")
	return cmd
}

// openSource opens a local file or a remote CSV. With downloadTo set, a
// remote CSV is saved there first and read back from disk.
func openSource(cmd *cobra.Command, src, downloadTo string) (io.ReadCloser, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		if downloadTo == "" {
			return scraper.OpenCSV(cmd.Context(), src)
		}
		if err := scraper.DownloadFile(cmd.Context(), src, downloadTo); err != nil {
			return nil, err
		}
		src = downloadTo
	}
	f, err := os.Open(src)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", src)
	}
	return f, nil
}
