// backend/scraper/csv_downloader.go
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

var httpClient = &http.Client{
	Timeout: 30 * time.Second,
}

// DownloadFile downloads url and saves it to localSavePath, creating the
// parent directory.
func DownloadFile(ctx context.Context, url string, localSavePath string) error {
	log.Infof("Scraper: downloading %s to %s", url, localSavePath)

	body, _, err := fetch(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()

	dir := filepath.Dir(localSavePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	outFile, err := os.Create(localSavePath)
	if err != nil {
		return fmt.Errorf("failed to create local file %s: %w", localSavePath, err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, body); err != nil {
		return fmt.Errorf("failed to copy downloaded content to %s: %w", localSavePath, err)
	}

	log.Infof("Scraper: downloaded %s to %s", url, localSavePath)
	return nil
}

// OpenCSV returns a reader over the CSV at url. When url serves an HTML
// page instead, the first CSV linked from it is fetched.
func OpenCSV(ctx context.Context, url string) (io.ReadCloser, error) {
	body, contentType, err := fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(contentType, "text/html") {
		return body, nil
	}
	defer body.Close()

	links, err := FindCSVLinks(body, url)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, fmt.Errorf("no CSV link found on %s", url)
	}
	log.Infof("Scraper: %s is a page, following CSV link %s", url, links[0])
	csvBody, _, err := fetch(ctx, links[0])
	return csvBody, err
}

func fetch(ctx context.Context, url string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to make GET request to %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, "", fmt.Errorf("failed to download file from %s: received status code %d", url, resp.StatusCode)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}
