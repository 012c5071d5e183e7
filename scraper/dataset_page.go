// backend/scraper/dataset_page.go
package scraper

import (
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FindCSVLinks returns the absolute URLs of every link on an HTML page
// whose path ends in .csv, in document order and without duplicates.
// Open-data portals usually publish sensor exports this way.
func FindCSVLinks(page io.Reader, pageURL string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL %s: %w", pageURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(page)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", pageURL, err)
	}

	seen := make(map[string]bool)
	var links []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		if !strings.EqualFold(path.Ext(abs.Path), ".csv") {
			return
		}
		s := abs.String()
		if !seen[s] {
			seen[s] = true
			links = append(links, s)
		}
	})
	return links, nil
}
