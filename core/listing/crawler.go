// ABOUTME: Listing-index crawler discovering offer URL extensions
// ABOUTME: Walks paginated listing pages with colly and collects offer links

package listing

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly"

	cerrors "otodom-scraper/core/errors"
	"otodom-scraper/core/interfaces"
)

const (
	crawlerUserAgent = "OtodomScraper/1.0"

	// offerLinkSelector matches the anchor of each offer card on a
	// listing page.
	offerLinkSelector = `a[data-cy="listing-item-link"]`
)

// Crawler discovers offer URL extensions from the site's paginated
// listing pages. Pages are visited sequentially; crawling stops early
// when a page yields no new offers.
type Crawler struct {
	logger  interfaces.Logger
	timeout time.Duration
}

// NewCrawler creates a listing crawler.
func NewCrawler(logger interfaces.Logger) *Crawler {
	return &Crawler{
		logger:  logger,
		timeout: 10 * time.Second,
	}
}

// Collect visits up to maxPages pages of the given listing URL and
// returns the unique offer URL extensions found, in discovery order.
func (c *Crawler) Collect(listingURL string, maxPages int) ([]string, error) {
	collector := colly.NewCollector(
		colly.UserAgent(crawlerUserAgent),
		colly.Async(false),
		colly.AllowURLRevisit(),
	)
	collector.SetRequestTimeout(c.timeout)

	seen := make(map[string]bool)
	var extensions []string
	var visitErr error

	collector.OnHTML(offerLinkSelector, func(e *colly.HTMLElement) {
		ext := normalizeExtension(e.Attr("href"))
		if ext == "" || seen[ext] {
			return
		}
		seen[ext] = true
		extensions = append(extensions, ext)
	})

	collector.OnError(func(r *colly.Response, err error) {
		visitErr = err
	})

	for page := 1; page <= maxPages; page++ {
		before := len(extensions)
		target, err := pageURL(listingURL, page)
		if err != nil {
			return extensions, cerrors.WrapError(err, "invalid listing URL")
		}

		if err := collector.Visit(target); err != nil {
			return extensions, &cerrors.TransportError{URL: target, Message: err.Error()}
		}
		if visitErr != nil {
			return extensions, &cerrors.TransportError{URL: target, Message: visitErr.Error()}
		}

		c.logger.Info("Visited listing page", map[string]interface{}{
			"url":    target,
			"page":   page,
			"offers": len(extensions) - before,
		})

		if len(extensions) == before {
			// Ran past the last page.
			break
		}
	}

	return extensions, nil
}

// pageURL renders the listing URL for the given page number; page 1 is
// the listing URL itself.
func pageURL(listingURL string, page int) (string, error) {
	if page <= 1 {
		return listingURL, nil
	}

	parsed, err := url.Parse(listingURL)
	if err != nil {
		return "", err
	}
	query := parsed.Query()
	query.Set("page", strconv.Itoa(page))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

// normalizeExtension reduces an offer link href to the URL extension
// serving as the listing identity.
func normalizeExtension(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		parsed, err := url.Parse(href)
		if err != nil {
			return ""
		}
		return parsed.Path
	}

	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return href
}
