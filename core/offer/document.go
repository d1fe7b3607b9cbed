// ABOUTME: Document accessor wrapping a lazily-fetched offer page
// ABOUTME: Fetches the page and the offer image at most once per instance

package offer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"otodom-scraper/core/domain"
	cerrors "otodom-scraper/core/errors"
	"otodom-scraper/core/interfaces"
)

// imageVariantSeparator splits a thumbnail image URL from its size
// variant suffix; everything before it plus imageCanonicalSuffix is the
// full-size image URL.
const (
	imageVariantSeparator = "/image;"
	imageCanonicalSuffix  = "/image"
)

// Document wraps one offer page. The page document and the offer image
// bytes are fetched lazily, at most once per Document instance.
type Document struct {
	url  string
	deps interfaces.Dependencies

	doc *goquery.Document

	imageURL   string
	imageBytes []byte
}

// NewDocument creates an accessor for the offer page at the given URL.
// No network call happens until the first Text or ImageBytes call.
func NewDocument(url string, deps interfaces.Dependencies) *Document {
	return &Document{url: url, deps: deps}
}

// URL returns the offer page URL the accessor points at.
func (d *Document) URL() string {
	return d.url
}

// Text executes the locator against the page and returns the first
// match's trimmed text content. The second return value is false when
// the locator matched nothing; missing or malformed markup for a single
// field is expected and never an error. The returned error is only ever
// a transport failure from the lazy page fetch.
func (d *Document) Text(ctx context.Context, loc domain.Locator) (string, bool, error) {
	doc, err := d.page(ctx)
	if err != nil {
		return "", false, err
	}

	selector := fmt.Sprintf(`%s[%s="%s"]`, loc.Tag, loc.Attr, loc.Value)
	selection := doc.Find(selector).First()
	if selection.Length() == 0 {
		d.deps.Logger.Debug("Locator matched nothing on offer page", map[string]interface{}{
			"url":      d.url,
			"selector": selector,
		})
		return "", false, nil
	}

	return strings.TrimSpace(selection.Text()), true, nil
}

// ImageBytes locates the primary offer image, derives its canonical
// (non-thumbnail) URL and fetches the raw bytes. Unlike field
// extraction, a page without an image element is an extraction failure
// and is returned as an error. The fetch happens at most once; repeated
// calls return the memoized bytes.
func (d *Document) ImageBytes(ctx context.Context) (string, []byte, error) {
	if d.imageBytes != nil {
		return d.imageURL, d.imageBytes, nil
	}

	doc, err := d.page(ctx)
	if err != nil {
		return "", nil, err
	}

	src, ok := doc.Find("picture img").First().Attr("src")
	if !ok || src == "" {
		return "", nil, &cerrors.ExtractionError{
			URL:     d.url,
			Message: "no image element found",
		}
	}

	imageURL := canonicalImageURL(src)
	data, err := d.fetchBytes(ctx, imageURL)
	if err != nil {
		return "", nil, err
	}

	d.imageURL = imageURL
	d.imageBytes = data
	return d.imageURL, d.imageBytes, nil
}

// page fetches and parses the offer page on first access.
func (d *Document) page(ctx context.Context) (*goquery.Document, error) {
	if d.doc != nil {
		return d.doc, nil
	}

	resp, err := d.deps.HTTPClient.Get(ctx, d.url)
	if err != nil {
		return nil, &cerrors.TransportError{URL: d.url, Message: err.Error()}
	}
	body := resp.Body()
	defer body.Close()

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, &cerrors.TransportError{
			URL:        d.url,
			StatusCode: resp.StatusCode(),
			Message:    "unexpected status fetching offer page",
		}
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, cerrors.WrapError(err, "failed to parse offer page")
	}

	d.doc = doc
	return d.doc, nil
}

// fetchBytes downloads raw bytes from the given URL.
func (d *Document) fetchBytes(ctx context.Context, url string) ([]byte, error) {
	resp, err := d.deps.HTTPClient.Get(ctx, url)
	if err != nil {
		return nil, &cerrors.TransportError{URL: url, Message: err.Error()}
	}
	body := resp.Body()
	defer body.Close()

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, &cerrors.TransportError{
			URL:        url,
			StatusCode: resp.StatusCode(),
			Message:    "unexpected status fetching image",
		}
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, cerrors.WrapError(err, "failed to read image bytes")
	}
	return data, nil
}

// canonicalImageURL strips the size variant suffix from a thumbnail
// image URL, yielding the full-size image URL.
func canonicalImageURL(src string) string {
	if idx := strings.Index(src, imageVariantSeparator); idx >= 0 {
		return src[:idx] + imageCanonicalSuffix
	}
	return src
}
