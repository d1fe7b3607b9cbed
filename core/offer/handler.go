// ABOUTME: Offer page handler scrapes one listing and persists it exactly once
// ABOUTME: Capture state is derived from the sinks, never from an in-memory ledger

package offer

import (
	"context"

	"otodom-scraper/core/convert"
	"otodom-scraper/core/domain"
	cerrors "otodom-scraper/core/errors"
	"otodom-scraper/core/interfaces"
)

// Handler scrapes one offer page, identified by its URL extension, and
// persists the tabular and image data through the configured sinks.
// Tabular and image capture are tracked independently, so a crash
// between the two leaves each kind in a well-defined, resumable state.
type Handler struct {
	baseURL      string
	urlExtension string
	deps         interfaces.Dependencies

	doc *Document

	tabularCaptured bool
	imageCaptured   bool

	rawTabular domain.RawRecord
	dataImage  map[string][]byte
	converter  *convert.Converter

	// persisted holds the typed record loaded back from the tabular
	// sink when the listing was captured by an earlier run.
	persisted domain.TypedRecord
}

// NewHandler creates a handler for one listing and derives its initial
// capture state by probing the persistence sinks. A corrupt tabular
// artifact is removed and the listing reported as not captured, so a
// retry is unambiguous.
func NewHandler(ctx context.Context, baseURL, urlExtension string, deps interfaces.Dependencies) (*Handler, error) {
	h := &Handler{
		baseURL:      baseURL,
		urlExtension: urlExtension,
		deps:         deps,
		dataImage:    make(map[string][]byte),
	}
	h.doc = NewDocument(h.FullURL(), deps)

	record, err := deps.Tabular.Load(ctx, urlExtension)
	switch {
	case err == nil:
		h.tabularCaptured = true
		h.persisted = record
	case cerrors.IsNotFound(err):
		// nothing committed yet
	default:
		deps.Logger.Warn("Corrupt tabular artifact, removing and assuming not captured", map[string]interface{}{
			"url_extension": urlExtension,
			"error":         err.Error(),
		})
		if err := deps.Tabular.Remove(ctx, urlExtension); err != nil {
			return nil, cerrors.WrapError(err, "failed to remove corrupt tabular artifact")
		}
	}

	exists, err := deps.Images.Exists(ctx, urlExtension)
	if err != nil {
		return nil, cerrors.WrapError(err, "failed to probe image sink")
	}
	h.imageCaptured = exists

	deps.Logger.Info("Initialized offer page handler", map[string]interface{}{
		"url":              h.FullURL(),
		"tabular_captured": h.tabularCaptured,
		"image_captured":   h.imageCaptured,
	})
	return h, nil
}

// FullURL returns the absolute offer page URL.
func (h *Handler) FullURL() string {
	return h.baseURL + h.urlExtension
}

// URLExtension returns the listing identity.
func (h *Handler) URLExtension() string {
	return h.urlExtension
}

// TabularCaptured reports whether the tabular data is persisted.
func (h *Handler) TabularCaptured() bool {
	return h.tabularCaptured
}

// ImageCaptured reports whether the image data is persisted.
func (h *Handler) ImageCaptured() bool {
	return h.imageCaptured
}

// Captured reports whether both data kinds are persisted.
func (h *Handler) Captured() bool {
	return h.tabularCaptured && h.imageCaptured
}

// ScrapeTabular extracts every schema field from the offer page into
// the raw record. Returns false when the listing is already captured
// and skipIfCaptured is set; true when extraction ran. A missing field
// on the page is recorded as absent, never an error; only transport
// failures propagate.
func (h *Handler) ScrapeTabular(ctx context.Context, skipIfCaptured bool) (bool, error) {
	log := h.deps.Logger
	log.Info("Started scraping tabular data from offer page", map[string]interface{}{"url": h.FullURL()})

	if h.tabularCaptured && skipIfCaptured {
		log.Info("Scraping tabular data aborted, listing already captured", map[string]interface{}{
			"url": h.FullURL(),
		})
		return false, nil
	}

	raw := make(domain.RawRecord)
	set := func(key string, loc domain.Locator) error {
		value, ok, err := h.doc.Text(ctx, loc)
		if err != nil {
			return err
		}
		if ok {
			raw[key] = value
		}
		return nil
	}

	if err := set(domain.KeyPrice, domain.LocatorPrice); err != nil {
		return false, err
	}
	if err := set(domain.KeyAddress, domain.LocatorAddress); err != nil {
		return false, err
	}
	if err := set(domain.KeyDescription, domain.LocatorDescription); err != nil {
		return false, err
	}
	raw[domain.KeyLinkID] = h.urlExtension

	for _, field := range domain.UniformFields() {
		loc, ok := field.Locator()
		if !ok {
			continue
		}
		if err := set(field.Key, loc); err != nil {
			return false, err
		}
	}

	h.rawTabular = raw
	h.converter = convert.NewConverter(raw)

	log.Info("Finished scraping tabular data from offer page", map[string]interface{}{
		"url":    h.FullURL(),
		"fields": len(raw),
	})
	return true, nil
}

// ScrapeImages fetches the offer's primary image. Returns false when
// the listing's image data is already captured and skipIfCaptured is
// set. A page without an image element is an extraction failure for
// this data kind and propagates; tabular capture is unaffected.
func (h *Handler) ScrapeImages(ctx context.Context, skipIfCaptured bool) (bool, error) {
	log := h.deps.Logger
	log.Info("Started scraping image data from offer page", map[string]interface{}{"url": h.FullURL()})

	if h.imageCaptured && skipIfCaptured {
		log.Info("Scraping image data aborted, listing already captured", map[string]interface{}{
			"url": h.FullURL(),
		})
		return false, nil
	}

	imageURL, data, err := h.doc.ImageBytes(ctx)
	if err != nil {
		return false, err
	}
	h.dataImage[imageURL] = data

	log.Info("Finished scraping image data from offer page", map[string]interface{}{
		"url":       h.FullURL(),
		"image_url": imageURL,
	})
	return true, nil
}

// RawData returns a copy of the raw record from the last scrape.
func (h *Handler) RawData() domain.RawRecord {
	return h.rawTabular.Copy()
}

// TypedData returns the normalized record for this listing: the
// converter's output after a scrape, or the previously persisted record
// when the listing was captured by an earlier run.
func (h *Handler) TypedData() (domain.TypedRecord, error) {
	if h.converter != nil {
		return h.converter.ConvertAll(), nil
	}
	if h.tabularCaptured && h.persisted != nil {
		return h.persisted.Copy(), nil
	}
	return nil, &cerrors.ExtractionError{
		URL:     h.FullURL(),
		Message: "no converter and listing was not captured previously",
	}
}

// SaveTabular commits the typed record to the tabular sink and flips
// the capture state. The commit is idempotent per listing identity.
func (h *Handler) SaveTabular(ctx context.Context) error {
	record, err := h.TypedData()
	if err != nil {
		return err
	}

	if err := h.deps.Tabular.Commit(ctx, h.urlExtension, record); err != nil {
		return cerrors.WrapError(err, "failed to commit tabular data")
	}

	h.tabularCaptured = true
	h.persisted = record
	h.deps.Logger.Info("Saved tabular data", map[string]interface{}{
		"url_extension": h.urlExtension,
	})
	return nil
}

// SaveImages commits the fetched images to the image sink and flips the
// capture state.
func (h *Handler) SaveImages(ctx context.Context) error {
	if len(h.dataImage) == 0 {
		return &cerrors.ExtractionError{
			URL:     h.FullURL(),
			Message: "no image data to save",
		}
	}

	if err := h.deps.Images.Commit(ctx, h.urlExtension, h.dataImage); err != nil {
		return cerrors.WrapError(err, "failed to commit image data")
	}

	h.imageCaptured = true
	h.deps.Logger.Info("Saved image data", map[string]interface{}{
		"url_extension": h.urlExtension,
		"images":        len(h.dataImage),
	})
	return nil
}

// Capture runs the full capture sequence for this listing: scrape and
// commit tabular data, then scrape and commit image data. With force
// unset, data kinds already captured are skipped, making a rerun over
// the same listings idempotent. With force set, both kinds are
// re-fetched and overwrite the previous artifacts.
func (h *Handler) Capture(ctx context.Context, force bool) error {
	skip := !force

	did, err := h.ScrapeTabular(ctx, skip)
	if err != nil {
		return err
	}
	if did {
		if err := h.SaveTabular(ctx); err != nil {
			return err
		}
	}

	did, err = h.ScrapeImages(ctx, skip)
	if err != nil {
		return err
	}
	if did {
		if err := h.SaveImages(ctx); err != nil {
			return err
		}
	}
	return nil
}
