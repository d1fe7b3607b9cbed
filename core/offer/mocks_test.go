package offer

import (
	"bytes"
	"context"
	"errors"
	"io"

	"otodom-scraper/core/domain"
	cerrors "otodom-scraper/core/errors"
	"otodom-scraper/core/interfaces"
)

// mockHTTPClient serves canned responses per URL and counts requests
type mockHTTPClient struct {
	responses map[string][]byte
	status    map[string]int
	calls     map[string]int
}

func newMockHTTPClient() *mockHTTPClient {
	return &mockHTTPClient{
		responses: make(map[string][]byte),
		status:    make(map[string]int),
		calls:     make(map[string]int),
	}
}

func (m *mockHTTPClient) Get(_ context.Context, url string) (interfaces.Response, error) {
	m.calls[url]++
	body, ok := m.responses[url]
	if !ok {
		return nil, errors.New("connection refused")
	}
	status := m.status[url]
	if status == 0 {
		status = 200
	}
	return &mockResponse{statusCode: status, body: body}, nil
}

func (m *mockHTTPClient) totalCalls() int {
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

// mockResponse is a mock implementation of the Response interface
type mockResponse struct {
	statusCode int
	body       []byte
}

func (m *mockResponse) StatusCode() int {
	return m.statusCode
}

func (m *mockResponse) Body() io.ReadCloser {
	return io.NopCloser(bytes.NewReader(m.body))
}

func (m *mockResponse) Header(key string) string {
	return ""
}

// mockLogger is a no-op Logger that records warning messages
type mockLogger struct {
	warnings []string
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (m *mockLogger) Info(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Warn(msg string, fields map[string]interface{}) {
	m.warnings = append(m.warnings, msg)
}
func (m *mockLogger) Error(msg string, fields map[string]interface{}) {}

// memTabularSink is an in-memory TabularSink with an optional corrupt
// artifact per listing identity
type memTabularSink struct {
	records map[string]domain.TypedRecord
	corrupt map[string]bool
	commits int
	removed []string
}

func newMemTabularSink() *memTabularSink {
	return &memTabularSink{
		records: make(map[string]domain.TypedRecord),
		corrupt: make(map[string]bool),
	}
}

func (s *memTabularSink) Commit(_ context.Context, urlExtension string, record domain.TypedRecord) error {
	s.commits++
	s.records[urlExtension] = record.Copy()
	delete(s.corrupt, urlExtension)
	return nil
}

func (s *memTabularSink) Load(_ context.Context, urlExtension string) (domain.TypedRecord, error) {
	if s.corrupt[urlExtension] {
		return nil, errors.New("unreadable artifact")
	}
	record, ok := s.records[urlExtension]
	if !ok {
		return nil, &cerrors.NotFoundError{Resource: "tabular data", ID: urlExtension}
	}
	return record.Copy(), nil
}

func (s *memTabularSink) Remove(_ context.Context, urlExtension string) error {
	delete(s.records, urlExtension)
	delete(s.corrupt, urlExtension)
	s.removed = append(s.removed, urlExtension)
	return nil
}

// memImageSink is an in-memory ImageSink
type memImageSink struct {
	images  map[string]map[string][]byte
	commits int
}

func newMemImageSink() *memImageSink {
	return &memImageSink{images: make(map[string]map[string][]byte)}
}

func (s *memImageSink) Commit(_ context.Context, urlExtension string, images map[string][]byte) error {
	s.commits++
	stored := make(map[string][]byte, len(images))
	for url, data := range images {
		stored[url] = append([]byte(nil), data...)
	}
	s.images[urlExtension] = stored
	return nil
}

func (s *memImageSink) Exists(_ context.Context, urlExtension string) (bool, error) {
	return len(s.images[urlExtension]) > 0, nil
}

func (s *memImageSink) Remove(_ context.Context, urlExtension string) error {
	delete(s.images, urlExtension)
	return nil
}

// testDeps bundles fresh mocks into a Dependencies container
func testDeps() (interfaces.Dependencies, *mockHTTPClient, *memTabularSink, *memImageSink, *mockLogger) {
	client := newMockHTTPClient()
	tabular := newMemTabularSink()
	images := newMemImageSink()
	logger := &mockLogger{}
	deps := interfaces.Dependencies{
		HTTPClient: client,
		Logger:     logger,
		Tabular:    tabular,
		Images:     images,
	}
	return deps, client, tabular, images, logger
}

const testBaseURL = "https://www.otodom.pl"

const offerPageHTML = `<!DOCTYPE html>
<html><body>
<strong aria-label="Cena">450 000 zł</strong>
<a aria-label="Adres">ul. Lipowa, Osiedle X, Bielany, Wrocław, dolnośląskie</a>
<div data-cy="adPageAdDescription">Przytulne mieszkanie w centrum.</div>
<div data-testid="table-value-area">56,80 m²</div>
<div data-testid="table-value-rooms_num">3</div>
<div data-testid="table-value-market">wtórny</div>
<div data-testid="table-value-heating">miejskie</div>
<div data-testid="table-value-lift">tak</div>
<picture><img src="https://img.otodom.pl/offer-1/image;s=655x491;q=80"></picture>
</body></html>`

const offerPageNoImageHTML = `<!DOCTYPE html>
<html><body>
<strong aria-label="Cena">300 000 zł</strong>
</body></html>`

const testImageURL = "https://img.otodom.pl/offer-1/image"

var testImageBytes = []byte{0x89, 0x50, 0x4e, 0x47}
