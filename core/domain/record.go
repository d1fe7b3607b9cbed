// ABOUTME: Raw and typed record representations of one scraped offer
// ABOUTME: Raw records hold extracted strings, typed records hold normalized values

package domain

import "strings"

// RawRecord maps storage keys to raw extracted strings. A field whose
// locator found nothing on the page is simply not present in the map;
// absence is expected and is not an error.
type RawRecord map[string]string

// Copy returns a shallow copy of the record.
func (r RawRecord) Copy() RawRecord {
	out := make(RawRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// TypedRecord maps storage keys to normalized values. Only fields whose
// conversion succeeded are present; values are never fabricated for
// absent or unparseable input. Values are JSON-compatible scalars
// (string, int, float64, bool).
type TypedRecord map[string]interface{}

// Copy returns a shallow copy of the record.
func (t TypedRecord) Copy() TypedRecord {
	out := make(TypedRecord, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// EscapeIdentity converts a listing identity (the offer URL extension)
// into a filesystem and key safe form.
func EscapeIdentity(urlExtension string) string {
	return strings.ReplaceAll(urlExtension, "/", "_")
}
