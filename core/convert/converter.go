// ABOUTME: Converter normalizes raw extracted strings into typed offer values
// ABOUTME: Pure raw-to-typed transformation, applied once and memoized

package convert

import (
	"strconv"
	"strings"
	"time"

	"otodom-scraper/core/domain"
)

// Converter turns one RawRecord into one TypedRecord. A Converter is
// constructed from exactly one raw record; conversion is deterministic
// and runs at most once, repeated calls reuse the memoized result.
type Converter struct {
	raw       domain.RawRecord
	converted bool
	result    domain.TypedRecord
}

// NewConverter creates a converter owning a copy of the raw record.
func NewConverter(raw domain.RawRecord) *Converter {
	return &Converter{raw: raw.Copy()}
}

// Converted reports whether ConvertAll already ran.
func (c *Converter) Converted() bool {
	return c.converted
}

// ConvertAll normalizes every schema field present in the raw record.
// Fields whose raw value is absent or unparseable are omitted from the
// result; boolean fields are always present (absence means false).
func (c *Converter) ConvertAll() domain.TypedRecord {
	if c.converted {
		return c.result.Copy()
	}

	result := make(domain.TypedRecord)
	address := decomposeAddress(c.raw[domain.KeyAddress])

	for _, field := range domain.Schema {
		switch field.Key {
		case domain.KeyAddressStreet, domain.KeyAddressEstate,
			domain.KeyAddressDistrict, domain.KeyAddressCity,
			domain.KeyAddressProvince:
			if part, ok := address[field.Key]; ok {
				result[field.Key] = part
			}
			continue
		}

		raw, present := c.raw[field.Key]
		raw = strings.TrimSpace(raw)

		switch field.Type {
		case domain.FieldTypeBoolean:
			result[field.Key] = present && raw != ""
		case domain.FieldTypeCurrency, domain.FieldTypeInteger:
			if !present || raw == "" {
				continue
			}
			if n, ok := parseInteger(raw); ok {
				result[field.Key] = n
			}
		case domain.FieldTypeArea:
			if !present || raw == "" {
				continue
			}
			if a, ok := parseArea(raw); ok {
				result[field.Key] = a
			}
		case domain.FieldTypeEnum:
			if !present || raw == "" {
				continue
			}
			result[field.Key] = normalizeEnum(field.Key, raw)
		case domain.FieldTypeDate:
			if !present || raw == "" {
				continue
			}
			if d, ok := normalizeDate(raw); ok {
				result[field.Key] = d
			}
		default:
			if !present || raw == "" {
				continue
			}
			result[field.Key] = raw
		}
	}

	c.result = result
	c.converted = true
	return c.result.Copy()
}

// parseInteger strips thousands separators and unit noise and parses
// the remaining digits. A decimal part, if any, is dropped together
// with everything after it.
func parseInteger(raw string) (int, bool) {
	if idx := strings.IndexAny(raw, ",."); idx >= 0 {
		raw = raw[:idx]
	}

	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}

	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseArea parses a surface value like "56,80 m²" into a float,
// accepting both the Polish decimal comma and a decimal point.
func parseArea(raw string) (float64, bool) {
	var number strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			number.WriteRune(r)
		case r == ',' || r == '.':
			number.WriteRune('.')
		}
	}
	if number.Len() == 0 {
		return 0, false
	}

	a, err := strconv.ParseFloat(number.String(), 64)
	if err != nil {
		return 0, false
	}
	return a, true
}

// dateLayouts are the formats the site has been observed to use for the
// "available from" value.
var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"02-01-2006",
}

// normalizeDate parses a raw date string and renders it back in ISO
// yyyy-mm-dd form.
func normalizeDate(raw string) (string, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// addressKeys are the decomposition slots ordered most-specific first,
// matching the order of components in the raw address string.
var addressKeys = []string{
	domain.KeyAddressStreet,
	domain.KeyAddressEstate,
	domain.KeyAddressDistrict,
	domain.KeyAddressCity,
	domain.KeyAddressProvince,
}

// decomposeAddress splits a raw address string into locality components.
// The raw string is ordered most-specific to least-specific, so shorter
// strings anchor to the right: province and city are always the last
// components, leading components (street, estate) go missing first.
func decomposeAddress(raw string) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	// More components than slots: fold the extra leading ones into the
	// street slot rather than dropping them.
	if len(parts) > len(addressKeys) {
		head := strings.Join(parts[:len(parts)-len(addressKeys)+1], ", ")
		parts = append([]string{head}, parts[len(parts)-len(addressKeys)+1:]...)
	}

	out := make(map[string]string, len(parts))
	offset := len(addressKeys) - len(parts)
	for i, part := range parts {
		if part == "" {
			continue
		}
		out[addressKeys[offset+i]] = part
	}
	return out
}
