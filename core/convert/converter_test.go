package convert

import (
	"reflect"
	"testing"

	"otodom-scraper/core/domain"
)

func TestConvertAll_Example(t *testing.T) {
	raw := domain.RawRecord{
		domain.KeyPrice: "450 000 zł",
		"rooms":         "3",
		domain.KeyLinkID: "/pl/oferta/mieszkanie-123",
	}

	result := NewConverter(raw).ConvertAll()

	if result[domain.KeyPrice] != 450000 {
		t.Errorf("price = %v, want 450000", result[domain.KeyPrice])
	}
	if result["rooms"] != 3 {
		t.Errorf("rooms = %v, want 3", result["rooms"])
	}
	if result["lift"] != false {
		t.Errorf("lift = %v, want false for absent raw value", result["lift"])
	}
	if result[domain.KeyLinkID] != "/pl/oferta/mieszkanie-123" {
		t.Errorf("link_id = %v, want the url extension", result[domain.KeyLinkID])
	}
}

func TestConvertAll_Deterministic(t *testing.T) {
	raw := domain.RawRecord{
		domain.KeyPrice:   "1 200 000 zł",
		domain.KeyAddress: "ul. Lipowa, Bielany, Wrocław, dolnośląskie",
		"surface":         "56,80 m²",
		"market":          "wtórny",
		"lift":            "tak",
	}

	first := NewConverter(raw).ConvertAll()
	second := NewConverter(raw).ConvertAll()

	if !reflect.DeepEqual(first, second) {
		t.Errorf("conversion not deterministic: %v != %v", first, second)
	}
}

func TestConvertAll_Memoized(t *testing.T) {
	c := NewConverter(domain.RawRecord{domain.KeyPrice: "100 zł"})

	if c.Converted() {
		t.Error("Converted() should be false before ConvertAll")
	}

	first := c.ConvertAll()

	if !c.Converted() {
		t.Error("Converted() should be true after ConvertAll")
	}

	second := c.ConvertAll()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated ConvertAll results differ: %v != %v", first, second)
	}
}

func TestConvertAll_ResultIsACopy(t *testing.T) {
	c := NewConverter(domain.RawRecord{domain.KeyPrice: "100 zł"})

	first := c.ConvertAll()
	first["price"] = -1

	second := c.ConvertAll()
	if second["price"] != 100 {
		t.Errorf("mutating a returned record leaked into the converter: price = %v", second["price"])
	}
}

func TestConvertAll_EmptyRawRecordYieldsOnlyBooleans(t *testing.T) {
	result := NewConverter(domain.RawRecord{}).ConvertAll()

	for key, value := range result {
		field, ok := domain.FieldByKey(key)
		if !ok {
			t.Errorf("unexpected key %q in typed record", key)
			continue
		}
		if field.Type != domain.FieldTypeBoolean {
			t.Errorf("key %q (type %s) should be absent for an empty raw record", key, field.Type)
		}
		if value != false {
			t.Errorf("boolean key %q = %v, want false", key, value)
		}
	}
}

func TestConvertAll_UnparseableFieldIsOmitted(t *testing.T) {
	raw := domain.RawRecord{
		domain.KeyPrice: "zapytaj o cenę",
		"rooms":         "3",
	}

	result := NewConverter(raw).ConvertAll()

	if _, ok := result[domain.KeyPrice]; ok {
		t.Errorf("unparseable price should be omitted, got %v", result[domain.KeyPrice])
	}
	if result["rooms"] != 3 {
		t.Errorf("rooms = %v, want 3 despite price failing", result["rooms"])
	}
}

func TestConvertAll_LiftPresence(t *testing.T) {
	tests := []struct {
		name     string
		raw      domain.RawRecord
		expected bool
	}{
		{
			name:     "any non-empty text means true",
			raw:      domain.RawRecord{"lift": "tak"},
			expected: true,
		},
		{
			name:     "absence means false",
			raw:      domain.RawRecord{},
			expected: false,
		},
		{
			name:     "blank text means false",
			raw:      domain.RawRecord{"lift": "   "},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewConverter(tt.raw).ConvertAll()
			if result["lift"] != tt.expected {
				t.Errorf("lift = %v, want %v", result["lift"], tt.expected)
			}
		})
	}
}

func TestParseInteger(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected int
		ok       bool
	}{
		{"thousands separators", "450 000 zł", 450000, true},
		{"plain digits", "3", 3, true},
		{"decimal part dropped", "450 000,50 zł", 450000, true},
		{"non-breaking spaces", "1 200 000 zł", 1200000, true},
		{"no digits", "zapytaj o cenę", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := parseInteger(tt.raw)
			if ok != tt.ok {
				t.Fatalf("parseInteger(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
			if ok && n != tt.expected {
				t.Errorf("parseInteger(%q) = %d, want %d", tt.raw, n, tt.expected)
			}
		})
	}
}

func TestParseArea(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected float64
		ok       bool
	}{
		{"decimal comma", "56,80 m²", 56.8, true},
		{"decimal point", "56.80 m²", 56.8, true},
		{"integer surface", "72 m²", 72, true},
		{"no digits", "m²", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, ok := parseArea(tt.raw)
			if ok != tt.ok {
				t.Fatalf("parseArea(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
			if ok && a != tt.expected {
				t.Errorf("parseArea(%q) = %v, want %v", tt.raw, a, tt.expected)
			}
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		ok       bool
	}{
		{"iso passthrough", "2024-09-01", "2024-09-01", true},
		{"polish dotted", "01.09.2024", "2024-09-01", true},
		{"dashed day first", "01-09-2024", "2024-09-01", true},
		{"garbage", "od zaraz", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := normalizeDate(tt.raw)
			if ok != tt.ok {
				t.Fatalf("normalizeDate(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
			if ok && d != tt.expected {
				t.Errorf("normalizeDate(%q) = %q, want %q", tt.raw, d, tt.expected)
			}
		})
	}
}

func TestDecomposeAddress(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected map[string]string
	}{
		{
			name: "full five components",
			raw:  "ul. Lipowa, Osiedle X, Bielany, Wrocław, dolnośląskie",
			expected: map[string]string{
				domain.KeyAddressStreet:   "ul. Lipowa",
				domain.KeyAddressEstate:   "Osiedle X",
				domain.KeyAddressDistrict: "Bielany",
				domain.KeyAddressCity:     "Wrocław",
				domain.KeyAddressProvince: "dolnośląskie",
			},
		},
		{
			name: "missing leading components anchor right",
			raw:  "Bielany, Wrocław, dolnośląskie",
			expected: map[string]string{
				domain.KeyAddressDistrict: "Bielany",
				domain.KeyAddressCity:     "Wrocław",
				domain.KeyAddressProvince: "dolnośląskie",
			},
		},
		{
			name: "single component is the province",
			raw:  "dolnośląskie",
			expected: map[string]string{
				domain.KeyAddressProvince: "dolnośląskie",
			},
		},
		{
			name: "extra leading components fold into street",
			raw:  "ul. Lipowa 5, m. 3, Osiedle X, Bielany, Wrocław, dolnośląskie",
			expected: map[string]string{
				domain.KeyAddressStreet:   "ul. Lipowa 5, m. 3",
				domain.KeyAddressEstate:   "Osiedle X",
				domain.KeyAddressDistrict: "Bielany",
				domain.KeyAddressCity:     "Wrocław",
				domain.KeyAddressProvince: "dolnośląskie",
			},
		},
		{
			name:     "empty string",
			raw:      "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := decomposeAddress(tt.raw)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("decomposeAddress(%q) = %v, want %v", tt.raw, result, tt.expected)
			}
		})
	}
}
