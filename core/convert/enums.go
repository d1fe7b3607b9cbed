// ABOUTME: Enum normalization tables mapping the site's Polish phrases to canonical codes
// ABOUTME: Unknown phrases fall back to "other" so the dataset stays auditable

package convert

import (
	"strings"

	"otodom-scraper/core/domain"
)

// EnumOther is the fallback bucket for raw phrases no table knows.
const EnumOther = "other"

// enumTables maps each enum field's storage key to its phrase table.
// Raw phrases are matched lowercased.
var enumTables = map[string]map[string]string{
	"market": {
		"pierwotny": "primary",
		"wtórny":    "secondary",
	},
	"construction_status": {
		"do zamieszkania": "ready_to_use",
		"do wykończenia":  "to_completion",
		"do remontu":      "to_renovation",
	},
	"heating": {
		"miejskie":     "urban",
		"gazowe":       "gas",
		"elektryczne":  "electrical",
		"kotłownia":    "boiler_room",
		"piece kaflowe": "tiled_stove",
	},
	"building_type": {
		"blok":             "block",
		"kamienica":        "tenement",
		"apartamentowiec":  "apartment_building",
		"dom wolnostojący": "detached",
		"szeregowiec":      "ribbon",
		"plomba":           "infill",
	},
	"windows": {
		"plastikowe": "plastic",
		"drewniane":  "wooden",
		"aluminiowe": "aluminium",
	},
	"building_material": {
		"cegła":        "brick",
		"wielka płyta": "concrete_slab",
		"pustak":       "breezeblock",
		"beton":        "concrete",
		"silikat":      "silikat",
		"drewno":       "wood",
		"żelbet":       "reinforced_concrete",
		"keramzyt":     "hydroton",
	},
	"building_ownership": {
		"pełna własność":            "full_ownership",
		"spółdzielcze własnościowe": "cooperative_ownership",
		"udział":                    "share",
	},
	"advertiser_type": {
		"prywatny":            "private",
		"biuro nieruchomości": "agency",
		"deweloper":           "developer",
	},
}

// normalizeEnum maps a raw phrase to its canonical code for the given
// field. A phrase missing from the table is preserved in the fallback
// bucket rather than dropped.
func normalizeEnum(key, raw string) string {
	table, ok := enumTables[key]
	if !ok {
		return EnumOther
	}
	if code, ok := table[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return code
	}
	return EnumOther
}

// knownEnumField reports whether the schema declares the key as an enum
// with a phrase table.
func knownEnumField(key string) bool {
	if f, ok := domain.FieldByKey(key); !ok || f.Type != domain.FieldTypeEnum {
		return false
	}
	_, ok := enumTables[key]
	return ok
}
