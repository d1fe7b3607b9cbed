// ABOUTME: Declarative schema of every extractable offer field
// ABOUTME: Each field carries its storage key, document locator and semantic type

package domain

// FieldType tags a field with the semantic type its raw value normalizes to.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeCurrency FieldType = "currency"
	FieldTypeArea     FieldType = "area"
	FieldTypeInteger  FieldType = "integer"
	FieldTypeEnum     FieldType = "enum"
	FieldTypeBoolean  FieldType = "boolean"
	FieldTypeDate     FieldType = "date"
	FieldTypeFreeText FieldType = "freetext"
)

// Locator describes how to find a field's value in an offer document:
// a tag name plus a single attribute match.
type Locator struct {
	Tag   string
	Attr  string
	Value string
}

// Field describes one extractable (or derived) offer attribute.
type Field struct {
	// Key is the storage key, unique within the schema. It doubles as the
	// JSON property name and the relational column name.
	Key string

	// TestID is the value of the site's data-testid attribute for fields
	// that follow the uniform table markup. Empty for bespoke and derived
	// fields.
	TestID string

	// Type is the semantic type the raw string normalizes to.
	Type FieldType

	// SQLType is the column datatype used by the relational sink.
	SQLType string
}

// Locator returns the document locator for a uniform-markup field.
// The second return value is false for bespoke and derived fields,
// which have no data-testid of their own.
func (f Field) Locator() (Locator, bool) {
	if f.TestID == "" {
		return Locator{}, false
	}
	return Locator{Tag: "div", Attr: "data-testid", Value: f.TestID}, true
}

// Bespoke locators for the handful of fields that do not follow the
// uniform table markup.
var (
	LocatorPrice       = Locator{Tag: "strong", Attr: "aria-label", Value: "Cena"}
	LocatorAddress     = Locator{Tag: "a", Attr: "aria-label", Value: "Adres"}
	LocatorDescription = Locator{Tag: "div", Attr: "data-cy", Value: "adPageAdDescription"}
)

// Storage keys referenced outside the generic extraction loop.
const (
	KeyPrice           = "price"
	KeyAddress         = "address"
	KeyDescription     = "description"
	KeyLinkID          = "link_id"
	KeyAddressStreet   = "address_street"
	KeyAddressEstate   = "address_estate"
	KeyAddressDistrict = "address_district"
	KeyAddressCity     = "address_city"
	KeyAddressProvince = "address_province"
)

// Schema is the full output schema: one entry per column of the typed
// record. The address_* fields are derived from the raw address string
// by the converter and have no locator of their own.
var Schema = []Field{
	{Key: KeyPrice, Type: FieldTypeCurrency, SQLType: "INTEGER"},
	{Key: KeyAddressStreet, Type: FieldTypeText, SQLType: "TEXT"},
	{Key: KeyAddressEstate, Type: FieldTypeText, SQLType: "TEXT"},
	{Key: KeyAddressDistrict, Type: FieldTypeText, SQLType: "TEXT"},
	{Key: KeyAddressCity, Type: FieldTypeText, SQLType: "TEXT"},
	{Key: KeyAddressProvince, Type: FieldTypeText, SQLType: "TEXT"},
	{Key: "surface", TestID: "table-value-area", Type: FieldTypeArea, SQLType: "REAL"},
	{Key: "building_ownership", TestID: "table-value-building_ownership", Type: FieldTypeEnum, SQLType: "TEXT"},
	{Key: "rooms", TestID: "table-value-rooms_num", Type: FieldTypeInteger, SQLType: "INTEGER"},
	{Key: "construction_status", TestID: "table-value-construction_status", Type: FieldTypeEnum, SQLType: "TEXT"},
	{Key: "floor", TestID: "table-value-floor", Type: FieldTypeText, SQLType: "TEXT"},
	{Key: "floors_in_building", TestID: "table-value-floors_num", Type: FieldTypeInteger, SQLType: "INTEGER"},
	{Key: "outdoor", TestID: "table-value-outdoor", Type: FieldTypeText, SQLType: "TEXT"},
	{Key: "rent", TestID: "table-value-rent", Type: FieldTypeCurrency, SQLType: "INTEGER"},
	{Key: "parking_space", TestID: "table-value-car", Type: FieldTypeText, SQLType: "TEXT"},
	{Key: "heating", TestID: "table-value-heating", Type: FieldTypeEnum, SQLType: "TEXT"},
	{Key: "market", TestID: "table-value-market", Type: FieldTypeEnum, SQLType: "TEXT"},
	{Key: "advertiser_type", TestID: "table-value-advertiser_type", Type: FieldTypeEnum, SQLType: "TEXT"},
	{Key: "free_from", TestID: "table-value-free_from", Type: FieldTypeDate, SQLType: "TEXT"},
	{Key: "build_year", TestID: "table-value-build_year", Type: FieldTypeInteger, SQLType: "INTEGER"},
	{Key: "building_type", TestID: "table-value-building_type", Type: FieldTypeEnum, SQLType: "TEXT"},
	{Key: "windows", TestID: "table-value-windows_type", Type: FieldTypeEnum, SQLType: "TEXT"},
	{Key: "lift", TestID: "table-value-lift", Type: FieldTypeBoolean, SQLType: "INTEGER"},
	{Key: "media", TestID: "table-value-media_types", Type: FieldTypeText, SQLType: "TEXT"},
	{Key: "securities", TestID: "table-value-security_types", Type: FieldTypeText, SQLType: "TEXT"},
	{Key: "equipment", TestID: "table-value-equipment_types", Type: FieldTypeText, SQLType: "TEXT"},
	{Key: "extra_info", TestID: "table-value-extras_types", Type: FieldTypeText, SQLType: "TEXT"},
	{Key: "building_material", TestID: "table-value-building_material", Type: FieldTypeEnum, SQLType: "TEXT"},
	{Key: KeyDescription, Type: FieldTypeFreeText, SQLType: "TEXT"},
	{Key: KeyLinkID, Type: FieldTypeText, SQLType: "TEXT"},
}

// UniformFields returns the schema fields extracted through the generic
// data-testid table markup, in schema order.
func UniformFields() []Field {
	fields := make([]Field, 0, len(Schema))
	for _, f := range Schema {
		if f.TestID != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// FieldByKey looks up a schema field by its storage key.
func FieldByKey(key string) (Field, bool) {
	for _, f := range Schema {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}
