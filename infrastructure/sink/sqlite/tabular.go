// ABOUTME: SQLite-backed tabular sink, one row per listing in the otodom table
// ABOUTME: Table creation is idempotent and commits use INSERT OR REPLACE

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"otodom-scraper/core/domain"
	cerrors "otodom-scraper/core/errors"
)

// TabularSink persists typed records into a single sqlite table with
// one column per schema field. The listing identity column is the
// primary key, so a second commit for the same listing replaces the
// existing row instead of duplicating it.
type TabularSink struct {
	db       *sql.DB
	filePath string
}

// NewTabularSink opens (or creates) the database file and ensures the
// otodom table exists.
func NewTabularSink(filePath string) (*TabularSink, error) {
	if filePath == "" {
		filePath = "real_estate.db"
	}

	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	sink := &TabularSink{
		db:       db,
		filePath: filePath,
	}

	if err := sink.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return sink, nil
}

// initSchema creates the otodom table if it doesn't exist
func (s *TabularSink) initSchema() error {
	columns := make([]string, 0, len(domain.Schema))
	for _, field := range domain.Schema {
		column := field.Key + " " + field.SQLType
		if field.Key == domain.KeyLinkID {
			column += " PRIMARY KEY"
		}
		columns = append(columns, column)
	}

	query := "CREATE TABLE IF NOT EXISTS otodom (" + strings.Join(columns, ", ") + ")"
	_, err := s.db.Exec(query)
	return err
}

// Commit writes the typed record as one row, keyed by the listing
// identity. Schema fields missing from the record are stored as NULL.
func (s *TabularSink) Commit(ctx context.Context, urlExtension string, record domain.TypedRecord) error {
	names := make([]string, 0, len(domain.Schema))
	values := make([]interface{}, 0, len(domain.Schema))
	for _, field := range domain.Schema {
		names = append(names, field.Key)
		if field.Key == domain.KeyLinkID {
			values = append(values, urlExtension)
			continue
		}
		if value, ok := record[field.Key]; ok {
			values = append(values, value)
		} else {
			values = append(values, nil)
		}
	}

	query := "INSERT OR REPLACE INTO otodom (" + strings.Join(names, ", ") + ") VALUES (" +
		strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ") + ")"

	if _, err := s.db.ExecContext(ctx, query, values...); err != nil {
		return fmt.Errorf("failed to commit row: %w", err)
	}
	return nil
}

// Load reads a listing's row back into a typed record, skipping NULL
// columns. A missing row yields a NotFoundError.
func (s *TabularSink) Load(ctx context.Context, urlExtension string) (domain.TypedRecord, error) {
	names := make([]string, 0, len(domain.Schema))
	for _, field := range domain.Schema {
		names = append(names, field.Key)
	}

	query := "SELECT " + strings.Join(names, ", ") + " FROM otodom WHERE " + domain.KeyLinkID + " = ?"
	row := s.db.QueryRowContext(ctx, query, urlExtension)

	dests := make([]interface{}, len(domain.Schema))
	for i := range dests {
		dests[i] = new(interface{})
	}
	if err := row.Scan(dests...); err != nil {
		if err == sql.ErrNoRows {
			return nil, &cerrors.NotFoundError{Resource: "tabular data", ID: urlExtension}
		}
		return nil, fmt.Errorf("failed to load row: %w", err)
	}

	record := make(domain.TypedRecord)
	for i, field := range domain.Schema {
		raw := *(dests[i].(*interface{}))
		if raw == nil {
			continue
		}
		record[field.Key] = columnValue(field, raw)
	}
	return record, nil
}

// Remove deletes a listing's row if present.
func (s *TabularSink) Remove(ctx context.Context, urlExtension string) error {
	query := "DELETE FROM otodom WHERE " + domain.KeyLinkID + " = ?"
	if _, err := s.db.ExecContext(ctx, query, urlExtension); err != nil {
		return fmt.Errorf("failed to remove row: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *TabularSink) Close() error {
	return s.db.Close()
}

// columnValue maps a scanned sqlite value back to the field's typed
// representation.
func columnValue(field domain.Field, raw interface{}) interface{} {
	switch field.Type {
	case domain.FieldTypeBoolean:
		if n, ok := raw.(int64); ok {
			return n != 0
		}
		if b, ok := raw.(bool); ok {
			return b
		}
		return false
	case domain.FieldTypeCurrency, domain.FieldTypeInteger:
		if n, ok := raw.(int64); ok {
			return int(n)
		}
		return raw
	case domain.FieldTypeArea:
		if f, ok := raw.(float64); ok {
			return f
		}
		if n, ok := raw.(int64); ok {
			return float64(n)
		}
		return raw
	default:
		if s, ok := raw.([]byte); ok {
			return string(s)
		}
		return raw
	}
}
