package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"real-estate-hungary/models"
)

const batchSize = 50

// PostgresWriter persists records to PostgreSQL as JSONB documents keyed by
// their property URL. Every row carries the ID of the run that stored it.
type PostgresWriter struct {
	db    *sql.DB
	runID uuid.UUID
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string, runID uuid.UUID) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db, runID: runID}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS listing_records (
			id           SERIAL PRIMARY KEY,
			run_id       UUID         NOT NULL,
			property_url TEXT         UNIQUE NOT NULL,
			lang         VARCHAR(3)   NOT NULL DEFAULT '',
			attrs        JSONB        NOT NULL,
			created_at   TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_listing_records_lang   ON listing_records(lang);
		CREATE INDEX IF NOT EXISTS idx_listing_records_run_id ON listing_records(run_id);
	`)
	return err
}

// Write batch-inserts every record of table. Records whose property URL is
// already stored are left untouched.
func (pw *PostgresWriter) Write(table *models.Table) error {
	rows := table.Rows()
	for i := 0; i < len(rows); i += batchSize {
		end := min(i+batchSize, len(rows))
		query, args, err := insertQuery(pw.runID, rows[i:end])
		if err != nil {
			return err
		}
		if query == "" {
			continue
		}
		if _, err := pw.db.Exec(query, args...); err != nil {
			return fmt.Errorf("postgres: insert batch: %w", err)
		}
	}
	return nil
}

// insertQuery builds one multi-row INSERT for batch. Records without a
// property URL cannot be deduplicated and are skipped.
func insertQuery(runID uuid.UUID, batch []*models.Record) (string, []any, error) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]any, 0, len(batch)*4)

	for _, rec := range batch {
		url := rec.Text(models.FieldPropertyURL)
		if url == "" {
			continue
		}
		attrs, err := json.Marshal(rec)
		if err != nil {
			return "", nil, fmt.Errorf("postgres: encode %s: %w", url, err)
		}
		base := len(valueArgs)
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4))
		valueArgs = append(valueArgs, runID.String(), url, rec.Text(models.FieldLang), string(attrs))
	}
	if len(valueStrings) == 0 {
		return "", nil, nil
	}

	query := fmt.Sprintf(`
		INSERT INTO listing_records (run_id, property_url, lang, attrs)
		VALUES %s
		ON CONFLICT (property_url) DO NOTHING
	`, strings.Join(valueStrings, ","))
	return query, valueArgs, nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves every stored record in insertion order. It is the
// deduplication snapshot for the next run.
func (pw *PostgresWriter) FetchAll() (*models.Table, error) {
	rows, err := pw.db.Query(`SELECT attrs FROM listing_records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	table := models.NewTable()
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		rec := models.NewRecord()
		if err := json.Unmarshal(raw, rec); err != nil {
			return nil, fmt.Errorf("postgres: decode attrs: %w", err)
		}
		table.Append(rec)
	}
	return table, rows.Err()
}
