package storage

import "real-estate-hungary/models"

// RecordWriter is the interface any storage backend must satisfy.
type RecordWriter interface {
	Write(table *models.Table) error
	Close() error
}

// RecordSource provides previously stored records for deduplication.
type RecordSource interface {
	FetchAll() (*models.Table, error)
}

var (
	_ RecordWriter = (*CSVWriter)(nil)
	_ RecordWriter = (*PostgresWriter)(nil)
	_ RecordWriter = (*AMQPPublisher)(nil)
	_ RecordSource = (*PostgresWriter)(nil)
)
