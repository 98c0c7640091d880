package data

import (
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb/v2"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	document_id      VARCHAR PRIMARY KEY,
	company_name     VARCHAR,
	original_url     VARCHAR,
	total_chapters   INTEGER,
	successful_count INTEGER,
	output_dir       VARCHAR,
	fetched_at       VARCHAR
)`

func InitDuckDB(path string) (*sql.DB, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// Repository records fetch history in a local DuckDB database.
type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := InitDuckDB(path)
	if err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) SaveDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("document cannot be nil")
	}

	_, err := r.db.Exec(`
		INSERT OR REPLACE INTO documents
		(document_id, company_name, original_url, total_chapters, successful_count, output_dir, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		doc.DocumentID, doc.CompanyName, doc.OriginalURL,
		doc.TotalChapters, doc.SuccessfulCount, doc.OutputDir, doc.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

func (r *Repository) GetDocument(documentID string) (*Document, error) {
	row := r.db.QueryRow(`
		SELECT document_id, company_name, original_url, total_chapters, successful_count, output_dir, fetched_at
		FROM documents WHERE document_id = ?`, documentID)

	var doc Document
	err := row.Scan(&doc.DocumentID, &doc.CompanyName, &doc.OriginalURL,
		&doc.TotalChapters, &doc.SuccessfulCount, &doc.OutputDir, &doc.FetchedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("document %s not found", documentID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

func (r *Repository) ListDocuments() ([]*Document, error) {
	rows, err := r.db.Query(`
		SELECT document_id, company_name, original_url, total_chapters, successful_count, output_dir, fetched_at
		FROM documents ORDER BY fetched_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.DocumentID, &doc.CompanyName, &doc.OriginalURL,
			&doc.TotalChapters, &doc.SuccessfulCount, &doc.OutputDir, &doc.FetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

func (r *Repository) DeleteDocument(documentID string) error {
	_, err := r.db.Exec(`DELETE FROM documents WHERE document_id = ?`, documentID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
