package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/grana-app/backend/internal/apperror"
	"github.com/grana-app/backend/internal/model"
)

// The whole document lives in one row. Single-user application, fixed key.
const documentKey = "main"

type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Init creates the documents table when missing.
func (s *PostgresStore) Init(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			data JSONB NOT NULL,
			version BIGINT NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("creating documents table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) (*model.Document, error) {
	var row struct {
		Data    []byte `db:"data"`
		Version int64  `db:"version"`
	}

	query := `SELECT data, version FROM documents WHERE id = $1`
	err := s.db.GetContext(ctx, &row, query, documentKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}

	var doc model.Document
	if err := json.Unmarshal(row.Data, &doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	doc.Version = row.Version
	return &doc, nil
}

func (s *PostgresStore) Save(ctx context.Context, doc *model.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	if doc.Version == 0 {
		query := `
			INSERT INTO documents (id, data, version, updated_at)
			VALUES ($1, $2, 1, NOW())
			ON CONFLICT (id) DO NOTHING`

		res, err := s.db.ExecContext(ctx, query, documentKey, data)
		if err != nil {
			return fmt.Errorf("inserting document: %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return apperror.ErrVersionConflict
		}
		doc.Version = 1
		return nil
	}

	query := `
		UPDATE documents
		SET data = $2, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $3`

	res, err := s.db.ExecContext(ctx, query, documentKey, data, doc.Version)
	if err != nil {
		return fmt.Errorf("updating document: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperror.ErrVersionConflict
	}
	doc.Version++
	return nil
}
