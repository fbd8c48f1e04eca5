package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/domain"
	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/ports"
)

// SQLStore executes parameterized queries over a connection exclusively
// owned by one terminal session. Every statement runs inside a lazily
// opened transaction that stays pending until Commit, which matches the
// explicit-commit contract the handlers are written against.
type SQLStore struct {
	db *sql.DB
	tx *sql.Tx
}

var _ ports.Store = (*SQLStore)(nil)

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) QueryOne(ctx context.Context, query string, args ...any) (ports.Row, error) {
	tx, err := s.pending(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		s.rollback()
		return nil, translate(err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanRow(rows)
}

func (s *SQLStore) QueryAll(ctx context.Context, query string, args ...any) ([]ports.Row, error) {
	tx, err := s.pending(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		s.rollback()
		return nil, translate(err)
	}
	defer rows.Close()

	var out []ports.Row
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *SQLStore) Execute(ctx context.Context, query string, args ...any) error {
	tx, err := s.pending(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		// A failed statement aborts the whole transaction in Postgres, so
		// nothing partial can survive to a later Commit.
		s.rollback()
		return translate(err)
	}
	return nil
}

// Commit makes pending writes durable. With nothing pending it is a no-op,
// so an idempotent delete that touched zero rows still "commits" cleanly.
func (s *SQLStore) Commit(ctx context.Context) error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Commit()
	s.tx = nil
	return err
}

// Close rolls back anything left pending.
func (s *SQLStore) Close() error {
	s.rollback()
	return nil
}

func (s *SQLStore) pending(ctx context.Context) (*sql.Tx, error) {
	if s.tx != nil {
		return s.tx, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	s.tx = tx
	return tx, nil
}

func (s *SQLStore) rollback() {
	if s.tx != nil {
		_ = s.tx.Rollback()
		s.tx = nil
	}
}

// translate maps integrity violations (class 23, unique/foreign keys) onto
// the command taxonomy so handlers can treat them as input faults instead
// of store failures.
func translate(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "23" {
		return fmt.Errorf("%w: %s", domain.ErrValidation, pqErr.Message)
	}
	return err
}

func scanRow(rows *sql.Rows) (ports.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	values := make([]any, len(columns))
	targets := make([]any, len(columns))
	for i := range values {
		targets[i] = &values[i]
	}
	if err := rows.Scan(targets...); err != nil {
		return nil, err
	}
	row := make(ports.Row, len(columns))
	for i, column := range columns {
		row[column] = values[i]
	}
	return row, nil
}
