package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"stocktrail/internal/branch/models"
	id "stocktrail/pkg/domain"
	txcontext "stocktrail/pkg/platform/tx"
)

// PostgresStore persists branches in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const branchColumns = `id, name, address, city, postal_code, phone, created_at, updated_at, deleted_at`

func (s *PostgresStore) Create(ctx context.Context, b *models.Branch) error {
	query := `
		INSERT INTO branches (` + branchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(b.ID), b.Name, b.Address, b.City, b.PostalCode, b.Phone,
		b.CreatedAt, b.UpdatedAt, b.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("create branch: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, b *models.Branch) error {
	query := `
		UPDATE branches
		SET name = $2, address = $3, city = $4, postal_code = $5, phone = $6,
		    updated_at = $7, deleted_at = $8
		WHERE id = $1
	`
	res, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(b.ID), b.Name, b.Address, b.City, b.PostalCode, b.Phone,
		b.UpdatedAt, b.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("update branch: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update branch rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, branchID id.BranchID) (*models.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE id = $1`
	b, err := scanBranch(txcontext.Executor(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(branchID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find branch: %w", err)
	}
	return b, nil
}

func (s *PostgresStore) FindByIDs(ctx context.Context, ids []id.BranchID) (map[id.BranchID]*models.Branch, error) {
	out := make(map[id.BranchID]*models.Branch, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	raw := make([]string, len(ids))
	for i, branchID := range ids {
		raw[i] = branchID.String()
	}
	query := `SELECT ` + branchColumns + ` FROM branches WHERE id = ANY($1::uuid[])`
	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, query, pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("find branches: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		out[b.ID] = b
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListActive(ctx context.Context) ([]*models.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE deleted_at IS NULL ORDER BY lower(name)`
	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()
	var out []*models.Branch
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBranch(row rowScanner) (*models.Branch, error) {
	var b models.Branch
	var rawID uuid.UUID
	var deletedAt sql.NullTime
	if err := row.Scan(&rawID, &b.Name, &b.Address, &b.City, &b.PostalCode, &b.Phone,
		&b.CreatedAt, &b.UpdatedAt, &deletedAt); err != nil {
		return nil, err
	}
	b.ID = id.BranchID(rawID)
	if deletedAt.Valid {
		b.DeletedAt = &deletedAt.Time
	}
	return &b, nil
}
