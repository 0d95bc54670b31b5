package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"stocktrail/internal/staff/models"
	id "stocktrail/pkg/domain"
	txcontext "stocktrail/pkg/platform/tx"
)

// PostgresStore persists staff records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const staffColumns = `id, name, role, pin_hash, branch_id, created_at, updated_at, deleted_at`

func (s *PostgresStore) Create(ctx context.Context, m *models.Staff) error {
	query := `INSERT INTO staff (` + staffColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(m.ID), m.Name, string(m.Role), m.PinHash, nullableBranch(m.BranchID),
		m.CreatedAt, m.UpdatedAt, m.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("create staff: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, m *models.Staff) error {
	query := `
		UPDATE staff
		SET name = $2, role = $3, pin_hash = $4, branch_id = $5, updated_at = $6, deleted_at = $7
		WHERE id = $1
	`
	res, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(m.ID), m.Name, string(m.Role), m.PinHash, nullableBranch(m.BranchID),
		m.UpdatedAt, m.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("update staff: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update staff rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, staffID id.StaffID) (*models.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE id = $1`
	m, err := scanStaff(txcontext.Executor(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(staffID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find staff: %w", err)
	}
	return m, nil
}

func (s *PostgresStore) FindByIDs(ctx context.Context, ids []id.StaffID) (map[id.StaffID]*models.Staff, error) {
	out := make(map[id.StaffID]*models.Staff, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	raw := make([]string, len(ids))
	for i, staffID := range ids {
		raw[i] = staffID.String()
	}
	list, err := s.query(ctx, `SELECT `+staffColumns+` FROM staff WHERE id = ANY($1::uuid[])`, pq.Array(raw))
	if err != nil {
		return nil, err
	}
	for _, m := range list {
		out[m.ID] = m
	}
	return out, nil
}

func (s *PostgresStore) ListActive(ctx context.Context) ([]*models.Staff, error) {
	return s.query(ctx, `SELECT `+staffColumns+` FROM staff WHERE deleted_at IS NULL ORDER BY lower(name)`)
}

func (s *PostgresStore) FindActiveByBranch(ctx context.Context, branchID id.BranchID) ([]*models.Staff, error) {
	return s.query(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE branch_id = $1 AND deleted_at IS NULL ORDER BY lower(name)`,
		uuid.UUID(branchID))
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]*models.Staff, error) {
	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query staff: %w", err)
	}
	defer rows.Close()
	var out []*models.Staff
	for rows.Next() {
		m, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("scan staff: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStaff(row rowScanner) (*models.Staff, error) {
	var m models.Staff
	var rawID uuid.UUID
	var role string
	var branchID uuid.NullUUID
	var deletedAt sql.NullTime
	if err := row.Scan(&rawID, &m.Name, &role, &m.PinHash, &branchID,
		&m.CreatedAt, &m.UpdatedAt, &deletedAt); err != nil {
		return nil, err
	}
	m.ID = id.StaffID(rawID)
	m.Role = models.Role(role)
	if branchID.Valid {
		b := id.BranchID(branchID.UUID)
		m.BranchID = &b
	}
	if deletedAt.Valid {
		m.DeletedAt = &deletedAt.Time
	}
	return &m, nil
}

func nullableBranch(branchID *id.BranchID) uuid.NullUUID {
	if branchID == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*branchID), Valid: true}
}
