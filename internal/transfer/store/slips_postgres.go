package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"stocktrail/internal/transfer/models"
	id "stocktrail/pkg/domain"
	txcontext "stocktrail/pkg/platform/tx"
)

// PostgresStore persists slips in the transfer_slips table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const slipColumns = `id, human_id, product_id, product_name, quantity, from_branch, to_branch,
	requested_by, requested_at, status, notes, qr_payload,
	received_by, received_at, cancelled_by, cancelled_at`

func (s *PostgresStore) Create(ctx context.Context, slip *models.Slip) error {
	query := `
		INSERT INTO transfer_slips (` + slipColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(slip.ID), slip.HumanID, uuid.UUID(slip.ProductID), slip.ProductName, slip.Quantity,
		uuid.UUID(slip.FromBranch), uuid.UUID(slip.ToBranch),
		uuid.UUID(slip.RequestedBy), slip.RequestedAt, string(slip.Status), slip.Notes, slip.QRPayload,
		nullableStaff(slip.ReceivedBy), slip.ReceivedAt, nullableStaff(slip.CancelledBy), slip.CancelledAt,
	)
	if err != nil {
		return fmt.Errorf("create slip: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, slipID id.SlipID) (*models.Slip, error) {
	return s.findOne(ctx, `SELECT `+slipColumns+` FROM transfer_slips WHERE id = $1`, slipID)
}

// FindByIDForUpdate locks the slip row. Concurrent receivers queue on the lock
// and re-read the committed status once it is released.
func (s *PostgresStore) FindByIDForUpdate(ctx context.Context, slipID id.SlipID) (*models.Slip, error) {
	if _, ok := txcontext.From(ctx); !ok {
		return nil, errors.New("find slip for update: no transaction in context")
	}
	return s.findOne(ctx, `SELECT `+slipColumns+` FROM transfer_slips WHERE id = $1 FOR UPDATE`, slipID)
}

func (s *PostgresStore) findOne(ctx context.Context, query string, slipID id.SlipID) (*models.Slip, error) {
	slip, err := scanSlip(txcontext.Executor(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(slipID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find slip: %w", err)
	}
	return slip, nil
}

// Update writes the mutable lifecycle columns. Quantity and routing are immutable.
func (s *PostgresStore) Update(ctx context.Context, slip *models.Slip) error {
	query := `
		UPDATE transfer_slips
		SET status = $2, received_by = $3, received_at = $4, cancelled_by = $5, cancelled_at = $6
		WHERE id = $1
	`
	res, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(slip.ID), string(slip.Status),
		nullableStaff(slip.ReceivedBy), slip.ReceivedAt, nullableStaff(slip.CancelledBy), slip.CancelledAt,
	)
	if err != nil {
		return fmt.Errorf("update slip: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update slip rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, f models.Filter) ([]*models.Slip, error) {
	var (
		where []string
		args  []any
	)
	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, clause+" = $"+strconv.Itoa(len(args)))
	}
	if f.Status != nil {
		add("status", string(*f.Status))
	}
	if f.FromBranch != nil {
		add("from_branch", uuid.UUID(*f.FromBranch))
	}
	if f.ToBranch != nil {
		add("to_branch", uuid.UUID(*f.ToBranch))
	}
	if f.ProductID != nil {
		add("product_id", uuid.UUID(*f.ProductID))
	}
	query := `SELECT ` + slipColumns + ` FROM transfer_slips`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY requested_at DESC, human_id DESC`

	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list slips: %w", err)
	}
	defer rows.Close()
	out := make([]*models.Slip, 0)
	for rows.Next() {
		slip, err := scanSlip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slip: %w", err)
		}
		out = append(out, slip)
	}
	return out, rows.Err()
}

// CountInTransit counts open slips. Inside a transaction it first blocks new
// slips and status changes until commit, so the count stays true for the
// rest of the transaction.
func (s *PostgresStore) CountInTransit(ctx context.Context) (int, error) {
	if _, inTx := txcontext.From(ctx); inTx {
		if _, err := txcontext.Executor(ctx, s.db).ExecContext(ctx,
			`LOCK TABLE transfer_slips IN SHARE ROW EXCLUSIVE MODE`); err != nil {
			return 0, fmt.Errorf("lock transfer slips: %w", err)
		}
	}
	var n int
	err := txcontext.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT count(*) FROM transfer_slips WHERE status = $1`, string(models.StatusInTransit)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count in-transit slips: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) DeleteAll(ctx context.Context) (int64, error) {
	res, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, `DELETE FROM transfer_slips`)
	if err != nil {
		return 0, fmt.Errorf("delete slips: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSlip(row rowScanner) (*models.Slip, error) {
	var (
		slip                          models.Slip
		rawID, product, from, to, req uuid.UUID
		status                        string
		receivedBy, cancelledBy       uuid.NullUUID
		receivedAt, cancelledAt       sql.NullTime
	)
	if err := row.Scan(&rawID, &slip.HumanID, &product, &slip.ProductName, &slip.Quantity, &from, &to,
		&req, &slip.RequestedAt, &status, &slip.Notes, &slip.QRPayload,
		&receivedBy, &receivedAt, &cancelledBy, &cancelledAt); err != nil {
		return nil, err
	}
	slip.ID = id.SlipID(rawID)
	slip.ProductID = id.ProductID(product)
	slip.FromBranch = id.BranchID(from)
	slip.ToBranch = id.BranchID(to)
	slip.RequestedBy = id.StaffID(req)
	slip.Status = models.Status(status)
	if receivedBy.Valid {
		v := id.StaffID(receivedBy.UUID)
		slip.ReceivedBy = &v
	}
	if receivedAt.Valid {
		slip.ReceivedAt = &receivedAt.Time
	}
	if cancelledBy.Valid {
		v := id.StaffID(cancelledBy.UUID)
		slip.CancelledBy = &v
	}
	if cancelledAt.Valid {
		slip.CancelledAt = &cancelledAt.Time
	}
	return &slip, nil
}

func nullableStaff(staffID *id.StaffID) uuid.NullUUID {
	if staffID == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*staffID), Valid: true}
}
