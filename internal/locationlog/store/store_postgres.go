package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"stocktrail/internal/locationlog/models"
	id "stocktrail/pkg/domain"
	txcontext "stocktrail/pkg/platform/tx"
)

// PostgresStore persists the location log in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const entryColumns = `id, product_id, previous_branch, new_branch, quantity, transfer_slip_id, changed_by, reason, created_at, seq`

func (s *PostgresStore) Append(ctx context.Context, e *models.Entry) error {
	query := `
		INSERT INTO location_log (id, product_id, previous_branch, new_branch, quantity, transfer_slip_id, changed_by, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING seq
	`
	err := txcontext.Executor(ctx, s.db).QueryRowContext(ctx, query,
		uuid.UUID(e.ID), uuid.UUID(e.ProductID), nullableBranch(e.PreviousBranch), nullableBranch(e.NewBranch),
		e.Quantity, nullableSlip(e.TransferSlipID), uuid.UUID(e.ChangedBy), string(e.Reason), e.CreatedAt,
	).Scan(&e.Seq)
	if err != nil {
		return fmt.Errorf("append location entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) Query(ctx context.Context, f models.Filter) ([]*models.Entry, error) {
	var (
		where []string
		args  []any
	)
	if f.ProductID != nil {
		args = append(args, uuid.UUID(*f.ProductID))
		where = append(where, "product_id = $"+strconv.Itoa(len(args)))
	}
	if f.TransferSlipID != nil {
		args = append(args, uuid.UUID(*f.TransferSlipID))
		where = append(where, "transfer_slip_id = $"+strconv.Itoa(len(args)))
	}
	query := `SELECT ` + entryColumns + ` FROM location_log`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, seq DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query location log: %w", err)
	}
	defer rows.Close()
	out := make([]*models.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PostgresStore) DeleteByProduct(ctx context.Context, productID id.ProductID) (int64, error) {
	return s.exec(ctx, `DELETE FROM location_log WHERE product_id = $1`, uuid.UUID(productID))
}

func (s *PostgresStore) DeleteTransferEntries(ctx context.Context) (int64, error) {
	return s.exec(ctx, `DELETE FROM location_log WHERE transfer_slip_id IS NOT NULL`)
}

func (s *PostgresStore) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete location entries: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*models.Entry, error) {
	var (
		e                  models.Entry
		rawID, product     uuid.UUID
		changedBy          uuid.UUID
		prev, next, slipID uuid.NullUUID
		reason             string
	)
	if err := row.Scan(&rawID, &product, &prev, &next, &e.Quantity, &slipID, &changedBy, &reason, &e.CreatedAt, &e.Seq); err != nil {
		return nil, err
	}
	e.ID = id.LogEntryID(rawID)
	e.ProductID = id.ProductID(product)
	e.ChangedBy = id.StaffID(changedBy)
	e.Reason = models.Reason(reason)
	if prev.Valid {
		b := id.BranchID(prev.UUID)
		e.PreviousBranch = &b
	}
	if next.Valid {
		b := id.BranchID(next.UUID)
		e.NewBranch = &b
	}
	if slipID.Valid {
		sl := id.SlipID(slipID.UUID)
		e.TransferSlipID = &sl
	}
	return &e, nil
}

func nullableBranch(branchID *id.BranchID) uuid.NullUUID {
	if branchID == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*branchID), Valid: true}
}

func nullableSlip(slipID *id.SlipID) uuid.NullUUID {
	if slipID == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*slipID), Valid: true}
}
