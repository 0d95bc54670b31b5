package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"stocktrail/internal/product/models"
	id "stocktrail/pkg/domain"
	txcontext "stocktrail/pkg/platform/tx"
)

// PostgresStore reads and writes the products table. Inside a transaction
// (see pkg/platform/tx) every call joins it.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const productColumns = `id, name, quantity, current_branch, updated_at`

func (s *PostgresStore) Save(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, quantity = EXCLUDED.quantity,
		    current_branch = EXCLUDED.current_branch, updated_at = EXCLUDED.updated_at
	`
	_, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(p.ID), p.Name, p.Quantity, nullableBranch(p.CurrentBranch), p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, productID id.ProductID) (*models.Product, error) {
	return s.findOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, productID)
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
func (s *PostgresStore) FindByIDForUpdate(ctx context.Context, productID id.ProductID) (*models.Product, error) {
	if _, ok := txcontext.From(ctx); !ok {
		return nil, errors.New("find product for update: no transaction in context")
	}
	return s.findOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, productID)
}

func (s *PostgresStore) findOne(ctx context.Context, query string, productID id.ProductID) (*models.Product, error) {
	p, err := scanProduct(txcontext.Executor(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(productID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) FindByIDs(ctx context.Context, ids []id.ProductID) (map[id.ProductID]*models.Product, error) {
	out := make(map[id.ProductID]*models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	raw := make([]string, len(ids))
	for i, productID := range ids {
		raw[i] = productID.String()
	}
	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ANY($1::uuid[])`, pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

// UpdateQuantityAndBranch writes only the fields set in u.
func (s *PostgresStore) UpdateQuantityAndBranch(ctx context.Context, productID id.ProductID, u models.Update) error {
	if err := u.Validate(); err != nil {
		return err
	}
	var quantity sql.NullInt64
	if u.Quantity != nil {
		quantity = sql.NullInt64{Int64: int64(*u.Quantity), Valid: true}
	}
	query := `
		UPDATE products
		SET quantity = COALESCE($2, quantity),
		    current_branch = COALESCE($3, current_branch),
		    updated_at = $4
		WHERE id = $1
	`
	res, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(productID), quantity, nullableBranch(u.CurrentBranch), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	var rawID uuid.UUID
	var branch uuid.NullUUID
	if err := row.Scan(&rawID, &p.Name, &p.Quantity, &branch, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.ID = id.ProductID(rawID)
	if branch.Valid {
		b := id.BranchID(branch.UUID)
		p.CurrentBranch = &b
	}
	return &p, nil
}

func nullableBranch(branchID *id.BranchID) uuid.NullUUID {
	if branchID == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*branchID), Valid: true}
}
