package service

import (
	"context"
	"log/slog"

	"stocktrail/internal/directory"
	"stocktrail/internal/locationlog/models"
	id "stocktrail/pkg/domain"
	dErrors "stocktrail/pkg/domain-errors"
	"stocktrail/pkg/requestcontext"
)

type Store interface {
	Query(ctx context.Context, f models.Filter) ([]*models.Entry, error)
	DeleteByProduct(ctx context.Context, productID id.ProductID) (int64, error)
	DeleteTransferEntries(ctx context.Context) (int64, error)
}

type NameResolver interface {
	Resolve(ctx context.Context, req directory.Request) *directory.Names
}

// SlipPurger removes transfer slips during an administrative reset.
type SlipPurger interface {
	CountInTransit(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// TxRunner makes the reset atomic with respect to transfer workflow operations.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

const DefaultPageSize = 500

// Service reads and resets the location audit log.
type Service struct {
	store    Store
	names    NameResolver
	slips    SlipPurger
	tx       TxRunner
	logger   *slog.Logger
	pageSize int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithPageSize bounds AllHistory. Non-positive values keep the default.
func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithTransferReset enables ClearAllTransferHistory.
func WithTransferReset(slips SlipPurger, tx TxRunner) Option {
	return func(s *Service) {
		s.slips = slips
		s.tx = tx
	}
}

func New(store Store, names NameResolver, opts ...Option) *Service {
	s := &Service{store: store, names: names, pageSize: DefaultPageSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProductHistory returns one product's log, newest first, with staff and branch names.
func (s *Service) ProductHistory(ctx context.Context, productID id.ProductID) ([]models.EnrichedEntry, error) {
	entries, err := s.store.Query(ctx, models.Filter{ProductID: &productID})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load location history")
	}
	return s.enrich(ctx, entries, false), nil
}

// AllHistory returns the most recent page of the global log, product names included.
func (s *Service) AllHistory(ctx context.Context) ([]models.EnrichedEntry, error) {
	entries, err := s.store.Query(ctx, models.Filter{Limit: s.pageSize})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load location history")
	}
	return s.enrich(ctx, entries, true), nil
}

// ClearProductHistory irreversibly deletes every log row of one product.
func (s *Service) ClearProductHistory(ctx context.Context, productID id.ProductID) (int64, error) {
	n, err := s.store.DeleteByProduct(ctx, productID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear location history")
	}
	s.logAudit(ctx, "location_history_cleared",
		"product_id", productID.String(),
		"entries_deleted", n,
	)
	return n, nil
}

// ClearAllTransferHistory irreversibly deletes every transfer slip and every
// log row that references one. It refuses while units are in flight, since
// dropping an in-transit slip would lose them.
func (s *Service) ClearAllTransferHistory(ctx context.Context) (models.ClearResult, error) {
	var result models.ClearResult
	if s.slips == nil || s.tx == nil {
		return result, dErrors.New(dErrors.CodeInternal, "transfer reset is not configured")
	}
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		inTransit, err := s.slips.CountInTransit(ctx)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count in-transit transfers")
		}
		if inTransit > 0 {
			return dErrors.New(dErrors.CodeConflict, "in-transit transfers must be received or cancelled first")
		}
		if result.EntriesDeleted, err = s.store.DeleteTransferEntries(ctx); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear transfer log entries")
		}
		if result.SlipsDeleted, err = s.slips.DeleteAll(ctx); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear transfer slips")
		}
		return nil
	})
	if err != nil {
		return models.ClearResult{}, err
	}
	s.logAudit(ctx, "transfer_history_cleared",
		"entries_deleted", result.EntriesDeleted,
		"slips_deleted", result.SlipsDeleted,
	)
	return result, nil
}

func (s *Service) enrich(ctx context.Context, entries []*models.Entry, withProducts bool) []models.EnrichedEntry {
	out := make([]models.EnrichedEntry, 0, len(entries))
	if len(entries) == 0 {
		return out
	}
	var req directory.Request
	for _, e := range entries {
		req.Staff = append(req.Staff, e.ChangedBy)
		if e.PreviousBranch != nil {
			req.Branches = append(req.Branches, *e.PreviousBranch)
		}
		if e.NewBranch != nil {
			req.Branches = append(req.Branches, *e.NewBranch)
		}
		if withProducts {
			req.Products = append(req.Products, e.ProductID)
		}
	}
	names := s.names.Resolve(ctx, req)
	for _, e := range entries {
		enriched := models.EnrichedEntry{
			Entry:              *e,
			PreviousBranchName: names.BranchPtr(e.PreviousBranch),
			NewBranchName:      names.BranchPtr(e.NewBranch),
			ChangedByName:      names.Staff(e.ChangedBy),
		}
		if withProducts {
			enriched.ProductName = names.Product(e.ProductID)
		}
		out = append(out, enriched)
	}
	return out
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if s.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}
