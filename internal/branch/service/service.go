package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"stocktrail/internal/branch/models"
	"stocktrail/internal/branch/store"
	id "stocktrail/pkg/domain"
	dErrors "stocktrail/pkg/domain-errors"
	"stocktrail/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, branch *models.Branch) error
	Update(ctx context.Context, branch *models.Branch) error
	FindByID(ctx context.Context, branchID id.BranchID) (*models.Branch, error)
	ListActive(ctx context.Context) ([]*models.Branch, error)
}

// Service manages the branch registry.
type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(st Store, opts ...Option) *Service {
	s := &Service{store: st, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, req *models.CreateBranchRequest) (*models.Branch, error) {
	b, err := models.NewBranch(id.NewBranchID(), req.Name, req.ToAddress(), s.now().UTC())
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}
	if err := s.store.Create(ctx, b); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create branch")
	}
	s.logAudit(ctx, "branch_created", "branch_id", b.ID.String())
	return b, nil
}

// Get returns an active branch. Soft-deleted branches are reported as not found.
func (s *Service) Get(ctx context.Context, branchID id.BranchID) (*models.Branch, error) {
	b, err := s.load(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if !b.IsActive() {
		return nil, dErrors.New(dErrors.CodeNotFound, "branch not found")
	}
	return b, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Branch, error) {
	branches, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list branches")
	}
	return branches, nil
}

func (s *Service) Update(ctx context.Context, branchID id.BranchID, req *models.UpdateBranchRequest) (*models.Branch, error) {
	b, err := s.Get(ctx, branchID)
	if err != nil {
		return nil, err
	}
	req.Apply(b)
	b.UpdatedAt = s.now().UTC()
	if err := s.store.Update(ctx, b); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update branch")
	}
	s.logAudit(ctx, "branch_updated", "branch_id", b.ID.String())
	return b, nil
}

// Delete soft-deletes the branch. Slips and log rows keep referencing it.
func (s *Service) Delete(ctx context.Context, branchID id.BranchID) error {
	b, err := s.Get(ctx, branchID)
	if err != nil {
		return err
	}
	if err := b.SoftDelete(s.now().UTC()); err != nil {
		return dErrors.New(dErrors.CodeConflict, dErrors.MessageOf(err))
	}
	if err := s.store.Update(ctx, b); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete branch")
	}
	s.logAudit(ctx, "branch_deleted", "branch_id", b.ID.String())
	return nil
}

func (s *Service) load(ctx context.Context, branchID id.BranchID) (*models.Branch, error) {
	b, err := s.store.FindByID(ctx, branchID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "branch not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load branch")
	}
	return b, nil
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
