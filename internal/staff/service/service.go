package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	branchModels "stocktrail/internal/branch/models"
	"stocktrail/internal/staff/lockout"
	"stocktrail/internal/staff/models"
	"stocktrail/internal/staff/pin"
	"stocktrail/internal/staff/store"
	id "stocktrail/pkg/domain"
	dErrors "stocktrail/pkg/domain-errors"
	"stocktrail/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, member *models.Staff) error
	Update(ctx context.Context, member *models.Staff) error
	FindByID(ctx context.Context, staffID id.StaffID) (*models.Staff, error)
	ListActive(ctx context.Context) ([]*models.Staff, error)
	FindActiveByBranch(ctx context.Context, branchID id.BranchID) ([]*models.Staff, error)
}

// BranchLookup confirms branch assignments point at live branches.
type BranchLookup interface {
	Get(ctx context.Context, branchID id.BranchID) (*branchModels.Branch, error)
}

// errInvalidCredentials is deliberately identical for unknown staff and wrong PIN.
var errInvalidCredentials = dErrors.New(dErrors.CodeUnauthorized, "invalid staff credentials")

// Service is the staff directory.
type Service struct {
	store    Store
	branches BranchLookup
	logger   *slog.Logger
	lockout  *lockout.Guard
	now      func() time.Time
	hash     func(string) (string, error)
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithBranchLookup enables branch existence checks on create and update.
func WithBranchLookup(branches BranchLookup) Option {
	return func(s *Service) {
		s.branches = branches
	}
}

// WithLockout refuses authentication after repeated PIN failures.
func WithLockout(g *lockout.Guard) Option {
	return func(s *Service) {
		s.lockout = g
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(st Store, opts ...Option) *Service {
	s := &Service{store: st, now: time.Now, hash: pin.Hash}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListActive returns live staff sorted by name.
func (s *Service) ListActive(ctx context.Context) ([]*models.Staff, error) {
	list, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list staff")
	}
	return list, nil
}

// Get returns a staff record, soft-deleted ones included, so historical
// references stay resolvable.
func (s *Service) Get(ctx context.Context, staffID id.StaffID) (*models.Staff, error) {
	m, err := s.store.FindByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "staff not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load staff")
	}
	return m, nil
}

// GetByBranch returns the single active staff member of a branch, or nil when
// there is none or the assignment is ambiguous.
func (s *Service) GetByBranch(ctx context.Context, branchID id.BranchID) (*models.Staff, error) {
	list, err := s.store.FindActiveByBranch(ctx, branchID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load branch staff")
	}
	if len(list) != 1 {
		if len(list) > 1 && s.logger != nil {
			s.logger.WarnContext(ctx, "multiple active staff assigned to branch",
				"branch_id", branchID.String(),
				"count", len(list),
			)
		}
		return nil, nil
	}
	return list[0], nil
}

func (s *Service) Create(ctx context.Context, req *models.CreateStaffRequest) (*models.Staff, error) {
	branchID := req.Branch()
	if err := s.checkBranch(ctx, branchID); err != nil {
		return nil, err
	}
	digest, err := s.hash(req.PIN)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash pin")
	}
	m, err := models.NewStaff(id.NewStaffID(), req.Name, req.Role, digest, branchID, s.now().UTC())
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}
	if err := s.store.Create(ctx, m); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create staff")
	}
	s.logAudit(ctx, "staff_created", "staff_id", m.ID.String(), "role", string(m.Role))
	return m, nil
}

// UpdateProfile changes name, role or branch. The PIN digest is never touched.
func (s *Service) UpdateProfile(ctx context.Context, staffID id.StaffID, req *models.UpdateProfileRequest) (*models.Staff, error) {
	m, err := s.getActive(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.Role != nil {
		m.Role = *req.Role
	}
	if branchID, changed := req.NewBranch(); changed {
		if err := s.checkBranch(ctx, branchID); err != nil {
			return nil, err
		}
		m.BranchID = branchID
	}
	m.UpdatedAt = s.now().UTC()
	if err := s.store.Update(ctx, m); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update staff")
	}
	s.logAudit(ctx, "staff_updated", "staff_id", m.ID.String())
	return m, nil
}

func (s *Service) RotatePIN(ctx context.Context, staffID id.StaffID, newPIN string) error {
	m, err := s.getActive(ctx, staffID)
	if err != nil {
		return err
	}
	digest, err := s.hash(newPIN)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			return err
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash pin")
	}
	m.SetPIN(digest, s.now().UTC())
	if err := s.store.Update(ctx, m); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to rotate pin")
	}
	s.logAudit(ctx, "staff_pin_rotated", "staff_id", m.ID.String())
	return nil
}

func (s *Service) Delete(ctx context.Context, staffID id.StaffID) error {
	m, err := s.getActive(ctx, staffID)
	if err != nil {
		return err
	}
	if err := m.SoftDelete(s.now().UTC()); err != nil {
		return dErrors.New(dErrors.CodeConflict, dErrors.MessageOf(err))
	}
	if err := s.store.Update(ctx, m); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete staff")
	}
	s.logAudit(ctx, "staff_deleted", "staff_id", m.ID.String())
	return nil
}

// Authenticate checks pin against one staff member. Unknown, deleted and
// mismatching staff all yield the same unauthorized error.
func (s *Service) Authenticate(ctx context.Context, staffID id.StaffID, candidate string) (*models.Staff, error) {
	key := lockout.Key("staff", staffID.String(), requestcontext.ClientIP(ctx))
	if err := s.reserveAttempt(ctx, key); err != nil {
		return nil, err
	}
	m, err := s.store.FindByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.logAuthFailure(ctx, "staff_not_found", staffID)
			return nil, errInvalidCredentials
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load staff")
	}
	if !m.IsActive() {
		s.logAuthFailure(ctx, "staff_inactive", staffID)
		return nil, errInvalidCredentials
	}
	if !pin.Verify(candidate, m.PinHash) {
		s.logAuthFailure(ctx, "pin_mismatch", staffID)
		return nil, errInvalidCredentials
	}
	s.resetLockout(ctx, key)
	s.warnLegacyDigest(ctx, m)
	return m, nil
}

// AuthenticateByPIN scans active staff for a digest match. The first match in
// name order wins.
func (s *Service) AuthenticateByPIN(ctx context.Context, candidate string) (*models.Staff, error) {
	key := lockout.Key("pin", requestcontext.ClientIP(ctx))
	if err := s.reserveAttempt(ctx, key); err != nil {
		return nil, err
	}
	list, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list staff")
	}
	for _, m := range list {
		if err := ctx.Err(); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "authentication timed out")
		}
		if pin.Verify(candidate, m.PinHash) {
			s.resetLockout(ctx, key)
			s.warnLegacyDigest(ctx, m)
			return m, nil
		}
	}
	if s.logger != nil {
		s.logger.WarnContext(ctx, "pin authentication failed",
			"request_id", requestcontext.RequestID(ctx),
			"client_ip", requestcontext.ClientIP(ctx),
			"reason", "no_match",
		)
	}
	return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid pin")
}

// reserveAttempt counts the attempt before any digest is compared.
func (s *Service) reserveAttempt(ctx context.Context, key string) error {
	if s.lockout == nil {
		return nil
	}
	return s.lockout.Attempt(ctx, key)
}

func (s *Service) resetLockout(ctx context.Context, key string) {
	if s.lockout != nil {
		s.lockout.Reset(ctx, key)
	}
}

func (s *Service) getActive(ctx context.Context, staffID id.StaffID) (*models.Staff, error) {
	m, err := s.Get(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if !m.IsActive() {
		return nil, dErrors.New(dErrors.CodeNotFound, "staff not found")
	}
	return m, nil
}

func (s *Service) checkBranch(ctx context.Context, branchID *id.BranchID) error {
	if branchID == nil || s.branches == nil {
		return nil
	}
	if _, err := s.branches.Get(ctx, *branchID); err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return dErrors.New(dErrors.CodeValidation, "assigned branch does not exist")
		}
		return err
	}
	return nil
}

func (s *Service) logAuthFailure(ctx context.Context, reason string, staffID id.StaffID) {
	if s.logger == nil {
		return
	}
	s.logger.WarnContext(ctx, "staff authentication failed",
		"request_id", requestcontext.RequestID(ctx),
		"client_ip", requestcontext.ClientIP(ctx),
		"staff_id", staffID.String(),
		"reason", reason,
	)
}

func (s *Service) warnLegacyDigest(ctx context.Context, m *models.Staff) {
	if s.logger == nil || !m.NeedsPINRotation() {
		return
	}
	s.logger.WarnContext(ctx, "staff authenticated with legacy pin digest",
		"staff_id", m.ID.String(),
	)
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
