package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	branchModels "stocktrail/internal/branch/models"
	"stocktrail/internal/directory"
	logModels "stocktrail/internal/locationlog/models"
	productModels "stocktrail/internal/product/models"
	staffModels "stocktrail/internal/staff/models"
	"stocktrail/internal/transfer/events"
	"stocktrail/internal/transfer/metrics"
	"stocktrail/internal/transfer/models"
	"stocktrail/internal/transfer/store"
	id "stocktrail/pkg/domain"
	dErrors "stocktrail/pkg/domain-errors"
	"stocktrail/pkg/platform/sentinel"
	txcontext "stocktrail/pkg/platform/tx"
	"stocktrail/pkg/requestcontext"
)

// Tx runs fn atomically over the stores a workflow operation mutates.
type Tx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, stores store.TxStores) error) error
}

// SlipReader serves read-only slip queries outside a transaction.
type SlipReader interface {
	FindByID(ctx context.Context, slipID id.SlipID) (*models.Slip, error)
	List(ctx context.Context, f models.Filter) ([]*models.Slip, error)
}

type Authenticator interface {
	Authenticate(ctx context.Context, staffID id.StaffID, pin string) (*staffModels.Staff, error)
	// Get reads the current record, soft-deleted ones included.
	Get(ctx context.Context, staffID id.StaffID) (*staffModels.Staff, error)
}

// BranchLookup returns active branches and a not_found error for unknown or deleted ones.
type BranchLookup interface {
	Get(ctx context.Context, branchID id.BranchID) (*branchModels.Branch, error)
}

type NameResolver interface {
	Resolve(ctx context.Context, req directory.Request) *directory.Names
}

// Renderer turns a slip payload into a scannable image handle.
type Renderer interface {
	Render(payload string) (string, error)
}

// Publisher accepts lifecycle events after commit. It must not block.
type Publisher interface {
	Emit(ctx context.Context, e events.Event) bool
}

const (
	opInitiate = "initiate"
	opReceive  = "receive"
	opCancel   = "cancel"
)

// Service is the transfer workflow. It holds no per-call state and is safe
// for concurrent use.
type Service struct {
	tx                 Tx
	slips              SlipReader
	auth               Authenticator
	branches           BranchLookup
	names              NameResolver
	renderer           Renderer
	publisher          Publisher
	metrics            *metrics.Metrics
	tracer             trace.Tracer
	logger             *slog.Logger
	now                func() time.Time
	timeout            time.Duration
	auditCancellations bool
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

func WithRenderer(r Renderer) Option {
	return func(s *Service) {
		s.renderer = r
	}
}

func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// WithAuditCancellations makes Cancel append a transfer_cancelled log row.
func WithAuditCancellations(enabled bool) Option {
	return func(s *Service) {
		s.auditCancellations = enabled
	}
}

// WithTimeout bounds operations whose context has no deadline.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithClock overrides the request-pinned time from requestcontext.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(tx Tx, slips SlipReader, auth Authenticator, branches BranchLookup, names NameResolver, opts ...Option) *Service {
	s := &Service{
		tx:       tx,
		slips:    slips,
		auth:     auth,
		branches: branches,
		names:    names,
		tracer:   otel.Tracer("stocktrail/transfer"),
		timeout:  txcontext.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initiate deducts cmd.Quantity from the product and records an in-transit
// slip plus its transfer_initiated log row in one transaction.
func (s *Service) Initiate(ctx context.Context, cmd *models.Initiate) (result *models.InitiateResult, err error) {
	ctx, span := s.tracer.Start(ctx, "transfer.initiate", trace.WithAttributes(
		attribute.String("product_id", cmd.ProductID.String()),
		attribute.Int("quantity", cmd.Quantity),
	))
	start := time.Now()
	defer func() { s.finish(span, opInitiate, start, err) }()

	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	requester, err := s.auth.Authenticate(ctx, cmd.RequestedBy, cmd.PIN)
	if err != nil {
		return nil, txcontext.AsTimeout(ctx, err)
	}
	if err := s.checkBranch(ctx, cmd.FromBranch, "origin"); err != nil {
		return nil, err
	}
	if err := s.checkBranch(ctx, cmd.ToBranch, "destination"); err != nil {
		return nil, err
	}

	now := s.clock(ctx)
	var slip *models.Slip
	err = s.tx.RunInTx(ctx, func(ctx context.Context, st store.TxStores) error {
		product, err := loadProduct(ctx, st.Products, cmd.ProductID)
		if err != nil {
			return err
		}
		if product.Quantity < cmd.Quantity {
			return dErrors.New(dErrors.CodeInsufficientQuantity,
				fmt.Sprintf("insufficient quantity: %d available, %d requested", product.Quantity, cmd.Quantity))
		}

		slip, err = models.NewSlip(id.NewSlipID(), models.NewHumanID(now), product.ID, product.Name,
			cmd.Quantity, cmd.FromBranch, cmd.ToBranch, requester.ID, cmd.Notes, now)
		if err != nil {
			return err
		}
		if err := st.Slips.Create(ctx, slip); err != nil {
			return storeError(err, "failed to save transfer slip")
		}
		remaining := product.Quantity - cmd.Quantity
		if err := st.Products.UpdateQuantityAndBranch(ctx, product.ID, productModels.Update{Quantity: &remaining}); err != nil {
			return storeError(err, "failed to update product quantity")
		}
		return appendEntry(ctx, st.Log, slip, slip.FromBranch, slip.ToBranch, requester.ID, logModels.ReasonTransferInitiated, now)
	})
	if err != nil {
		return nil, txcontext.AsTimeout(ctx, err)
	}

	result = &models.InitiateResult{Slip: slip, QRCode: s.render(ctx, slip)}
	if s.metrics != nil {
		s.metrics.UnitsInTransit.Add(float64(slip.Quantity))
	}
	s.emit(ctx, events.TypeInitiated, slip, requester.ID, now)
	s.logAudit(ctx, "transfer_initiated",
		"slip_id", slip.ID.String(),
		"human_id", slip.HumanID,
		"product_id", slip.ProductID.String(),
		"quantity", slip.Quantity,
		"from_branch", slip.FromBranch.String(),
		"to_branch", slip.ToBranch.String(),
		"staff_id", requester.ID.String(),
	)
	return result, nil
}

// Receive credits the destination and completes the slip. Only staff assigned
// to the destination branch may receive.
func (s *Service) Receive(ctx context.Context, slipID id.SlipID, actor models.Actor) (slip *models.Slip, err error) {
	ctx, span := s.tracer.Start(ctx, "transfer.receive", trace.WithAttributes(
		attribute.String("slip_id", slipID.String()),
	))
	start := time.Now()
	defer func() { s.finish(span, opReceive, start, err) }()

	ctx, cancel := s.bound(ctx)
	defer cancel()

	receiver, err := s.authenticate(ctx, actor)
	if err != nil {
		return nil, err
	}

	now := s.clock(ctx)
	err = s.tx.RunInTx(ctx, func(ctx context.Context, st store.TxStores) error {
		open, err := loadOpenSlip(ctx, st.Slips, slipID)
		if err != nil {
			return err
		}
		slip = open
		current, err := s.currentMember(ctx, receiver.ID)
		if err != nil {
			return err
		}
		if !current.AssignedTo(slip.ToBranch) {
			return dErrors.New(dErrors.CodeForbidden, "staff must be from the destination branch")
		}
		product, err := loadProduct(ctx, st.Products, slip.ProductID)
		if err != nil {
			return err
		}
		quantity := product.Quantity + slip.Quantity
		destination := slip.ToBranch
		if err := st.Products.UpdateQuantityAndBranch(ctx, product.ID, productModels.Update{
			Quantity:      &quantity,
			CurrentBranch: &destination,
		}); err != nil {
			return storeError(err, "failed to update product")
		}
		if err := slip.Complete(receiver.ID, now); err != nil {
			return err
		}
		if err := st.Slips.Update(ctx, slip); err != nil {
			return storeError(err, "failed to update transfer slip")
		}
		return appendEntry(ctx, st.Log, slip, slip.FromBranch, slip.ToBranch, receiver.ID, logModels.ReasonTransferComplete, now)
	})
	if err != nil {
		return nil, txcontext.AsTimeout(ctx, err)
	}

	if s.metrics != nil {
		s.metrics.UnitsInTransit.Sub(float64(slip.Quantity))
	}
	s.emit(ctx, events.TypeCompleted, slip, receiver.ID, now)
	s.logAudit(ctx, "transfer_received",
		"slip_id", slip.ID.String(),
		"product_id", slip.ProductID.String(),
		"quantity", slip.Quantity,
		"to_branch", slip.ToBranch.String(),
		"staff_id", receiver.ID.String(),
	)
	return slip, nil
}

// Cancel returns the units to the origin shelf. The product's recorded
// branch is left alone since the units never left it.
func (s *Service) Cancel(ctx context.Context, slipID id.SlipID, actor models.Actor) (slip *models.Slip, err error) {
	ctx, span := s.tracer.Start(ctx, "transfer.cancel", trace.WithAttributes(
		attribute.String("slip_id", slipID.String()),
	))
	start := time.Now()
	defer func() { s.finish(span, opCancel, start, err) }()

	ctx, cancel := s.bound(ctx)
	defer cancel()

	canceller, err := s.authenticate(ctx, actor)
	if err != nil {
		return nil, err
	}

	now := s.clock(ctx)
	err = s.tx.RunInTx(ctx, func(ctx context.Context, st store.TxStores) error {
		open, err := loadOpenSlip(ctx, st.Slips, slipID)
		if err != nil {
			return err
		}
		slip = open
		product, err := loadProduct(ctx, st.Products, slip.ProductID)
		if err != nil {
			return err
		}
		quantity := product.Quantity + slip.Quantity
		if err := st.Products.UpdateQuantityAndBranch(ctx, product.ID, productModels.Update{Quantity: &quantity}); err != nil {
			return storeError(err, "failed to restore product quantity")
		}
		if err := slip.Cancel(canceller.ID, now); err != nil {
			return err
		}
		if err := st.Slips.Update(ctx, slip); err != nil {
			return storeError(err, "failed to update transfer slip")
		}
		if !s.auditCancellations {
			return nil
		}
		return appendEntry(ctx, st.Log, slip, slip.ToBranch, slip.FromBranch, canceller.ID, logModels.ReasonTransferCancelled, now)
	})
	if err != nil {
		return nil, txcontext.AsTimeout(ctx, err)
	}

	if s.metrics != nil {
		s.metrics.UnitsInTransit.Sub(float64(slip.Quantity))
	}
	s.emit(ctx, events.TypeCancelled, slip, canceller.ID, now)
	s.logAudit(ctx, "transfer_cancelled",
		"slip_id", slip.ID.String(),
		"product_id", slip.ProductID.String(),
		"quantity", slip.Quantity,
		"staff_id", canceller.ID.String(),
	)
	return slip, nil
}

// ListSlips returns matching slips newest first with display names resolved.
func (s *Service) ListSlips(ctx context.Context, f models.Filter) ([]models.EnrichedSlip, error) {
	slips, err := s.slips.List(ctx, f)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list transfer slips")
	}
	return s.enrich(ctx, slips), nil
}

func (s *Service) GetSlip(ctx context.Context, slipID id.SlipID) (*models.EnrichedSlip, error) {
	slip, err := s.slips.FindByID(ctx, slipID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "transfer slip not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load transfer slip")
	}
	enriched := s.enrich(ctx, []*models.Slip{slip})
	return &enriched[0], nil
}

// ScanSlip resolves a payload read off a printed slip.
func (s *Service) ScanSlip(ctx context.Context, payload string) (*models.EnrichedSlip, error) {
	slipID, err := models.DecodeQRPayload(payload)
	if err != nil {
		return nil, err
	}
	return s.GetSlip(ctx, slipID)
}

func (s *Service) enrich(ctx context.Context, slips []*models.Slip) []models.EnrichedSlip {
	out := make([]models.EnrichedSlip, 0, len(slips))
	if len(slips) == 0 {
		return out
	}
	var req directory.Request
	for _, slip := range slips {
		req.Staff = append(req.Staff, slip.RequestedBy)
		if slip.ReceivedBy != nil {
			req.Staff = append(req.Staff, *slip.ReceivedBy)
		}
		if slip.CancelledBy != nil {
			req.Staff = append(req.Staff, *slip.CancelledBy)
		}
		req.Branches = append(req.Branches, slip.FromBranch, slip.ToBranch)
	}
	names := s.names.Resolve(ctx, req)
	for _, slip := range slips {
		enriched := models.EnrichedSlip{
			Slip:            *slip,
			RequestedByName: names.Staff(slip.RequestedBy),
			FromBranchName:  names.Branch(slip.FromBranch),
			ToBranchName:    names.Branch(slip.ToBranch),
		}
		if slip.ReceivedBy != nil {
			enriched.ReceivedByName = names.StaffPtr(slip.ReceivedBy)
		}
		if slip.CancelledBy != nil {
			enriched.CancelledByName = names.StaffPtr(slip.CancelledBy)
		}
		out = append(out, enriched)
	}
	return out
}

func (s *Service) authenticate(ctx context.Context, actor models.Actor) (*staffModels.Staff, error) {
	if actor.PIN == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "pin is required")
	}
	member, err := s.auth.Authenticate(ctx, actor.StaffID, actor.PIN)
	if err != nil {
		return nil, txcontext.AsTimeout(ctx, err)
	}
	return member, nil
}

// currentMember re-reads an authenticated member inside the transaction so a
// reassignment or deletion after the PIN check is honoured.
func (s *Service) currentMember(ctx context.Context, staffID id.StaffID) (*staffModels.Staff, error) {
	member, err := s.auth.Get(ctx, staffID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid staff credentials")
		}
		return nil, err
	}
	if !member.IsActive() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid staff credentials")
	}
	return member, nil
}

func (s *Service) checkBranch(ctx context.Context, branchID id.BranchID, role string) error {
	if s.branches == nil {
		return nil
	}
	if _, err := s.branches.Get(ctx, branchID); err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return dErrors.New(dErrors.CodeNotFound, role+" branch not found")
		}
		return txcontext.AsTimeout(ctx, err)
	}
	return nil
}

func (s *Service) clock(ctx context.Context) time.Time {
	if s.now != nil {
		return s.now()
	}
	return requestcontext.Now(ctx)
}

func (s *Service) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Service) render(ctx context.Context, slip *models.Slip) string {
	if s.renderer == nil {
		return ""
	}
	image, err := s.renderer.Render(slip.QRPayload)
	if err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "qr render failed",
				"slip_id", slip.ID.String(),
				"error", err,
			)
		}
		return ""
	}
	return image
}

// emit hands the event to the publisher. The operation has already committed,
// so delivery problems are only counted.
func (s *Service) emit(ctx context.Context, t events.Type, slip *models.Slip, actor id.StaffID, at time.Time) {
	if s.publisher == nil {
		return
	}
	if !s.publisher.Emit(ctx, events.FromSlip(t, slip, actor, at)) && s.metrics != nil {
		s.metrics.EventsDropped.Inc()
	}
}

func (s *Service) finish(span trace.Span, operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(dErrors.CodeOf(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}
	span.End()
	if s.metrics != nil {
		s.metrics.ObserveOperation(operation, outcome, start)
	}
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

func loadProduct(ctx context.Context, products store.ProductWriter, productID id.ProductID) (*productModels.Product, error) {
	product, err := products.FindByIDForUpdate(ctx, productID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "product not found")
		}
		return nil, storeError(err, "failed to load product")
	}
	return product, nil
}

func loadOpenSlip(ctx context.Context, slips store.SlipWriter, slipID id.SlipID) (*models.Slip, error) {
	slip, err := slips.FindByIDForUpdate(ctx, slipID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "transfer slip not found")
		}
		return nil, storeError(err, "failed to load transfer slip")
	}
	if err := slip.CheckOpen(); err != nil {
		return nil, err
	}
	return slip, nil
}

func appendEntry(
	ctx context.Context,
	log store.LogAppender,
	slip *models.Slip,
	previous, next id.BranchID,
	changedBy id.StaffID,
	reason logModels.Reason,
	at time.Time,
) error {
	slipID := slip.ID
	entry := &logModels.Entry{
		ID:             id.NewLogEntryID(),
		ProductID:      slip.ProductID,
		PreviousBranch: &previous,
		NewBranch:      &next,
		Quantity:       slip.Quantity,
		TransferSlipID: &slipID,
		ChangedBy:      changedBy,
		Reason:         reason,
		CreatedAt:      at,
	}
	if err := log.Append(ctx, entry); err != nil {
		return storeError(err, "failed to append location log entry")
	}
	return nil
}

// storeError keeps coded domain errors and wraps everything else as internal.
func storeError(err error, msg string) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
