package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stocktrail/internal/transfer/models"
	id "stocktrail/pkg/domain"
	dErrors "stocktrail/pkg/domain-errors"
	"stocktrail/pkg/platform/httputil"
	"stocktrail/pkg/requestcontext"
)

type Service interface {
	Initiate(ctx context.Context, cmd *models.Initiate) (*models.InitiateResult, error)
	Receive(ctx context.Context, slipID id.SlipID, actor models.Actor) (*models.Slip, error)
	Cancel(ctx context.Context, slipID id.SlipID, actor models.Actor) (*models.Slip, error)
	ListSlips(ctx context.Context, f models.Filter) ([]models.EnrichedSlip, error)
	GetSlip(ctx context.Context, slipID id.SlipID) (*models.EnrichedSlip, error)
	ScanSlip(ctx context.Context, payload string) (*models.EnrichedSlip, error)
}

// Handler serves the transfer workflow. Staff identify themselves with a PIN
// on every mutating call, so these routes sit outside the admin group.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/transfers", func(r chi.Router) {
		r.Post("/", h.HandleInitiate)
		r.Get("/", h.HandleList)
		r.Post("/scan", h.HandleScan)
		r.Get("/{id}", h.HandleGet)
		r.Post("/{id}/receive", h.HandleReceive)
		r.Post("/{id}/cancel", h.HandleCancel)
	})
}

func (h *Handler) HandleInitiate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[models.InitiateRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	cmd, err := req.Parse()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	result, err := h.service.Initiate(ctx, cmd)
	if err != nil {
		h.logFailure(ctx, "failed to initiate transfer", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) HandleReceive(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, "failed to receive transfer", h.service.Receive)
}

func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, "failed to cancel transfer", h.service.Cancel)
}

func (h *Handler) handleTransition(
	w http.ResponseWriter,
	r *http.Request,
	failure string,
	transition func(ctx context.Context, slipID id.SlipID, actor models.Actor) (*models.Slip, error),
) {
	ctx := r.Context()
	slipID, err := id.ParseSlipID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.ActorRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	actor, err := req.Parse()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	slip, err := transition(ctx, slipID, actor)
	if err != nil {
		h.logFailure(ctx, failure, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, slip)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	slips, err := h.service.ListSlips(r.Context(), f)
	if err != nil {
		h.logFailure(r.Context(), "failed to list transfers", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"transfers": slips})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	slipID, err := id.ParseSlipID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	slip, err := h.service.GetSlip(r.Context(), slipID)
	if err != nil {
		h.logFailure(r.Context(), "failed to load transfer", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, slip)
}

func (h *Handler) HandleScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[models.ScanRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	slip, err := h.service.ScanSlip(ctx, req.Payload)
	if err != nil {
		h.logFailure(ctx, "failed to resolve scanned transfer", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, slip)
}

func parseFilter(r *http.Request) (models.Filter, error) {
	var f models.Filter
	q := r.URL.Query()
	if v := q.Get("status"); v != "" {
		status := models.Status(v)
		if !status.IsValid() {
			return f, dErrors.New(dErrors.CodeBadRequest, "unknown transfer status: "+v)
		}
		f.Status = &status
	}
	if v := q.Get("from_branch"); v != "" {
		branchID, err := id.ParseBranchID(v)
		if err != nil {
			return f, err
		}
		f.FromBranch = &branchID
	}
	if v := q.Get("to_branch"); v != "" {
		branchID, err := id.ParseBranchID(v)
		if err != nil {
			return f, err
		}
		f.ToBranch = &branchID
	}
	if v := q.Get("product_id"); v != "" {
		productID, err := id.ParseProductID(v)
		if err != nil {
			return f, err
		}
		f.ProductID = &productID
	}
	return f, nil
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	if h.logger == nil || dErrors.CodeOf(err) != dErrors.CodeInternal {
		return
	}
	h.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
}
