package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stocktrail/internal/branch/models"
	id "stocktrail/pkg/domain"
	dErrors "stocktrail/pkg/domain-errors"
	"stocktrail/pkg/platform/httputil"
	"stocktrail/pkg/platform/middleware/admin"
	"stocktrail/pkg/requestcontext"
)

type Service interface {
	Create(ctx context.Context, req *models.CreateBranchRequest) (*models.Branch, error)
	Get(ctx context.Context, branchID id.BranchID) (*models.Branch, error)
	List(ctx context.Context) ([]*models.Branch, error)
	Update(ctx context.Context, branchID id.BranchID, req *models.UpdateBranchRequest) (*models.Branch, error)
	Delete(ctx context.Context, branchID id.BranchID) error
}

// Handler serves the admin branch registry endpoints.
type Handler struct {
	service    Service
	logger     *slog.Logger
	adminToken string
}

func New(service Service, logger *slog.Logger, adminToken string) *Handler {
	return &Handler{service: service, logger: logger, adminToken: adminToken}
}

func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(admin.RequireAdminToken(h.adminToken, h.logger))
		r.Get("/admin/branches", h.HandleList)
		r.Post("/admin/branches", h.HandleCreate)
		r.Get("/admin/branches/{id}", h.HandleGet)
		r.Patch("/admin/branches/{id}", h.HandleUpdate)
		r.Delete("/admin/branches/{id}", h.HandleDelete)
	})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	branches, err := h.service.List(r.Context())
	if err != nil {
		h.logFailure(r.Context(), "failed to list branches", err)
		httputil.WriteError(w, err)
		return
	}
	if branches == nil {
		branches = []*models.Branch{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"branches": branches})
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[models.CreateBranchRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	b, err := h.service.Create(ctx, req)
	if err != nil {
		h.logFailure(ctx, "failed to create branch", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, b)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	branchID, err := id.ParseBranchID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	b, err := h.service.Get(r.Context(), branchID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	branchID, err := id.ParseBranchID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.UpdateBranchRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	b, err := h.service.Update(ctx, branchID, req)
	if err != nil {
		h.logFailure(ctx, "failed to update branch", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	branchID, err := id.ParseBranchID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Delete(ctx, branchID); err != nil {
		h.logFailure(ctx, "failed to delete branch", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
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
