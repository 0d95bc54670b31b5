package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stocktrail/internal/staff/models"
	id "stocktrail/pkg/domain"
	dErrors "stocktrail/pkg/domain-errors"
	"stocktrail/pkg/platform/httputil"
	"stocktrail/pkg/platform/middleware/admin"
	"stocktrail/pkg/requestcontext"
)

type Service interface {
	ListActive(ctx context.Context) ([]*models.Staff, error)
	Get(ctx context.Context, staffID id.StaffID) (*models.Staff, error)
	GetByBranch(ctx context.Context, branchID id.BranchID) (*models.Staff, error)
	Create(ctx context.Context, req *models.CreateStaffRequest) (*models.Staff, error)
	UpdateProfile(ctx context.Context, staffID id.StaffID, req *models.UpdateProfileRequest) (*models.Staff, error)
	RotatePIN(ctx context.Context, staffID id.StaffID, newPIN string) error
	Delete(ctx context.Context, staffID id.StaffID) error
	Authenticate(ctx context.Context, staffID id.StaffID, pin string) (*models.Staff, error)
	AuthenticateByPIN(ctx context.Context, pin string) (*models.Staff, error)
}

// Handler serves the staff directory. Every response goes through
// models.View so PIN digests never leave the service.
type Handler struct {
	service    Service
	logger     *slog.Logger
	adminToken string
}

func New(service Service, logger *slog.Logger, adminToken string) *Handler {
	return &Handler{service: service, logger: logger, adminToken: adminToken}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/staff/authenticate", h.HandleAuthenticate)

	r.Group(func(r chi.Router) {
		r.Use(admin.RequireAdminToken(h.adminToken, h.logger))
		r.Get("/admin/staff", h.HandleList)
		r.Post("/admin/staff", h.HandleCreate)
		r.Get("/admin/staff/{id}", h.HandleGet)
		r.Patch("/admin/staff/{id}", h.HandleUpdate)
		r.Delete("/admin/staff/{id}", h.HandleDelete)
		r.Put("/admin/staff/{id}/pin", h.HandleRotatePIN)
		r.Get("/admin/branches/{id}/staff", h.HandleGetByBranch)
	})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListActive(r.Context())
	if err != nil {
		h.logFailure(r.Context(), "failed to list staff", err)
		httputil.WriteError(w, err)
		return
	}
	views := make([]models.View, 0, len(list))
	for _, m := range list {
		views = append(views, m.ToView())
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"staff": views})
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[models.CreateStaffRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	m, err := h.service.Create(ctx, req)
	if err != nil {
		h.logFailure(ctx, "failed to create staff", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, m.ToView())
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	staffID, err := id.ParseStaffID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	m, err := h.service.Get(r.Context(), staffID)
	if err != nil {
		h.logFailure(r.Context(), "failed to get staff", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, m.ToView())
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	staffID, err := id.ParseStaffID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.UpdateProfileRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	m, err := h.service.UpdateProfile(ctx, staffID, req)
	if err != nil {
		h.logFailure(ctx, "failed to update staff", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, m.ToView())
}

func (h *Handler) HandleRotatePIN(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	staffID, err := id.ParseStaffID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.RotatePINRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.RotatePIN(ctx, staffID, req.PIN); err != nil {
		h.logFailure(ctx, "failed to rotate pin", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	staffID, err := id.ParseStaffID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Delete(ctx, staffID); err != nil {
		h.logFailure(ctx, "failed to delete staff", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleGetByBranch(w http.ResponseWriter, r *http.Request) {
	branchID, err := id.ParseBranchID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	m, err := h.service.GetByBranch(r.Context(), branchID)
	if err != nil {
		h.logFailure(r.Context(), "failed to get branch staff", err)
		httputil.WriteError(w, err)
		return
	}
	if m == nil {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"staff": nil})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"staff": m.ToView()})
}

func (h *Handler) HandleAuthenticate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[models.AuthenticateRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	var (
		m   *models.Staff
		err error
	)
	if req.StaffID != "" {
		staffID, _ := id.ParseStaffID(req.StaffID)
		m, err = h.service.Authenticate(ctx, staffID, req.PIN)
	} else {
		m, err = h.service.AuthenticateByPIN(ctx, req.PIN)
	}
	if err != nil {
		h.logFailure(ctx, "failed to authenticate staff", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, m.ToView())
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
