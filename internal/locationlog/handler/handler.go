package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stocktrail/internal/locationlog/models"
	id "stocktrail/pkg/domain"
	dErrors "stocktrail/pkg/domain-errors"
	"stocktrail/pkg/platform/httputil"
	"stocktrail/pkg/platform/middleware/admin"
	"stocktrail/pkg/requestcontext"
)

type Service interface {
	ProductHistory(ctx context.Context, productID id.ProductID) ([]models.EnrichedEntry, error)
	AllHistory(ctx context.Context) ([]models.EnrichedEntry, error)
	ClearProductHistory(ctx context.Context, productID id.ProductID) (int64, error)
	ClearAllTransferHistory(ctx context.Context) (models.ClearResult, error)
}

type Handler struct {
	service    Service
	logger     *slog.Logger
	adminToken string
}

func New(service Service, logger *slog.Logger, adminToken string) *Handler {
	return &Handler{service: service, logger: logger, adminToken: adminToken}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/products/{id}/location-history", h.HandleProductHistory)
	r.Get("/location-history", h.HandleAllHistory)

	r.Group(func(r chi.Router) {
		r.Use(admin.RequireAdminToken(h.adminToken, h.logger))
		r.Delete("/admin/products/{id}/location-history", h.HandleClearProductHistory)
		r.Delete("/admin/transfers", h.HandleClearAllTransferHistory)
	})
}

func (h *Handler) HandleProductHistory(w http.ResponseWriter, r *http.Request) {
	productID, err := id.ParseProductID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	entries, err := h.service.ProductHistory(r.Context(), productID)
	if err != nil {
		h.logFailure(r.Context(), "failed to load product history", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (h *Handler) HandleAllHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.AllHistory(r.Context())
	if err != nil {
		h.logFailure(r.Context(), "failed to load location history", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (h *Handler) HandleClearProductHistory(w http.ResponseWriter, r *http.Request) {
	productID, err := id.ParseProductID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	n, err := h.service.ClearProductHistory(r.Context(), productID)
	if err != nil {
		h.logFailure(r.Context(), "failed to clear product history", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"entries_deleted": n})
}

func (h *Handler) HandleClearAllTransferHistory(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ClearAllTransferHistory(r.Context())
	if err != nil {
		h.logFailure(r.Context(), "failed to clear transfer history", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
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
