// Package handler is the thin HTTP layer for item requests. It parses wire
// input, delegates to the service, and maps error kinds onto responses;
// business rules stay out.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"crisiscorner/internal/platform/middleware"
	"crisiscorner/internal/request"
	dErrors "crisiscorner/pkg/domain-errors"
	"crisiscorner/pkg/platform/httputil"
)

// Service defines the request operations the handler depends on.
type Service interface {
	List(ctx context.Context, status *string, page int) ([]request.ItemRequest, error)
	Create(ctx context.Context, payload any) (request.ItemRequest, error)
	EditStatus(ctx context.Context, payload any) (request.ItemRequest, error)
	EditStatusBatch(ctx context.Context, payload any) (request.BatchResult, error)
	DeleteBatch(ctx context.Context, payload any) (int64, error)
}

// Handler handles the /requests endpoints.
type Handler struct {
	svc    Service
	logger *slog.Logger
}

// New creates a request Handler.
func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register registers the request routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/requests", h.handleList)
	r.Put("/requests", h.handleCreate)
	r.Patch("/requests", h.handleEditStatus)
	r.Patch("/requests/batch", h.handleEditStatusBatch)
	r.Delete("/requests/batch", h.handleDeleteBatch)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	var status *string
	if query.Has("status") {
		v := query.Get("status")
		status = &v
	}

	page := 1
	if raw := query.Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.warn(ctx, "invalid page parameter", "page", raw)
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "page must be an integer"))
			return
		}
		page = parsed
	}

	items, err := h.svc.List(ctx, status, page)
	if err != nil {
		h.logFailure(ctx, "failed to list requests", err)
		httputil.WriteError(w, err)
		return
	}
	if items == nil {
		// The contract is a JSON array, never null.
		items = []request.ItemRequest{}
	}
	httputil.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}

	created, err := h.svc.Create(ctx, payload)
	if err != nil {
		h.logFailure(ctx, "failed to create request", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleEditStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}

	updated, err := h.svc.EditStatus(ctx, payload)
	if err != nil {
		h.logFailure(ctx, "failed to edit request status", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleEditStatusBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}

	result, err := h.svc.EditStatusBatch(ctx, payload)
	if err != nil {
		h.logFailure(ctx, "failed to batch edit request status", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleDeleteBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}

	deleted, err := h.svc.DeleteBatch(ctx, payload)
	if err != nil {
		h.logFailure(ctx, "failed to batch delete requests", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int64{"deletedCount": deleted})
}

// decode reads the body as arbitrary JSON; the validation layer owns shape
// checks from here.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (any, bool) {
	var payload any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.warn(r.Context(), "invalid JSON body", "error", err.Error())
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return nil, false
	}
	return payload, true
}

func (h *Handler) warn(ctx context.Context, msg string, args ...any) {
	args = append([]any{"request_id", middleware.GetRequestID(ctx)}, args...)
	h.logger.WarnContext(ctx, msg, args...)
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	args := []any{
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	}
	switch dErrors.CodeOf(err) {
	case dErrors.CodeBadRequest, dErrors.CodeNotFound:
		h.logger.WarnContext(ctx, msg, args...)
	default:
		h.logger.ErrorContext(ctx, msg, args...)
	}
}
