package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sponsorreg/internal/platform/middleware"
	"sponsorreg/internal/registry/models"
	"sponsorreg/internal/transport/http/shared"
	dErrors "sponsorreg/pkg/domain-errors"
)

// Service defines the registry operations the transport layer exposes.
type Service interface {
	CreateAgreement(ctx context.Context, caller models.Principal, in models.CreateInput) (uint64, error)
	UpdateAgreement(ctx context.Context, caller models.Principal, id uint64, name string, maxDependents, supportAmount uint64) error
	GetAgreement(ctx context.Context, id uint64) (*models.Agreement, error)
	GetAgreementUpdates(ctx context.Context, id uint64) (*models.AgreementUpdate, error)
	GetAgreementCount(ctx context.Context) (uint64, error)
	CheckAgreementExistence(ctx context.Context, name string) (bool, error)
	SetAuthorityContract(ctx context.Context, contract models.Principal) error
	SetCreationFee(ctx context.Context, caller models.Principal, fee uint64) error
	SetMaxAgreements(ctx context.Context, caller models.Principal, max uint64) error
}

// Handler handles the agreement registry endpoints.
type Handler struct {
	logger       *slog.Logger
	registry     Service
	jwtValidator middleware.JWTValidator
}

// New creates a new registry Handler.
func New(registry Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		registry:     registry,
		jwtValidator: jwtValidator,
	}
}

// Register mounts the registry routes. Mutating routes require a bearer
// token; queries are open.
func (h *Handler) Register(r chi.Router) {
	r.Route("/agreements", func(r chi.Router) {
		r.Get("/count", h.handleCount)
		r.Get("/exists", h.handleExists)
		r.Get("/{id}", h.handleGet)
		r.Get("/{id}/updates", h.handleGetUpdates)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
			r.Post("/", h.handleCreate)
			r.Put("/{id}", h.handleUpdate)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Post("/authority", h.handleSetAuthority)
		r.Post("/fee", h.handleSetFee)
		r.Post("/capacity", h.handleSetCapacity)
	})
}

type createResponse struct {
	AgreementID uint64 `json:"agreement_id"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var in models.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.WarnContext(ctx, "invalid create agreement request",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	id, err := h.registry.CreateAgreement(ctx, caller, in)
	if err != nil {
		h.writeServiceError(ctx, w, "create agreement", err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, createResponse{AgreementID: id})
}

type updateRequest struct {
	Name          string `json:"name"`
	MaxDependents uint64 `json:"max_dependents"`
	SupportAmount uint64 `json:"support_amount"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.registry.UpdateAgreement(ctx, caller, id, req.Name, req.MaxDependents, req.SupportAmount); err != nil {
		h.writeServiceError(ctx, w, "update agreement", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	agreement, err := h.registry.GetAgreement(r.Context(), id)
	if err != nil {
		h.writeServiceError(r.Context(), w, "get agreement", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, agreement)
}

func (h *Handler) handleGetUpdates(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	update, err := h.registry.GetAgreementUpdates(r.Context(), id)
	if err != nil {
		h.writeServiceError(r.Context(), w, "get agreement updates", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, update)
}

func (h *Handler) handleCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.registry.GetAgreementCount(r.Context())
	if err != nil {
		h.writeServiceError(r.Context(), w, "get agreement count", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]uint64{"count": count})
}

func (h *Handler) handleExists(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "name query parameter is required"))
		return
	}
	exists, err := h.registry.CheckAgreementExistence(r.Context(), name)
	if err != nil {
		h.writeServiceError(r.Context(), w, "check agreement existence", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

type setAuthorityRequest struct {
	Authority string `json:"authority"`
}

func (h *Handler) handleSetAuthority(w http.ResponseWriter, r *http.Request) {
	var req setAuthorityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := h.registry.SetAuthorityContract(r.Context(), models.Principal(req.Authority)); err != nil {
		h.writeServiceError(r.Context(), w, "set authority contract", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setFeeRequest struct {
	Fee uint64 `json:"fee"`
}

func (h *Handler) handleSetFee(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req setFeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := h.registry.SetCreationFee(r.Context(), caller, req.Fee); err != nil {
		h.writeServiceError(r.Context(), w, "set creation fee", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setCapacityRequest struct {
	MaxAgreements uint64 `json:"max_agreements"`
}

func (h *Handler) handleSetCapacity(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req setCapacityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := h.registry.SetMaxAgreements(r.Context(), caller, req.MaxAgreements); err != nil {
		h.writeServiceError(r.Context(), w, "set max agreements", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// caller pulls the authenticated principal the auth middleware stored.
func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (models.Principal, bool) {
	principal := middleware.GetPrincipal(r.Context())
	if principal == "" {
		// This should never happen if RequireAuth middleware is configured correctly
		h.logger.ErrorContext(r.Context(), "principal missing from context despite auth middleware",
			"request_id", middleware.GetRequestID(r.Context()),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return "", false
	}
	return models.Principal(principal), true
}

func pathID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "agreement id must be a non-negative integer"))
		return 0, false
	}
	return id, true
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	code := dErrors.GetCode(err)
	if code == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "registry operation failed",
			"operation", op,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
	} else {
		h.logger.WarnContext(ctx, "registry operation rejected",
			"operation", op,
			"code", string(code),
			"request_id", middleware.GetRequestID(ctx),
		)
	}
	shared.WriteError(w, err)
}
