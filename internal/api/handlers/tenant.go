package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/credence/internal/api/middleware"
	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/Harshitk-cp/credence/internal/service"
	"go.uber.org/zap"
)

type TenantHandler struct {
	store    domain.TenantStore
	models   *service.ModelService
	fixtures []domain.Model
	logger   *zap.Logger
}

// NewTenantHandler returns a handler for tenant bootstrap. When fixtures is
// non-empty every new tenant gets a copy of those models.
func NewTenantHandler(store domain.TenantStore, models *service.ModelService, fixtures []domain.Model, logger *zap.Logger) *TenantHandler {
	return &TenantHandler{store: store, models: models, fixtures: fixtures, logger: logger}
}

type createTenantRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type createTenantResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	APIKey         string `json:"api_key"`
	ModelsImported int    `json:"models_imported"`
}

func (h *TenantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTenantRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	apiKey, err := middleware.GenerateAPIKey()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate API key")
		return
	}

	tenant := &domain.Tenant{
		Name:       req.Name,
		APIKeyHash: middleware.HashAPIKey(apiKey),
	}

	if err := h.store.Create(r.Context(), tenant); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create tenant")
		return
	}

	imported := 0
	if len(h.fixtures) > 0 {
		imported, err = h.models.Import(r.Context(), tenant.ID, h.fixtures)
		if err != nil {
			// The tenant exists; the caller can still add models by hand.
			h.logger.Error("failed to import fixture models",
				zap.String("tenant_id", tenant.ID.String()),
				zap.Error(err))
		}
	}

	writeJSON(w, http.StatusCreated, createTenantResponse{
		ID:             tenant.ID.String(),
		Name:           tenant.Name,
		APIKey:         apiKey,
		ModelsImported: imported,
	})
}
