package handlers

import (
	"errors"
	"net/http"

	"github.com/Harshitk-cp/credence/internal/api/middleware"
	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/Harshitk-cp/credence/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ModelHandler struct {
	svc      *service.ModelService
	sessions *service.SessionService
}

func NewModelHandler(svc *service.ModelService, sessions *service.SessionService) *ModelHandler {
	return &ModelHandler{svc: svc, sessions: sessions}
}

type createModelRequest struct {
	Name        string                        `json:"name" validate:"required,max=200"`
	Description string                        `json:"description" validate:"max=2000"`
	Prior       map[string]float64            `json:"prior" validate:"required,min=1"`
	Likelihood  map[string]map[string]float64 `json:"likelihood" validate:"required,min=1"`
}

type modelResponse struct {
	*domain.Model
	Hypotheses     []string `json:"hypotheses"`
	EvidenceLabels []string `json:"evidence_labels"`
}

func newModelResponse(m *domain.Model) modelResponse {
	hyps := m.PriorDistribution().Hypotheses()
	names := make([]string, len(hyps))
	for i, h := range hyps {
		names[i] = string(h)
	}
	return modelResponse{Model: m, Hypotheses: names, EvidenceLabels: m.EvidenceLabels()}
}

func (h *ModelHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	if tenant == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createModelRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	m := &domain.Model{
		TenantID:    tenant.ID,
		Name:        req.Name,
		Description: req.Description,
		Prior:       req.Prior,
		Likelihood:  req.Likelihood,
	}

	if err := h.svc.Create(r.Context(), m); err != nil {
		if status, ok := bayesStatus(err); ok {
			writeError(w, status, err.Error())
			return
		}
		switch {
		case errors.Is(err, service.ErrModelConflict):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrModelNameMissing):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to create model")
		}
		return
	}

	writeJSON(w, http.StatusCreated, newModelResponse(m))
}

func (h *ModelHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	if tenant == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	models, err := h.svc.List(r.Context(), tenant.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list models")
		return
	}

	out := make([]modelResponse, 0, len(models))
	for i := range models {
		out = append(out, newModelResponse(&models[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": out, "count": len(out)})
}

func (h *ModelHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	if tenant == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid model id")
		return
	}

	m, err := h.svc.GetByID(r.Context(), id, tenant.ID)
	if err != nil {
		if errors.Is(err, service.ErrModelNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get model")
		return
	}

	writeJSON(w, http.StatusOK, newModelResponse(m))
}

// Delete removes the model and closes every session running it.
func (h *ModelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	if tenant == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid model id")
		return
	}

	if err := h.svc.Delete(r.Context(), id, tenant.ID); err != nil {
		if errors.Is(err, service.ErrModelNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete model")
		return
	}
	closed := h.sessions.CloseModel(tenant.ID, id)

	writeJSON(w, http.StatusOK, map[string]any{"deleted": true, "sessions_closed": closed})
}
