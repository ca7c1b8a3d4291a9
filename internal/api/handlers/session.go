package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Harshitk-cp/credence/internal/api/middleware"
	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/Harshitk-cp/credence/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type SessionHandler struct {
	svc    *service.SessionService
	models *service.ModelService
}

func NewSessionHandler(svc *service.SessionService, models *service.ModelService) *SessionHandler {
	return &SessionHandler{svc: svc, models: models}
}

// createSessionRequest names the model by id or by name, not both.
type createSessionRequest struct {
	ModelID   string `json:"model_id" validate:"omitempty,uuid"`
	ModelName string `json:"model_name" validate:"omitempty,max=200"`
}

type observeRequest struct {
	Labels []string `json:"labels" validate:"required,min=1,max=1000"`
}

// sessionError writes the response for a session service error.
func sessionError(w http.ResponseWriter, err error, fallback string) {
	if status, ok := bayesStatus(err); ok {
		writeError(w, status, err.Error())
		return
	}
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrModelNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSessionLimit):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, service.ErrNoEvidence):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	if tenant == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createSessionRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if (req.ModelID == "") == (req.ModelName == "") {
		writeError(w, http.StatusBadRequest, "exactly one of model_id or model_name is required")
		return
	}

	var modelID uuid.UUID
	if req.ModelID != "" {
		modelID, _ = uuid.Parse(req.ModelID)
	} else {
		m, err := h.models.GetByName(r.Context(), req.ModelName, tenant.ID)
		if err != nil {
			sessionError(w, err, "failed to start session")
			return
		}
		modelID = m.ID
	}

	sess, err := h.svc.Start(r.Context(), tenant.ID, modelID)
	if err != nil {
		sessionError(w, err, "failed to start session")
		return
	}

	writeJSON(w, http.StatusCreated, sess)
}

// List returns the tenant's sessions, optionally only those whose current
// verdict matches ?verdict=.
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	if tenant == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	sessions := h.svc.List(tenant.ID)

	if v := r.URL.Query().Get("verdict"); v != "" {
		if !domain.ValidVerdict(v) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("verdict must be one of %v", domain.AllVerdicts()))
			return
		}
		filtered := make([]domain.Session, 0, len(sessions))
		for _, sess := range sessions {
			if sess.Verdict == domain.Verdict(v) {
				filtered = append(filtered, sess)
			}
		}
		sessions = filtered
	}

	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions, "count": len(sessions)})
}

func (h *SessionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	if tenant == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	sess, err := h.svc.Get(tenant.ID, id)
	if err != nil {
		sessionError(w, err, "failed to get session")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// Observe folds a batch of evidence labels into the session. A failing batch
// leaves the session unchanged.
func (h *SessionHandler) Observe(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	if tenant == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req observeRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := h.svc.Observe(tenant.ID, id, req.Labels)
	if err != nil {
		sessionError(w, err, "failed to update belief")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	if tenant == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	sess, err := h.svc.Reset(tenant.ID, id)
	if err != nil {
		sessionError(w, err, "failed to reset session")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())
	if tenant == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Close(tenant.ID, id); err != nil {
		sessionError(w, err, "failed to close session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
