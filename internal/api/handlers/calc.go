package handlers

import (
	"errors"
	"math/rand/v2"
	"net/http"

	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/Harshitk-cp/credence/internal/probability"
	"github.com/Harshitk-cp/credence/internal/simulate"
)

// CalcHandler serves stateless probability calculations.
type CalcHandler struct {
	deck []simulate.Card
}

func NewCalcHandler() *CalcHandler {
	return &CalcHandler{deck: simulate.NewDeck()}
}

type bayesRequest struct {
	PA          *float64 `json:"p_a" validate:"required,gte=0,lte=1"`
	PBGivenA    *float64 `json:"p_b_given_a" validate:"required,gte=0,lte=1"`
	PBGivenNotA *float64 `json:"p_b_given_not_a" validate:"required,gte=0,lte=1"`
}

type bayesResponse struct {
	Posterior float64        `json:"posterior"`
	Verdict   domain.Verdict `json:"verdict"`
	Reason    string         `json:"reason"`
}

// Bayes computes P(A|B) for a two-hypothesis space.
func (h *CalcHandler) Bayes(w http.ResponseWriter, r *http.Request) {
	var req bayesRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := probability.BayesBinary(*req.PA, *req.PBGivenA, *req.PBGivenNotA)
	if err != nil {
		switch {
		case errors.Is(err, probability.ErrZeroMarginal):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, bayesResponse{
		Posterior: p,
		Verdict:   domain.ComputeVerdict(p),
		Reason:    domain.VerdictReason(p),
	})
}

type classifyRequest struct {
	Description string `json:"description" validate:"required,max=2000"`
}

func (h *CalcHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]probability.Type{"type": probability.Classify(req.Description)})
}

type simulateRequest struct {
	Trials  int    `json:"trials" validate:"required,min=1,max=1000000"`
	Workers int    `json:"workers" validate:"gte=0,lte=64"`
	Seed    uint64 `json:"seed"`
}

type simulateResponse struct {
	Trials      int     `json:"trials"`
	Estimate    float64 `json:"estimate"`
	Theoretical float64 `json:"theoretical"`
}

// SameSuit estimates the chance that two cards drawn without replacement
// share a suit, next to the exact value 12/51.
func (h *CalcHandler) SameSuit(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	seed := req.Seed
	newRNG := func(i int) simulate.Intn {
		return rand.New(rand.NewPCG(seed, uint64(i)))
	}

	est, err := simulate.RunTrials(r.Context(), req.Trials, req.Workers, newRNG, simulate.SameSuitTrial(h.deck))
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "simulation cancelled")
		return
	}

	// Four suits, each 13/52 · 12/51.
	theoretical := 4 * simulate.Theoretical(13, len(h.deck), 2, false)

	writeJSON(w, http.StatusOK, simulateResponse{
		Trials:      req.Trials,
		Estimate:    est,
		Theoretical: theoretical,
	})
}
