package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/landing-ab/internal/application/landing"
	"github.com/turtacn/landing-ab/internal/domain/experiment"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/landing-ab/pkg/errors"
)

const (
	defaultSimulationDraws = 10000
	maxSimulationDraws     = 1000000
)

// ExperimentHandler exposes the catalog and the developer console.
type ExperimentHandler struct {
	svc      *landing.Service
	console  *landing.Console
	storage  StorageResolver
	selector *experiment.Selector
	logger   logging.Logger
}

// NewExperimentHandler creates an ExperimentHandler.  A nil selector uses a
// time-seeded one for simulations.
func NewExperimentHandler(svc *landing.Service, console *landing.Console, storage StorageResolver, selector *experiment.Selector, logger logging.Logger) *ExperimentHandler {
	if selector == nil {
		selector = experiment.NewSelector(nil)
	}
	return &ExperimentHandler{svc: svc, console: console, storage: storage, selector: selector, logger: nopIfNil(logger)}
}

// CatalogEntry is one test with its effective selection probabilities.
type CatalogEntry struct {
	experiment.TestDefinition
	Probabilities map[string]float64 `json:"probabilities"`
}

// AssignmentResponse is the console view of one visitor.
type AssignmentResponse struct {
	VisitorID   string                `json:"visitor_id"`
	Assignments experiment.Assignment `json:"assignments"`
}

// SetVariantRequest forces a variant.
type SetVariantRequest struct {
	Variant string `json:"variant"`
}

// Catalog handles GET /experiments/catalog.
func (h *ExperimentHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	tests := h.svc.Catalog().Tests()
	out := make([]CatalogEntry, 0, len(tests))
	for i := range tests {
		probs := experiment.Probabilities(&tests[i])
		entry := CatalogEntry{TestDefinition: tests[i], Probabilities: make(map[string]float64, len(probs))}
		for j, v := range tests[i].Variants {
			entry.Probabilities[v] = probs[j]
		}
		out = append(out, entry)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tests": out})
}

// Simulate handles GET /experiments/catalog/{test}/simulate?draws=n.
func (h *ExperimentHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	def, err := h.svc.Catalog().Get(chi.URLParam(r, "test"))
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	n := defaultSimulationDraws
	if v := r.URL.Query().Get("draws"); v != "" {
		n, err = strconv.Atoi(v)
		if err != nil || n < 1 || n > maxSimulationDraws {
			writeAppError(w, r, h.logger, errors.Newf(errors.ErrCodeValidation, "draws must be between 1 and %d", maxSimulationDraws))
			return
		}
	}
	writeJSON(w, http.StatusOK, experiment.Simulate(def, h.selector, n))
}

// GetAssignments handles GET /experiments/assignments.
func (h *ExperimentHandler) GetAssignments(w http.ResponseWriter, r *http.Request) {
	a, err := h.console.Get(r.Context(), h.storage.Resolve(w, r))
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	if a == nil {
		a = experiment.Assignment{}
	}
	writeJSON(w, http.StatusOK, AssignmentResponse{VisitorID: visitorID(r), Assignments: a})
}

// SetVariant handles PUT /experiments/assignments/{test}.
func (h *ExperimentHandler) SetVariant(w http.ResponseWriter, r *http.Request) {
	var req SetVariantRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	storage := h.storage.Resolve(w, r)
	if err := h.console.Set(r.Context(), storage, chi.URLParam(r, "test"), req.Variant); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	a, err := h.console.Get(r.Context(), storage)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, AssignmentResponse{VisitorID: visitorID(r), Assignments: a})
}

// ResetAssignments handles DELETE /experiments/assignments.
func (h *ExperimentHandler) ResetAssignments(w http.ResponseWriter, r *http.Request) {
	if err := h.console.Reset(r.Context(), h.storage.Resolve(w, r)); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

//Personal.AI order the ending
