package handlers

import (
	"net/http"

	"github.com/turtacn/landing-ab/internal/domain/roi"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
)

// ROIHandler serves the savings calculator.
type ROIHandler struct {
	calc   *roi.Calculator
	logger logging.Logger
}

// NewROIHandler creates a ROIHandler.
func NewROIHandler(calc *roi.Calculator, logger logging.Logger) *ROIHandler {
	return &ROIHandler{calc: calc, logger: nopIfNil(logger)}
}

// Calculate handles POST /roi.
func (h *ROIHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var in roi.Input
	if err := decodeJSON(w, r, &in); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	res, err := h.calc.Calculate(r.Context(), visitorID(r), in)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

//Personal.AI order the ending
