package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/landing-ab/internal/application/landing"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
)

// PageViewHandler relays browser events to the exit-intent machine of a
// rendered page.
type PageViewHandler struct {
	views  *landing.PageViews
	logger logging.Logger
}

// NewPageViewHandler creates a PageViewHandler.
func NewPageViewHandler(views *landing.PageViews, logger logging.Logger) *PageViewHandler {
	return &PageViewHandler{views: views, logger: nopIfNil(logger)}
}

// Poll handles GET /pageviews/{id}.
func (h *PageViewHandler) Poll(w http.ResponseWriter, r *http.Request) {
	st, err := h.views.Poll(chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Event handles POST /pageviews/{id}/events.
func (h *PageViewHandler) Event(w http.ResponseWriter, r *http.Request) {
	var ev landing.PageViewEvent
	if err := decodeJSON(w, r, &ev); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	st, err := h.views.Handle(r.Context(), chi.URLParam(r, "id"), ev)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Close handles DELETE /pageviews/{id}, sent when the page unloads.
func (h *PageViewHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.views.Close(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

//Personal.AI order the ending
