package handlers

import (
	"net/http"

	"github.com/turtacn/landing-ab/internal/domain/analytics"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/landing-ab/pkg/errors"
)

// maxEventsPerBatch bounds one POST /events body.
const maxEventsPerBatch = 50

// EventHandler forwards page-side analytics to the configured sinks.
type EventHandler struct {
	tracker analytics.Tracker
	params  analytics.ParamsSink
	logger  logging.Logger
}

// NewEventHandler creates an EventHandler.  params may be nil.
func NewEventHandler(tracker analytics.Tracker, params analytics.ParamsSink, logger logging.Logger) *EventHandler {
	return &EventHandler{tracker: tracker, params: params, logger: nopIfNil(logger)}
}

// TrackRequest carries one event or a batch.
type TrackRequest struct {
	analytics.Event
	Events []analytics.Event `json:"events,omitempty"`
}

// Track handles POST /events.  Events are stamped with the visitor id of
// the request; client supplied ids and visitor ids are ignored.  Only
// browser-side actions are accepted, filed under their fixed category;
// server-owned and unknown actions are counted as rejected.
func (h *EventHandler) Track(w http.ResponseWriter, r *http.Request) {
	var req TrackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	events := req.Events
	if req.Action != "" {
		events = append(events, req.Event)
	}
	if len(events) == 0 {
		writeAppError(w, r, h.logger, errors.New(errors.ErrCodeValidation, "action is required"))
		return
	}
	if len(events) > maxEventsPerBatch {
		writeAppError(w, r, h.logger, errors.Newf(errors.ErrCodeValidation, "at most %d events per request", maxEventsPerBatch))
		return
	}

	vid := visitorID(r)
	accepted, rejected := 0, 0
	for _, e := range events {
		e.ID = ""
		e.Timestamp = e.Timestamp.UTC()
		e = e.Normalize()
		category, ok := analytics.ClientCategory(e.Action)
		if !ok {
			h.logger.Debug("client event rejected", logging.String("action", analytics.Truncate(e.Action, 64)))
			rejected++
			continue
		}
		e.Category = category
		e.Params = nil
		e.VisitorID = vid
		if err := h.tracker.Track(r.Context(), e); err != nil {
			h.logger.Warn("analytics event dropped", logging.String("action", e.Action), logging.Err(err))
			continue
		}
		accepted++
	}
	writeJSON(w, http.StatusAccepted, map[string]int{"accepted": accepted, "rejected": rejected})
}

// Params handles POST /events/params.
func (h *EventHandler) Params(w http.ResponseWriter, r *http.Request) {
	if h.params == nil {
		writeAppError(w, r, h.logger, errors.New(errors.ErrCodeFeatureDisabled, "visitor params are not collected"))
		return
	}
	var params map[string]interface{}
	if err := decodeJSON(w, r, &params); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	if len(params) == 0 {
		writeAppError(w, r, h.logger, errors.New(errors.ErrCodeValidation, "params are required"))
		return
	}
	if err := h.params.Params(r.Context(), visitorID(r), params); err != nil {
		h.logger.Warn("visitor params dropped", logging.Err(err))
	}
	w.WriteHeader(http.StatusAccepted)
}

//Personal.AI order the ending
