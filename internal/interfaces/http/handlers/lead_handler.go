package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/landing-ab/internal/application/landing"
	"github.com/turtacn/landing-ab/internal/domain/lead"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
)

// LeadHandler accepts the contact form and drives chat qualification.
type LeadHandler struct {
	leads   *lead.Service
	landing *landing.Service
	storage StorageResolver
	logger  logging.Logger
}

// NewLeadHandler creates a LeadHandler.  landing and storage are optional;
// with both present leads carry the visitor's current assignment.
func NewLeadHandler(leads *lead.Service, landingSvc *landing.Service, storage StorageResolver, logger logging.Logger) *LeadHandler {
	return &LeadHandler{leads: leads, landing: landingSvc, storage: storage, logger: nopIfNil(logger)}
}

// StartChatRequest opens a chat.
type StartChatRequest struct {
	PageURL string `json:"page_url"`
}

// AnswerRequest picks an option of the pending question.
type AnswerRequest struct {
	Value string `json:"value"`
}

// MessageRequest is free text typed into the chat.
type MessageRequest struct {
	Text string `json:"text"`
}

// SubmitForm handles POST /leads.
func (h *LeadHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	var form lead.ContactForm
	if err := decodeJSON(w, r, &form); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	if form.Referrer == "" {
		form.Referrer = r.Referer()
	}

	res, err := h.leads.SubmitForm(r.Context(), visitorID(r), form, h.assignments(w, r))
	if err != nil {
		status, body := errorBody(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("contact form not delivered", logging.Err(err))
		}
		body.Data = res
		writeJSON(w, status, body)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// assignments returns the visitor's current variants, or nil when they
// cannot be read.
func (h *LeadHandler) assignments(w http.ResponseWriter, r *http.Request) map[string]string {
	if h.landing == nil || h.storage == nil {
		return nil
	}
	a, err := h.landing.Store(h.storage.Resolve(w, r)).GetCurrent(r.Context())
	if err != nil {
		h.logger.Warn("assignment not attached to lead", logging.Err(err))
		return nil
	}
	if len(a) == 0 {
		return nil
	}
	return a
}

// StartChat handles POST /chat/sessions.
func (h *LeadHandler) StartChat(w http.ResponseWriter, r *http.Request) {
	var req StartChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	if req.PageURL == "" {
		req.PageURL = r.Referer()
	}
	st, err := h.leads.StartChat(r.Context(), visitorID(r), req.PageURL)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

// AnswerChat handles POST /chat/sessions/{id}/answers.
func (h *LeadHandler) AnswerChat(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	st, err := h.leads.AnswerChat(r.Context(), chi.URLParam(r, "id"), req.Value)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// MessageChat handles POST /chat/sessions/{id}/messages.
func (h *LeadHandler) MessageChat(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	st, err := h.leads.MessageChat(r.Context(), chi.URLParam(r, "id"), req.Text)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

//Personal.AI order the ending
