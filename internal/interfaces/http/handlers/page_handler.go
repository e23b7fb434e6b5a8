package handlers

import (
	"net/http"
	"strconv"

	"github.com/turtacn/landing-ab/internal/application/landing"
	"github.com/turtacn/landing-ab/internal/domain/exitintent"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
)

// Viewport client hints, newest first.
var viewportHeaders = []string{"Sec-CH-Viewport-Width", "Viewport-Width"}

// HeaderPageView carries the page view id of a render that holds an
// exit-intent machine.
const HeaderPageView = "X-Page-View"

// PageHandler serves the landing page with the visitor's variants applied.
type PageHandler struct {
	svc     *landing.Service
	storage StorageResolver
	logger  logging.Logger
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(svc *landing.Service, storage StorageResolver, logger logging.Logger) *PageHandler {
	return &PageHandler{svc: svc, storage: storage, logger: nopIfNil(logger)}
}

// Serve handles GET /.
func (h *PageHandler) Serve(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Render(r.Context(), landing.RenderRequest{
		VisitorID:     visitorID(r),
		Storage:       h.storage.Resolve(w, r),
		ViewportWidth: viewportWidth(r),
	})
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Accept-CH", viewportHeaders[0])
	w.Header().Add("Vary", viewportHeaders[0])
	if res.PageViewID != "" {
		w.Header().Set(HeaderPageView, res.PageViewID)
	}
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(res.HTML)
	}
}

// viewportWidth reads the viewport client hint.  Without one the page is
// treated as desktop; the browser reports its real width with a resize event.
func viewportWidth(r *http.Request) int {
	for _, h := range viewportHeaders {
		if v := r.Header.Get(h); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				return n
			}
		}
	}
	return exitintent.DefaultMobileMaxWidth + 1
}

//Personal.AI order the ending
