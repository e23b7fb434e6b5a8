package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/landing-ab/internal/interfaces/http/middleware"
	"github.com/turtacn/landing-ab/pkg/errors"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 64 << 10

// visitorID returns the visitor id resolved by the Visitor middleware.
func visitorID(r *http.Request) string {
	return middleware.VisitorIDFromContext(r.Context())
}

func nopIfNil(logger logging.Logger) logging.Logger {
	if logger == nil {
		return logging.NewNopLogger()
	}
	return logger
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Detail  string      `json:"detail,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// decodeJSON reads a bounded JSON body into v.  An empty body leaves v
// untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			return nil
		}
		return errors.Wrap(err, errors.ErrCodeBadRequest, "invalid request body")
	}
	return nil
}

// errorBody builds the response body for err.  Server errors are masked.
func errorBody(err error) (int, ErrorResponse) {
	code := errors.GetCode(err)
	if code == errors.CodeUnknown || code == errors.CodeOK {
		code = errors.ErrCodeInternal
	}
	status := errors.HTTPStatusForCode(code)
	resp := ErrorResponse{Code: code.String(), Message: errors.DefaultMessageForCode(code)}
	if status < http.StatusInternalServerError {
		var ae *errors.AppError
		if errors.As(err, &ae) {
			resp.Message = ae.Message
			resp.Detail = ae.Detail
		}
	}
	return status, resp
}

// writeAppError maps application errors to HTTP status codes through the
// error code table.  Server errors are logged with the request logger.
func writeAppError(w http.ResponseWriter, r *http.Request, logger logging.Logger, err error) {
	status, resp := errorBody(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(r.Context(), logger).Error("request failed", logging.String("code", resp.Code), logging.Err(err))
	}
	writeJSON(w, status, resp)
}

//Personal.AI order the ending
