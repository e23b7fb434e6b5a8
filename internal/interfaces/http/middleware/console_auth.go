package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/turtacn/landing-ab/internal/infrastructure/auth/console"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/landing-ab/pkg/errors"
)

// HeaderConsoleToken carries the developer-console token.
const HeaderConsoleToken = "X-Console-Token"

// ConsoleAuth guards developer-console routes.  An empty token disables the
// routes entirely.  The token is read from X-Console-Token or a Bearer
// Authorization header and is either the secret itself or a console JWT
// signed with it.
func ConsoleAuth(token string, logger logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	want := []byte(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(want) == 0 {
				writeMiddlewareError(w, http.StatusForbidden, errors.ErrCodeFeatureDisabled, "developer console is disabled")
				return
			}
			got := extractConsoleToken(r)
			if got != "" && subtle.ConstantTimeCompare([]byte(got), want) == 1 {
				next.ServeHTTP(w, r)
				return
			}
			fields := []logging.Field{
				logging.String("path", r.URL.Path),
				logging.String("remote_addr", r.RemoteAddr),
			}
			if console.LooksSigned(got) {
				claims, err := console.Verify(token, got, time.Now())
				if err == nil {
					logging.FromContext(r.Context(), logger).Debug("console token accepted",
						logging.String("operator", claims.Subject))
					next.ServeHTTP(w, r)
					return
				}
				fields = append(fields, logging.Err(err))
			}
			logger.Warn("console token rejected", fields...)
			w.Header().Set("WWW-Authenticate", `Bearer realm="landing-console"`)
			writeMiddlewareError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "console token required")
		})
	}
}

func extractConsoleToken(r *http.Request) string {
	if t := strings.TrimSpace(r.Header.Get(HeaderConsoleToken)); t != "" {
		return t
	}
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func writeMiddlewareError(w http.ResponseWriter, status int, code errors.ErrorCode, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"code":"` + code.String() + `","message":"` + message + `"}`))
}

//Personal.AI order the ending
