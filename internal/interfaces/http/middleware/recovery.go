package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

// Recovery перехватывает panic в handler'ах и отвечает 500
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.Error("Panic recovered", fmt.Errorf("%v", rec),
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", RequestIDFrom(r.Context()),
					"stack", string(debug.Stack()),
				)
				WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
