package core

import (
	"fmt"
	"log/slog"
	"net/http"
)

// recoverMiddleware turns a panic in a handler into an error response so a
// single bad request never takes the process down.
func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("Recovered from panic", "path", r.URL.Path, "panic", rec)
				writeJSON(w, http.StatusInternalServerError, response{Status: "error", Message: fmt.Sprint(rec)})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
