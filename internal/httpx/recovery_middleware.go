package httpx

import (
	"errors"
	"log"
	"net/http"
	"runtime/debug"
)

// RecoveryMiddleware turns a handler panic into a 500 envelope. A panic with
// http.ErrAbortHandler is re-raised so net/http can drop the connection.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			log.Printf("panic recovered: method=%s path=%s request_id=%s error=%v stack=%s",
				r.Method, r.URL.Path, RequestIDFrom(r), rec, debug.Stack())

			if rw, ok := w.(*responseWriter); ok && rw.wroteHeader() {
				return
			}
			JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred", nil)
		}()
		next.ServeHTTP(w, r)
	})
}
