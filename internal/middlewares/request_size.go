package middlewares

import (
	"net/http"
	"strings"
)

// RequestSizeLimitMiddleware caps request bodies at defaultLimit bytes.
// Paths starting with a key of overrides use that limit instead; the longest prefix wins.
func RequestSizeLimitMiddleware(defaultLimit int64, overrides map[string]int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limit := limitFor(r.URL.Path, defaultLimit, overrides)
			if r.ContentLength > limit {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				w.Write([]byte(`{"error":"request body too large"}`))
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

func limitFor(path string, defaultLimit int64, overrides map[string]int64) int64 {
	limit, matched := defaultLimit, ""
	for prefix, l := range overrides {
		if strings.HasPrefix(path, prefix) && len(prefix) > len(matched) {
			limit, matched = l, prefix
		}
	}
	return limit
}
