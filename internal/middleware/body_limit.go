package middleware

import (
	"net/http"
	"strings"
)

// BodyLimitOverride raises or lowers the cap for requests matching both the
// prefix and the suffix; an empty field matches everything.
type BodyLimitOverride struct {
	PathPrefix string
	PathSuffix string
	MaxBytes   int64
}

func LimitBodyBytes(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LimitBodyBytesWithOverrides applies a default body cap with per-path
// overrides. Import uploads need a higher cap than JSON endpoints.
func LimitBodyBytesWithOverrides(defaultMax int64, overrides []BodyLimitOverride) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			maxBytes := defaultMax
			path := r.URL.Path
			apiPath := strings.TrimPrefix(path, "/api")
			for _, override := range overrides {
				if override.MaxBytes <= 0 {
					continue
				}
				if override.PathPrefix != "" &&
					!strings.HasPrefix(path, override.PathPrefix) && !strings.HasPrefix(apiPath, override.PathPrefix) {
					continue
				}
				if override.PathSuffix != "" && !strings.HasSuffix(path, override.PathSuffix) {
					continue
				}
				maxBytes = override.MaxBytes
				break
			}
			if maxBytes > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
