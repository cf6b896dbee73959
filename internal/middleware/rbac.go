package middleware

import "net/http"

// RequireRole allows the request through only when the authenticated actor
// holds one of the listed roles. The role comes from the session principal,
// so no extra query is needed per request.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				writeError(w, r, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
				return
			}
			if _, ok := allowed[actor.Role]; !ok {
				writeError(w, r, http.StatusForbidden, "forbidden", "Role not permitted", map[string]any{"requiredRoles": roles})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
