package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/skvault/sleevekeeper/internal/server/auth"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// withAuth wraps a handler, resolving the calling user from the
// "Authorization: Bearer <token>" header. The core only ever sees the
// resolved owner id; requests without a valid token never reach it.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing token"})
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token"})
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

// callerID returns the user id stored by withAuth.
func callerID(r *http.Request) int64 {
	id, _ := r.Context().Value(userIDKey).(int64)
	return id
}
