package httpapi

import (
	"context"
	"net/http"
)

type contextKey string

const userIDKey contextKey = "user_id"

// UserIDMiddleware resolves the Telegram user behind the request. The Mini
// App forwards Telegram.WebApp.initDataUnsafe.user.id in this header.
func UserIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-Telegram-User-Id")
		if userID == "" {
			respondError(w, http.StatusUnauthorized, "unauthorized", "missing user identification")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getUserIDFromContext(ctx context.Context) string {
	if userID, ok := ctx.Value(userIDKey).(string); ok {
		return userID
	}
	return ""
}
