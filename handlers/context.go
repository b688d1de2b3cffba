package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"studyload/utils"
)

type ctxKey int

const userKey ctxKey = iota

// WithUser returns a copy of ctx carrying the authenticated user id.
func WithUser(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userKey, userID)
}

// UserFrom returns the user id stored by WithUser.
func UserFrom(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// RequireUser resolves the session cookie to a user before calling next.
// Requests that change state must echo the csrf token in X-CSRF-Token.
func (a *App) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := r.Cookie(utils.SessionCookie)
		if err != nil || st.Value == "" {
			writeMessage(w, http.StatusUnauthorized, "unauthorized: missing or empty session token")
			return
		}

		csrf := r.Header.Get(utils.CSRFHeader)
		if r.Method != http.MethodGet && r.Method != http.MethodHead && csrf == "" {
			writeMessage(w, http.StatusForbidden, "unauthorized: invalid CSRF token")
			return
		}

		userID, err := a.Sessions.Authorize(r.Context(), st.Value, csrf)
		switch {
		case errors.Is(err, utils.ErrInvalidCSRF):
			writeMessage(w, http.StatusForbidden, "unauthorized: invalid CSRF token")
			return
		case errors.Is(err, utils.ErrNoSession):
			utils.ClearSessionCookies(w)
			writeMessage(w, http.StatusUnauthorized, "unauthorized: session expired")
			return
		case err != nil:
			log.Println("Authorization failed:", err)
			writeMessage(w, http.StatusServiceUnavailable, "session store unavailable")
			return
		}

		next(w, r.WithContext(WithUser(r.Context(), userID)))
	}
}

// currentUser reads the id RequireUser stored. It only fails when a handler
// is mounted without RequireUser.
func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := UserFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
	}
	return id, ok
}
