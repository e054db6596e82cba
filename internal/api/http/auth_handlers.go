package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	auth "github.com/mind-engage/mindengage-quiz/internal/auth/middleware"
	"github.com/mind-engage/mindengage-quiz/internal/forms"
)

// POST /auth/register  { "username", "password", "confirm_password" }
func RegisterHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req forms.Register
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		if err := forms.Validate(req); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		u, err := d.Store.CreateUser(r.Context(), req.Username, req.Password)
		if err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		d.Log.Info("user registered", "user_id", u.ID)
		writeJSON(w, http.StatusCreated, u)
	}
}

// POST /auth/login  { "username", "password" }
// Opens a server-side session and returns a token bound to it.
func LoginHandler(d Deps, tokenTTL time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req forms.Login
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		if err := forms.Validate(req); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		u, err := d.Store.Authenticate(r.Context(), req.Username, req.Password)
		if err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		sid := uuid.NewString()
		if err := d.Sessions.Create(r.Context(), sid); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		tok, err := d.Auth.IssueJWT(u.ID, u.Username, sid)
		if err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": tok,
			"token_type":   "Bearer",
			"expires_in":   int(tokenTTL.Seconds()),
		})
	}
}

// POST /auth/logout drops the session, and with it any quiz in progress.
func LogoutHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := auth.PrincipalFromContext(r.Context())
		if err := d.Sessions.Clear(r.Context(), p.SID); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /profile lists the caller's topics and their question sets.
func ProfileHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := auth.PrincipalFromContext(r.Context())
		u, err := d.Store.GetUser(r.Context(), p.UserID)
		if err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		topics, err := d.Store.ListTopics(r.Context(), p.UserID)
		if err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": u, "topics": topics})
	}
}
