package http

import (
	"net/http"

	auth "github.com/mind-engage/mindengage-quiz/internal/auth/middleware"
	"github.com/mind-engage/mindengage-quiz/internal/forms"
)

// POST /topics  { "titles": ["..."] }
func CreateTopicsHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := auth.PrincipalFromContext(r.Context())
		var req forms.NewTopics
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		if err := forms.Validate(req); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		topics, err := d.Store.CreateTopics(r.Context(), p.UserID, req.Titles)
		if err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		writeJSON(w, http.StatusCreated, topics)
	}
}

// PUT /topics/{topicID}  { "title" }
func EditTopicHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req forms.EditTopic
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		if err := forms.Validate(req); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		if err := d.Store.UpdateTopic(r.Context(), idFromContext(r.Context(), ctxTopicID), req.Title); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// DELETE /topics/{topicID}
func DeleteTopicHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Store.DeleteTopic(r.Context(), idFromContext(r.Context(), ctxTopicID)); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
