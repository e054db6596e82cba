package http

import (
	"net/http"

	auth "github.com/mind-engage/mindengage-quiz/internal/auth/middleware"
	"github.com/mind-engage/mindengage-quiz/internal/forms"
)

// POST /question-sets  { "topic_id", "descriptions": ["..."] }
func CreateQuestionSetsHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := auth.PrincipalFromContext(r.Context())
		var req forms.NewQuestionSets
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		if err := forms.Validate(req); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		owner, err := d.Store.TopicOwner(r.Context(), req.TopicID)
		if err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		if owner != p.UserID {
			writeError(w, r, d.Log, errForbidden)
			return
		}
		sets, err := d.Store.CreateQuestionSets(r.Context(), req.TopicID, req.Descriptions)
		if err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		writeJSON(w, http.StatusCreated, sets)
	}
}

// GET /question-sets/{setID} is the author's view, answer keys included.
func GetQuestionSetHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := idFromContext(r.Context(), ctxSetID)
		set, err := d.Store.GetQuestionSet(r.Context(), id)
		if err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		qs, err := d.Store.FetchOrdered(r.Context(), id)
		if err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"question_set": set, "questions": qs})
	}
}

// PUT /question-sets/{setID}  { "description" }
func EditQuestionSetHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req forms.EditQuestionSet
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		if err := forms.Validate(req); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		if err := d.Store.UpdateQuestionSet(r.Context(), idFromContext(r.Context(), ctxSetID), req.Description); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// DELETE /question-sets/{setID}
func DeleteQuestionSetHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Store.DeleteQuestionSet(r.Context(), idFromContext(r.Context(), ctxSetID)); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /question-sets/{setID}/reorder  { "order": [questionID, ...] }
func ReorderHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req forms.Reorder
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		if err := forms.Validate(req); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		if err := d.Store.Reorder(r.Context(), idFromContext(r.Context(), ctxSetID), req.Order); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
