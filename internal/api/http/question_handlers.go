package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mind-engage/mindengage-quiz/internal/forms"
	"github.com/mind-engage/mindengage-quiz/internal/question"
)

// POST /question-sets/{setID}/questions
//
//	{ "type": "mcq", "questions": [ { "description": "...", "choices": [...], "correct_answer": 2 } ] }
//
// All questions of one request share a type and are appended after the
// set's last question.
func CreateQuestionsHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Type      question.Type     `json:"type"`
			Questions []json.RawMessage `json:"questions"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		if _, err := question.Lookup(req.Type); err != nil {
			writeError(w, r, d.Log, forms.Errors{"type": "Must be one of: " + typeList()})
			return
		}
		if len(req.Questions) == 0 {
			writeError(w, r, d.Log, forms.Errors{"questions": "Required"})
			return
		}
		drafts := make([]question.Draft, len(req.Questions))
		for i, raw := range req.Questions {
			dr, err := question.DecodeDraft(req.Type, raw)
			if err != nil {
				writeError(w, r, d.Log, prefixed(i, err))
				return
			}
			if err := forms.Validate(dr.Variant); err != nil {
				writeError(w, r, d.Log, prefixed(i, err))
				return
			}
			drafts[i] = dr
		}
		qs, err := d.Store.CreateBatch(r.Context(), idFromContext(r.Context(), ctxSetID), req.Type, drafts)
		if err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		writeJSON(w, http.StatusCreated, qs)
	}
}

// PUT /question-sets/{setID}/questions/{questionID}  { "<field>": value, ... }
// Only the type's editable fields are applied; other keys are ignored.
// Multiple-choice questions take either "choices" (all four) or
// choice_one..choice_four.
func EditQuestionHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var values map[string]any
		if err := decodeJSON(w, r, &values); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		q, err := d.Store.GetQuestion(r.Context(), idFromContext(r.Context(), ctxQuestionID))
		if err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		// Length limits live in the form rules, not the schema.
		preview, err := question.Edit(q, values)
		if err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		if err := forms.Validate(preview.Variant); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		updated, err := d.Store.Edit(r.Context(), q, values)
		if err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

// DELETE /question-sets/{setID}/questions/{questionID}
func DeleteQuestionHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Store.DeleteQuestion(r.Context(), idFromContext(r.Context(), ctxQuestionID)); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// prefixed scopes per-question field errors under questions[i].
func prefixed(i int, err error) error {
	var fe forms.Errors
	if errors.As(err, &fe) {
		out := forms.Errors{}
		for k, v := range fe {
			out[fmt.Sprintf("questions[%d].%s", i, k)] = v
		}
		return out
	}
	var field *question.FieldError
	if errors.As(err, &field) {
		return forms.Errors{fmt.Sprintf("questions[%d].%s", i, field.Field): field.Err.Error()}
	}
	return fmt.Errorf("question %d: %w", i, err)
}

func typeList() string {
	types := question.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, " ")
}
