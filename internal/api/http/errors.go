package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mind-engage/mindengage-quiz/internal/forms"
	"github.com/mind-engage/mindengage-quiz/internal/logger"
	"github.com/mind-engage/mindengage-quiz/internal/question"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
	"github.com/mind-engage/mindengage-quiz/internal/session"
	"github.com/mind-engage/mindengage-quiz/internal/store"
)

// apiError is an error with the HTTP status and stable code it maps to.
type apiError struct {
	Status int
	Code   string
	Err    error
	Fields map[string]string
}

func (e *apiError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s (%d)", e.Code, e.Status)
}

func (e *apiError) Unwrap() error { return e.Err }

func newError(status int, code string, err error) *apiError {
	return &apiError{Status: status, Code: code, Err: err}
}

func badRequest(msg string) *apiError {
	return newError(http.StatusBadRequest, "bad_request", errors.New(msg))
}

var (
	errForbidden    = newError(http.StatusForbidden, "forbidden", errors.New("forbidden"))
	errNoQuiz       = newError(http.StatusNotFound, "no_quiz", errors.New("no quiz in progress for this question set"))
	errUnauthorized = newError(http.StatusUnauthorized, "unauthorized", errors.New("not signed in"))
)

type sentinel struct {
	err    error
	status int
	code   string
}

// Order matters: the first match wins.
var sentinels = []sentinel{
	{store.ErrNotFound, http.StatusNotFound, "not_found"},
	{store.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{session.ErrNoSession, http.StatusUnauthorized, "unauthorized"},

	{question.ErrDuplicateDescription, http.StatusConflict, "duplicate_description"},
	{store.ErrUsernameTaken, http.StatusConflict, "username_taken"},
	{store.ErrDuplicateTopic, http.StatusConflict, "duplicate_topic"},
	{store.ErrDuplicateQuestionSet, http.StatusConflict, "duplicate_question_set"},
	{quiz.ErrEmptyQuestionSet, http.StatusConflict, "nothing_to_answer"},
	{quiz.ErrAlreadyAnswered, http.StatusConflict, "already_answered"},
	{quiz.ErrExhausted, http.StatusConflict, "quiz_finished"},
	{quiz.ErrNotReady, http.StatusConflict, "quiz_not_finished"},
	{quiz.ErrIncomplete, http.StatusConflict, "quiz_incomplete"},

	{question.ErrDuplicateChoice, http.StatusBadRequest, "duplicate_choice"},
	{question.ErrAnswerOutOfRange, http.StatusBadRequest, "answer_out_of_range"},
	{question.ErrUnitFieldsInconsistent, http.StatusBadRequest, "unit_fields_inconsistent"},
	{question.ErrAccuracyDegreeRequired, http.StatusBadRequest, "accuracy_degree_required"},
	{question.ErrInvalidPermutation, http.StatusBadRequest, "invalid_permutation"},
	{question.ErrMissingRequiredField, http.StatusBadRequest, "missing_field"},
	{question.ErrUnexpectedValue, http.StatusBadRequest, "unexpected_value"},
	{question.ErrAnswerMismatch, http.StatusBadRequest, "answer_mismatch"},
}

// classify maps any error to the response the client sees.
func classify(err error) *apiError {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae
	}
	var fe forms.Errors
	if errors.As(err, &fe) {
		return &apiError{Status: http.StatusBadRequest, Code: "validation", Err: err, Fields: fe}
	}
	var ans question.AnswerErrors
	if errors.As(err, &ans) {
		return &apiError{Status: http.StatusBadRequest, Code: "invalid_answer", Err: err, Fields: ans}
	}
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			out := &apiError{Status: s.status, Code: s.code, Err: err}
			var field *question.FieldError
			if errors.As(err, &field) {
				out.Fields = map[string]string{field.Field: field.Err.Error()}
			}
			return out
		}
	}
	return newError(http.StatusInternalServerError, "internal", err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError logs server faults and hides their text from the client.
func writeError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	ae := classify(err)
	msg := ae.Error()
	if ae.Status >= http.StatusInternalServerError {
		log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = http.StatusText(ae.Status)
	}
	body := map[string]any{"error": msg, "code": ae.Code}
	if len(ae.Fields) > 0 {
		body["fields"] = ae.Fields
	}
	writeJSON(w, ae.Status, body)
}

const maxBody = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return badRequest("bad json")
	}
	return nil
}
