package http

import (
	"fmt"
	"net/http"
	"strconv"

	auth "github.com/mind-engage/mindengage-quiz/internal/auth/middleware"
	"github.com/mind-engage/mindengage-quiz/internal/eventlog"
	"github.com/mind-engage/mindengage-quiz/internal/question"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
	"github.com/mind-engage/mindengage-quiz/internal/session"
)

type quizView struct {
	QuestionSetID int64            `json:"question_set_id"`
	Position      int              `json:"position"` // 1-based
	Total         int              `json:"total"`
	Done          bool             `json:"done"`
	Question      *question.Prompt `json:"question,omitempty"`
}

func viewOf(st *quiz.State) (quizView, error) {
	v := quizView{QuestionSetID: st.QuestionSetID, Position: st.Cursor() + 1, Total: st.Len()}
	q, ok := st.Current()
	if !ok {
		v.Done = true
		v.Position = st.Len()
		return v, nil
	}
	p, err := question.PromptFor(q)
	if err != nil {
		return quizView{}, err
	}
	v.Question = &p
	return v, nil
}

// loadQuiz returns the caller's traversal of setID.
func loadQuiz(d Deps, r *http.Request, sid string, setID int64) (*quiz.State, error) {
	st, ok, err := session.LoadState(r.Context(), d.Sessions, sid)
	if err != nil {
		return nil, err
	}
	if !ok || st.QuestionSetID != setID {
		return nil, errNoQuiz
	}
	return st, nil
}

// POST /question-sets/{setID}/answer starts a quiz over the set, replacing
// any quiz already in progress for this session.
func StartAnswerHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := auth.PrincipalFromContext(r.Context())
		setID, err := urlID(r, "setID")
		if err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		if _, err := d.Store.GetQuestionSet(r.Context(), setID); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		qs, err := d.Store.FetchOrdered(r.Context(), setID)
		if err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		st, err := quiz.New(setID, qs)
		if err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		if err := session.SaveState(r.Context(), d.Sessions, p.SID, st); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		v, err := viewOf(st)
		if err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		writeJSON(w, http.StatusCreated, v)
	}
}

// GET /question-sets/{setID}/answer shows the current question.
func CurrentQuestionHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := auth.PrincipalFromContext(r.Context())
		setID, err := urlID(r, "setID")
		if err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		st, err := loadQuiz(d, r, p.SID, setID)
		if err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		v, err := viewOf(st)
		if err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

// POST /question-sets/{setID}/answer/submit  { "answer": ..., "answer_units": ... }
// Validates the answer against the current question, records it and moves
// on.
func SubmitAnswerHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := auth.PrincipalFromContext(r.Context())
		setID, err := urlID(r, "setID")
		if err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		var body map[string]any
		if err := decodeJSON(w, r, &body); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		st, err := loadQuiz(d, r, p.SID, setID)
		if err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		q, ok := st.Current()
		if !ok {
			writeError(w, r, d.Log, quiz.ErrExhausted)
			return
		}
		a, err := question.ParseAnswer(q, formValues(body))
		if err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		if err := st.Record(a); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		st.Next()
		if err := session.SaveState(r.Context(), d.Sessions, p.SID, st); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		v, err := viewOf(st)
		if err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

// GET /report grades the finished quiz and ends it.
func ReportHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := auth.PrincipalFromContext(r.Context())
		st, ok, err := session.LoadState(r.Context(), d.Sessions, p.SID)
		if err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		if !ok {
			writeError(w, r, d.Log, errNoQuiz)
			return
		}
		rep, err := st.Report()
		if err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		if d.Events != nil {
			ev := eventlog.ReportGenerated{UserID: p.UserID, QuestionSetID: rep.QuestionSetID, Correct: rep.Correct, Total: rep.Total}
			if err := d.Events.Append(r.Context(), eventlog.TypeReportGenerated, fmt.Sprintf("set:%d", rep.QuestionSetID), ev); err != nil {
				d.Log.Warn("event append failed", "type", eventlog.TypeReportGenerated, "error", err)
			}
		}
		if err := session.ClearState(r.Context(), d.Sessions, p.SID); err != nil {
			writeError(w, r, d.Log, err)
			return
		}
		writeJSON(w, http.StatusOK, rep)
	}
}

// formValues flattens a decoded JSON object into the string form the answer
// contracts parse. Nested values are dropped.
func formValues(body map[string]any) map[string]string {
	out := make(map[string]string, len(body))
	for k, v := range body {
		switch t := v.(type) {
		case string:
			out[k] = t
		case float64:
			out[k] = strconv.FormatFloat(t, 'g', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(t)
		}
	}
	return out
}
