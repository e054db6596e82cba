package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	auth "github.com/mind-engage/mindengage-quiz/internal/auth/middleware"
	"github.com/mind-engage/mindengage-quiz/internal/db"
	"github.com/mind-engage/mindengage-quiz/internal/eventlog"
	"github.com/mind-engage/mindengage-quiz/internal/logger"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
	"github.com/mind-engage/mindengage-quiz/internal/session"
	"github.com/mind-engage/mindengage-quiz/internal/store"
)

type testAPI struct {
	t      *testing.T
	h      http.Handler
	events *eventlog.Repo
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	d, err := db.OpenMemory(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = d.Close() })
	events := eventlog.NewRepo(d.SQL)
	deps := Deps{
		Store:       store.New(d),
		Sessions:    session.NewMemory(time.Hour),
		Auth:        auth.NewAuthService("test-secret", time.Hour),
		Events:      events,
		Log:         logger.Nop(),
		CORSOrigins: []string{"http://localhost:3000"},
		Ready:       d.Ping,
	}
	return &testAPI{t: t, h: NewRouter(deps, time.Hour), events: events}
}

func (a *testAPI) do(method, path, token string, body any, out any) int {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	a.h.ServeHTTP(rr, req)
	if out != nil && rr.Body.Len() > 0 {
		if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
			a.t.Fatalf("%s %s: decode %q: %v", method, path, rr.Body.String(), err)
		}
	}
	return rr.Code
}

func (a *testAPI) must(want int, method, path, token string, body any, out any) {
	a.t.Helper()
	var raw json.RawMessage
	code := a.do(method, path, token, body, &raw)
	if code != want {
		a.t.Fatalf("%s %s: status %d, want %d, body %s", method, path, code, want, raw)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			a.t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
}

func (a *testAPI) login(user string) string {
	a.t.Helper()
	a.must(http.StatusCreated, "POST", "/auth/register", "",
		map[string]string{"username": user, "password": "Secret_123", "confirm_password": "Secret_123"}, nil)
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	a.must(http.StatusOK, "POST", "/auth/login", "", map[string]string{"username": user, "password": "Secret_123"}, &tok)
	return tok.AccessToken
}

type errBody struct {
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields"`
}

func TestQuizFlow(t *testing.T) {
	api := newTestAPI(t)
	alice := api.login("alice_1")
	bob := api.login("bobby_2")

	var topics []store.Topic
	api.must(http.StatusCreated, "POST", "/topics", alice, map[string]any{"titles": []string{"physics"}}, &topics)
	var sets []store.QuestionSet
	api.must(http.StatusCreated, "POST", "/question-sets", alice,
		map[string]any{"topic_id": topics[0].ID, "descriptions": []string{"basics", "empty"}}, &sets)
	setPath := fmt.Sprintf("/question-sets/%d", sets[0].ID)

	var created []struct {
		ID int64 `json:"id"`
	}
	api.must(http.StatusCreated, "POST", setPath+"/questions", alice, map[string]any{
		"type": "mcq",
		"questions": []map[string]any{
			{"description": "colour of sky", "choices": []string{"red", "blue", "green", "grey"}, "correct_answer": 1},
		},
	}, &created)
	mcqID := created[0].ID
	api.must(http.StatusCreated, "POST", setPath+"/questions", alice, map[string]any{
		"type": "true_false",
		"questions": []map[string]any{
			{"description": "water is wet", "correct_answer": true},
		},
	}, nil)
	api.must(http.StatusCreated, "POST", setPath+"/questions", alice, map[string]any{
		"type": "math",
		"questions": []map[string]any{
			{"description": "drop height", "correct_answer": 100, "units": "m", "units_given": false,
				"accuracy": "uncertainty", "accuracy_degree": 5},
		},
	}, &created)
	mathID := created[0].ID

	// Move the math question to the front.
	var view struct {
		Questions []struct {
			ID int64 `json:"id"`
		} `json:"questions"`
	}
	api.must(http.StatusOK, "GET", setPath, alice, nil, &view)
	ids := []int64{mathID}
	for _, q := range view.Questions {
		if q.ID != mathID {
			ids = append(ids, q.ID)
		}
	}
	api.must(http.StatusNoContent, "POST", setPath+"/reorder", alice, map[string]any{"order": ids}, nil)

	// Bob can neither author nor answer alice's set.
	var eb errBody
	if code := api.do("PUT", setPath, bob, map[string]string{"description": "mine"}, &eb); code != http.StatusForbidden {
		t.Fatalf("bob edit: %d", code)
	}
	if code := api.do("PUT", fmt.Sprintf("%s/questions/%d", setPath, mcqID), bob, map[string]any{"description": "x"}, nil); code != http.StatusForbidden {
		t.Fatalf("bob question edit: %d", code)
	}
	for _, rt := range []struct{ method, path string }{
		{"POST", setPath + "/answer"},
		{"GET", setPath + "/answer"},
		{"POST", setPath + "/answer/submit"},
	} {
		if code := api.do(rt.method, rt.path, bob, map[string]any{"answer": "true"}, &eb); code != http.StatusForbidden {
			t.Fatalf("bob %s %s: %d", rt.method, rt.path, code)
		}
	}
	if code := api.do("GET", "/report", bob, nil, nil); code != http.StatusNotFound {
		t.Fatalf("bob has no quiz to report, got %d", code)
	}

	var qv quizView
	api.must(http.StatusCreated, "POST", setPath+"/answer", alice, nil, &qv)
	if qv.Position != 1 || qv.Total != 3 || qv.Question == nil || qv.Question.ID != mathID || !qv.Question.AsksUnits {
		t.Fatalf("first view %+v", qv)
	}

	if code := api.do("POST", setPath+"/answer/submit", alice, map[string]any{"answer": "lots"}, &eb); code != http.StatusBadRequest ||
		eb.Fields["answer"] == "" || eb.Fields["answer_units"] == "" {
		t.Fatalf("bad answer: %d %+v", code, eb)
	}
	if code := api.do("GET", "/report", alice, nil, &eb); code != http.StatusConflict || eb.Code != "quiz_not_finished" {
		t.Fatalf("early report: %d %+v", code, eb)
	}

	qv = quizView{}
	api.must(http.StatusOK, "POST", setPath+"/answer/submit", alice, map[string]any{"answer": 103, "answer_units": "M"}, &qv)
	if qv.Position != 2 || qv.Question.ID != mcqID || len(qv.Question.Choices) != 4 {
		t.Fatalf("second view %+v", qv)
	}
	qv = quizView{}
	api.must(http.StatusOK, "GET", setPath+"/answer", alice, nil, &qv)
	if qv.Position != 2 {
		t.Fatalf("current should not advance: %+v", qv)
	}
	api.must(http.StatusOK, "POST", setPath+"/answer/submit", alice, map[string]any{"answer": 0}, &qv)
	qv = quizView{}
	api.must(http.StatusOK, "POST", setPath+"/answer/submit", alice, map[string]any{"answer": "true"}, &qv)
	if !qv.Done || qv.Question != nil {
		t.Fatalf("final view %+v", qv)
	}
	if code := api.do("POST", setPath+"/answer/submit", alice, map[string]any{"answer": "true"}, &eb); code != http.StatusConflict {
		t.Fatalf("submit after end: %d", code)
	}

	var rep quiz.Report
	api.must(http.StatusOK, "GET", "/report", alice, nil, &rep)
	want := []quiz.Entry{
		{Description: "drop height", CorrectAnswer: "100 m", SubmittedAnswer: "103 M", Correct: true},
		{Description: "colour of sky", CorrectAnswer: "blue", SubmittedAnswer: "red", Correct: false},
		{Description: "water is wet", CorrectAnswer: "True", SubmittedAnswer: "True", Correct: true},
	}
	if rep.Correct != 2 || rep.Total != 3 || len(rep.Entries) != 3 {
		t.Fatalf("report %+v", rep)
	}
	for i := range want {
		if rep.Entries[i] != want[i] {
			t.Errorf("entry %d: %+v want %+v", i, rep.Entries[i], want[i])
		}
	}
	if code := api.do("GET", "/report", alice, nil, nil); code != http.StatusNotFound {
		t.Fatalf("report is single use, got %d", code)
	}
	evs, err := api.events.Since(context.Background(), 0, 10)
	if err != nil || len(evs) != 1 || evs[0].Type != eventlog.TypeReportGenerated {
		t.Fatalf("events %+v, %v", evs, err)
	}

	emptyPath := fmt.Sprintf("/question-sets/%d/answer", sets[1].ID)
	if code := api.do("POST", emptyPath, alice, nil, &eb); code != http.StatusConflict || eb.Code != "nothing_to_answer" {
		t.Fatalf("empty set: %d %+v", code, eb)
	}
}

func TestAuthoringErrors(t *testing.T) {
	api := newTestAPI(t)
	alice := api.login("alice_1")

	var eb errBody
	if code := api.do("POST", "/auth/register", "",
		map[string]string{"username": "alice_1", "password": "Secret_123", "confirm_password": "Secret_123"}, &eb); code != http.StatusConflict {
		t.Fatalf("duplicate user: %d", code)
	}
	if code := api.do("POST", "/auth/register", "",
		map[string]string{"username": "x", "password": "weak", "confirm_password": "weak"}, &eb); code != http.StatusBadRequest ||
		eb.Fields["username"] == "" || eb.Fields["password"] == "" {
		t.Fatalf("weak registration: %d %+v", code, eb)
	}

	var topics []store.Topic
	api.must(http.StatusCreated, "POST", "/topics", alice, map[string]any{"titles": []string{"t"}}, &topics)
	var sets []store.QuestionSet
	api.must(http.StatusCreated, "POST", "/question-sets", alice,
		map[string]any{"topic_id": topics[0].ID, "descriptions": []string{"s"}}, &sets)
	setPath := fmt.Sprintf("/question-sets/%d", sets[0].ID)

	post := func(body map[string]any) (int, errBody) {
		var eb errBody
		code := api.do("POST", setPath+"/questions", alice, body, &eb)
		return code, eb
	}
	if code, eb := post(map[string]any{"type": "essay", "questions": []map[string]any{{"description": "d"}}}); code != http.StatusBadRequest || eb.Fields["type"] == "" {
		t.Fatalf("unknown type: %d %+v", code, eb)
	}
	if code, eb := post(map[string]any{"type": "mcq", "questions": []map[string]any{
		{"description": "d", "choices": []string{"a", "b", "c", "d"}, "correct_answer": 4},
	}}); code != http.StatusBadRequest || eb.Code != "answer_out_of_range" {
		t.Fatalf("out of range: %d %+v", code, eb)
	}
	if code, eb := post(map[string]any{"type": "math", "questions": []map[string]any{
		{"description": "d", "correct_answer": 1, "accuracy": "exact", "accuracy_degree": 2},
	}}); code != http.StatusBadRequest || eb.Code != "accuracy_degree_required" {
		t.Fatalf("degree on exact: %d %+v", code, eb)
	}
	if code, eb := post(map[string]any{"type": "true_false", "questions": []map[string]any{
		{"description": "same", "correct_answer": true}, {"description": "same", "correct_answer": false},
	}}); code != http.StatusConflict || eb.Code != "duplicate_description" {
		t.Fatalf("duplicate description: %d %+v", code, eb)
	}
	if code, eb := post(map[string]any{"type": "true_false", "questions": []map[string]any{
		{"description": "no key"},
	}}); code != http.StatusBadRequest || eb.Fields["questions[0].correct_answer"] == "" {
		t.Fatalf("missing key: %d %+v", code, eb)
	}

	var eb2 errBody
	if code := api.do("POST", setPath+"/reorder", alice, map[string]any{"order": []int64{12345}}, &eb2); code != http.StatusBadRequest || eb2.Code != "invalid_permutation" {
		t.Fatalf("reorder: %d %+v", code, eb2)
	}
	if code := api.do("GET", "/question-sets/999", alice, nil, nil); code != http.StatusNotFound {
		t.Fatalf("missing set: %d", code)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	api := newTestAPI(t)
	tok := api.login("alice_1")
	api.must(http.StatusOK, "GET", "/profile", tok, nil, nil)
	api.must(http.StatusNoContent, "POST", "/auth/logout", tok, nil, nil)
	if code := api.do("GET", "/profile", tok, nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("after logout: %d", code)
	}
	if code := api.do("GET", "/profile", "", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous: %d", code)
	}
	if code := api.do("POST", "/auth/login", "", map[string]string{"username": "alice_1", "password": "nope"}, nil); code != http.StatusUnauthorized {
		t.Fatalf("bad password: %d", code)
	}
	api.must(http.StatusOK, "GET", "/healthz", "", nil, nil)
	api.must(http.StatusOK, "GET", "/readyz", "", nil, nil)
}
