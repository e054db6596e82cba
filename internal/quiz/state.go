package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/mind-engage/mindengage-quiz/internal/question"
)

var (
	ErrEmptyQuestionSet = errors.New("quiz: question set has no questions")
	ErrAlreadyAnswered  = errors.New("quiz: current question already answered")
	ErrExhausted        = errors.New("quiz: no current question")
	ErrNotReady         = errors.New("quiz: report requested before the last question")
	ErrIncomplete       = errors.New("quiz: some questions have no answer")
)

// State walks one question set for one session. It is Active while
// Cursor() < Len() and Exhausted once they are equal. It holds no lock; a
// session drives it one request at a time.
type State struct {
	QuestionSetID int64

	questions []question.Question
	cursor    int
	// answers[i] belongs to questions[i]; nil until recorded.
	answers []question.Answer
}

// New builds a traversal over a private copy of qs sorted by order index.
func New(setID int64, qs []question.Question) (*State, error) {
	if len(qs) == 0 {
		return nil, ErrEmptyQuestionSet
	}
	sorted := append([]question.Question(nil), qs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })
	return &State{
		QuestionSetID: setID,
		questions:     sorted,
		answers:       make([]question.Answer, len(sorted)),
	}, nil
}

func (s *State) Len() int    { return len(s.questions) }
func (s *State) Cursor() int { return s.cursor }

// Answered counts recorded answers.
func (s *State) Answered() int {
	n := 0
	for _, a := range s.answers {
		if a != nil {
			n++
		}
	}
	return n
}

// Current returns the question under the cursor. ok is false once exhausted.
func (s *State) Current() (q question.Question, ok bool) {
	if s.cursor >= len(s.questions) {
		return question.Question{}, false
	}
	return s.questions[s.cursor], true
}

// Next advances the cursor and returns the new current question. Stepping
// off the last question and calling after that both report ok=false; the
// cursor never moves past Len().
func (s *State) Next() (q question.Question, ok bool) {
	if s.cursor >= len(s.questions) {
		return question.Question{}, false
	}
	s.cursor++
	return s.Current()
}

// Record stores a for the current question. It does not advance.
func (s *State) Record(a question.Answer) error {
	q, ok := s.Current()
	if !ok {
		return ErrExhausted
	}
	if s.answers[s.cursor] != nil {
		return ErrAlreadyAnswered
	}
	if a == nil || a.QuestionType() != q.Type {
		return fmt.Errorf("%w: %s answer for question %d", question.ErrAnswerMismatch, typeOf(a), q.ID)
	}
	s.answers[s.cursor] = a
	return nil
}

func typeOf(a question.Answer) question.Type {
	if a == nil {
		return "no"
	}
	return a.QuestionType()
}

func (s *State) ReadyForReport() bool { return s.cursor == len(s.questions) }

// Entry is one row of the report.
type Entry struct {
	Description     string `json:"description"`
	CorrectAnswer   string `json:"correct_answer"`
	SubmittedAnswer string `json:"submitted_answer"`
	Correct         bool   `json:"correct"`
}

type Report struct {
	QuestionSetID int64   `json:"question_set_id"`
	Entries       []Entry `json:"entries"`
	Correct       int     `json:"correct"`
	Total         int     `json:"total"`
}

// Report grades every question against its recorded answer, in question
// order.
func (s *State) Report() (Report, error) {
	if !s.ReadyForReport() {
		return Report{}, ErrNotReady
	}
	r := Report{QuestionSetID: s.QuestionSetID, Total: len(s.questions), Entries: make([]Entry, 0, len(s.questions))}
	for i, q := range s.questions {
		a := s.answers[i]
		if a == nil {
			return Report{}, fmt.Errorf("%w: question %d", ErrIncomplete, q.ID)
		}
		out, err := question.Grade(q, a)
		if err != nil {
			return Report{}, fmt.Errorf("grade question %d: %w", q.ID, err)
		}
		if out.Correct {
			r.Correct++
		}
		r.Entries = append(r.Entries, Entry{
			Description:     q.Description,
			CorrectAnswer:   out.CorrectDisplay,
			SubmittedAnswer: out.SubmittedDisplay,
			Correct:         out.Correct,
		})
	}
	return r, nil
}

type stateJSON struct {
	QuestionSetID int64               `json:"question_set_id"`
	Questions     []question.Question `json:"questions"`
	Cursor        int                 `json:"cursor"`
	Answers       []json.RawMessage   `json:"answers"`
}

func (s *State) MarshalJSON() ([]byte, error) {
	w := stateJSON{
		QuestionSetID: s.QuestionSetID,
		Questions:     s.questions,
		Cursor:        s.cursor,
		Answers:       make([]json.RawMessage, len(s.answers)),
	}
	for i, a := range s.answers {
		if a == nil {
			w.Answers[i] = json.RawMessage("null")
			continue
		}
		b, err := question.MarshalAnswer(a)
		if err != nil {
			return nil, err
		}
		w.Answers[i] = b
	}
	return json.Marshal(w)
}

func (s *State) UnmarshalJSON(b []byte) error {
	var w stateJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if len(w.Questions) == 0 {
		return ErrEmptyQuestionSet
	}
	if w.Cursor < 0 || w.Cursor > len(w.Questions) || len(w.Answers) != len(w.Questions) {
		return fmt.Errorf("quiz: corrupt state (cursor %d, %d questions, %d answers)", w.Cursor, len(w.Questions), len(w.Answers))
	}
	answers := make([]question.Answer, len(w.Answers))
	for i, raw := range w.Answers {
		if len(raw) == 0 || string(raw) == "null" {
			continue
		}
		a, err := question.UnmarshalAnswer(raw)
		if err != nil {
			return fmt.Errorf("quiz: answer %d: %w", i, err)
		}
		answers[i] = a
	}
	*s = State{QuestionSetID: w.QuestionSetID, questions: w.Questions, cursor: w.Cursor, answers: answers}
	return nil
}
