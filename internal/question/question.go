package question

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Type is the discriminator stored in questions.type.
type Type string

const (
	TypeMCQ       Type = "mcq"
	TypeTrueFalse Type = "true_false"
	TypeMath      Type = "math"
)

// Variant is the type-specific part of a question (its answer key and
// any extra attributes).
type Variant interface {
	QuestionType() Type
}

// Answer is a validated, type-coerced response to a single question.
type Answer interface {
	QuestionType() Type
}

// Question is the base entity plus its variant data.
type Question struct {
	ID            int64
	Type          Type
	Description   string
	Order         int
	QuestionSetID int64
	Variant       Variant
}

// Draft is a question that has not been stored yet.
type Draft struct {
	Description string
	Variant     Variant
}

// Prompt is the student-facing view of a question. It never carries the
// answer key.
type Prompt struct {
	ID          int64    `json:"id"`
	Type        Type     `json:"type"`
	Description string   `json:"description"`
	Choices     []string `json:"choices,omitempty"`
	Units       string   `json:"units,omitempty"`
	AsksUnits   bool     `json:"asks_units,omitempty"`
}

// Outcome is the result of grading one answer.
type Outcome struct {
	Correct          bool
	CorrectDisplay   string
	SubmittedDisplay string
}

// ValidateDraft checks the base fields and the variant invariants of a
// question about to be created as type t.
func ValidateDraft(t Type, d Draft) error {
	k, err := Lookup(t)
	if err != nil {
		return err
	}
	if strings.TrimSpace(d.Description) == "" {
		return fieldErr(FieldDescription, ErrMissingRequiredField)
	}
	if d.Variant == nil {
		return ErrMissingRequiredField
	}
	if d.Variant.QuestionType() != t {
		return fmt.Errorf("%w: %s payload for %s question", ErrUnexpectedValue, d.Variant.QuestionType(), t)
	}
	return k.Validate(d.Variant)
}

// Edit returns a copy of q with the allow-listed fields in values applied.
// Keys that name no editable field are ignored. The result is validated
// with the same rules as creation.
func Edit(q Question, values map[string]any) (Question, error) {
	k, err := Lookup(q.Type)
	if err != nil {
		return Question{}, err
	}
	out := q
	for _, f := range baseEditable {
		raw, ok := values[f]
		if !ok {
			continue
		}
		switch f {
		case FieldDescription:
			s, err := asString(f, raw)
			if err != nil {
				return Question{}, err
			}
			out.Description = s
		}
	}
	v, err := k.Apply(q.Variant, values)
	if err != nil {
		return Question{}, err
	}
	out.Variant = v
	if err := ValidateDraft(out.Type, Draft{Description: out.Description, Variant: out.Variant}); err != nil {
		return Question{}, err
	}
	return out, nil
}

// Grade dispatches to the question's kind.
func Grade(q Question, a Answer) (Outcome, error) {
	k, err := Lookup(q.Type)
	if err != nil {
		return Outcome{}, err
	}
	if a == nil || a.QuestionType() != q.Type {
		return Outcome{}, ErrAnswerMismatch
	}
	return k.Grade(q, a)
}

// PromptFor returns the student-facing view of q.
func PromptFor(q Question) (Prompt, error) {
	k, err := Lookup(q.Type)
	if err != nil {
		return Prompt{}, err
	}
	return k.Prompt(q), nil
}

// ParseAnswer validates a raw answer form against q.
func ParseAnswer(q Question, form map[string]string) (Answer, error) {
	k, err := Lookup(q.Type)
	if err != nil {
		return nil, err
	}
	return k.ParseAnswer(q, form)
}

type questionJSON struct {
	ID            int64           `json:"id"`
	Type          Type            `json:"type"`
	Description   string          `json:"description"`
	Order         int             `json:"question_order"`
	QuestionSetID int64           `json:"question_set_id"`
	Data          json.RawMessage `json:"data"`
}

func (q Question) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(q.Variant)
	if err != nil {
		return nil, err
	}
	return json.Marshal(questionJSON{
		ID:            q.ID,
		Type:          q.Type,
		Description:   q.Description,
		Order:         q.Order,
		QuestionSetID: q.QuestionSetID,
		Data:          data,
	})
}

func (q *Question) UnmarshalJSON(b []byte) error {
	var w questionJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	k, err := Lookup(w.Type)
	if err != nil {
		return err
	}
	v, err := k.DecodeVariant(w.Data)
	if err != nil {
		return err
	}
	*q = Question{
		ID:            w.ID,
		Type:          w.Type,
		Description:   w.Description,
		Order:         w.Order,
		QuestionSetID: w.QuestionSetID,
		Variant:       v,
	}
	return nil
}

type answerJSON struct {
	Type  Type            `json:"type"`
	Value json.RawMessage `json:"value"`
}

// MarshalAnswer encodes a with its type tag so UnmarshalAnswer can restore
// the concrete type.
func MarshalAnswer(a Answer) ([]byte, error) {
	if a == nil {
		return nil, ErrAnswerMismatch
	}
	v, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return json.Marshal(answerJSON{Type: a.QuestionType(), Value: v})
}

func UnmarshalAnswer(b []byte) (Answer, error) {
	var w answerJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, err
	}
	k, err := Lookup(w.Type)
	if err != nil {
		return nil, err
	}
	return k.DecodeAnswer(w.Value)
}
