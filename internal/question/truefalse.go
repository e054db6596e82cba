package question

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type TrueFalse struct {
	CorrectAnswer bool `json:"correct_answer"`
}

func (TrueFalse) QuestionType() Type { return TypeTrueFalse }

type BoolAnswer bool

func (BoolAnswer) QuestionType() Type { return TypeTrueFalse }

type trueFalseKind struct{}

func init() { Register(trueFalseKind{}) }

func (trueFalseKind) Type() Type { return TypeTrueFalse }

func (trueFalseKind) DecodeVariant(raw json.RawMessage) (Variant, error) {
	var w struct {
		CorrectAnswer *bool `json:"correct_answer"`
	}
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedValue, err)
	}
	if w.CorrectAnswer == nil {
		return nil, fieldErr(FieldCorrectAnswer, ErrMissingRequiredField)
	}
	return TrueFalse{CorrectAnswer: *w.CorrectAnswer}, nil
}

func (trueFalseKind) Validate(v Variant) error {
	if _, ok := v.(TrueFalse); !ok {
		return ErrAnswerMismatch
	}
	return nil
}

func (trueFalseKind) EditableFields() []string { return []string{FieldCorrectAnswer} }

func (trueFalseKind) Apply(v Variant, values map[string]any) (Variant, error) {
	tf, ok := v.(TrueFalse)
	if !ok {
		return nil, ErrAnswerMismatch
	}
	if raw, ok := values[FieldCorrectAnswer]; ok {
		b, err := asBool(FieldCorrectAnswer, raw)
		if err != nil {
			return nil, err
		}
		tf.CorrectAnswer = b
	}
	return tf, nil
}

func (trueFalseKind) Prompt(q Question) Prompt {
	return Prompt{ID: q.ID, Type: q.Type, Description: q.Description, Choices: []string{formatBool(true), formatBool(false)}}
}

func (trueFalseKind) ParseAnswer(q Question, form map[string]string) (Answer, error) {
	raw := strings.TrimSpace(form[FieldAnswer])
	if raw == "" {
		return nil, AnswerErrors{FieldAnswer: "Required"}
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, AnswerErrors{FieldAnswer: "Answer true or false"}
	}
	return BoolAnswer(b), nil
}

func (trueFalseKind) DecodeAnswer(raw json.RawMessage) (Answer, error) {
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, err
	}
	return BoolAnswer(b), nil
}

func (trueFalseKind) Grade(q Question, a Answer) (Outcome, error) {
	tf, ok := q.Variant.(TrueFalse)
	if !ok {
		return Outcome{}, ErrAnswerMismatch
	}
	got, ok := a.(BoolAnswer)
	if !ok {
		return Outcome{}, ErrAnswerMismatch
	}
	return Outcome{
		Correct:          bool(got) == tf.CorrectAnswer,
		CorrectDisplay:   formatBool(tf.CorrectAnswer),
		SubmittedDisplay: formatBool(bool(got)),
	}, nil
}
