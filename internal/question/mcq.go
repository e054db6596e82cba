package question

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// NumChoices is fixed by the mcq_questions table.
const NumChoices = 4

// MultipleChoice has four distinct labels and the index of the right one.
type MultipleChoice struct {
	Choices       [NumChoices]string `json:"choices" validate:"dive,max=50"`
	CorrectAnswer int                `json:"correct_answer"`
}

func (MultipleChoice) QuestionType() Type { return TypeMCQ }

// ChoiceAnswer is the index of the picked choice.
type ChoiceAnswer int

func (ChoiceAnswer) QuestionType() Type { return TypeMCQ }

type mcqKind struct{}

func init() { Register(mcqKind{}) }

func (mcqKind) Type() Type { return TypeMCQ }

func (mcqKind) DecodeVariant(raw json.RawMessage) (Variant, error) {
	var w struct {
		Choices       []string `json:"choices"`
		CorrectAnswer *int     `json:"correct_answer"`
	}
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedValue, err)
	}
	if len(w.Choices) != NumChoices {
		return nil, fieldErr(FieldChoices, ErrMissingRequiredField)
	}
	if w.CorrectAnswer == nil {
		return nil, fieldErr(FieldCorrectAnswer, ErrMissingRequiredField)
	}
	var m MultipleChoice
	copy(m.Choices[:], w.Choices)
	m.CorrectAnswer = *w.CorrectAnswer
	return m, nil
}

func (mcqKind) Validate(v Variant) error {
	m, ok := v.(MultipleChoice)
	if !ok {
		return ErrAnswerMismatch
	}
	for i, c := range m.Choices {
		if strings.TrimSpace(c) == "" {
			return fieldErr(ChoiceFields[i], ErrMissingRequiredField)
		}
	}
	for i := 0; i < NumChoices; i++ {
		for j := i + 1; j < NumChoices; j++ {
			if m.Choices[i] == m.Choices[j] {
				return fieldErr(ChoiceFields[j], ErrDuplicateChoice)
			}
		}
	}
	if m.CorrectAnswer < 0 || m.CorrectAnswer >= NumChoices {
		return fieldErr(FieldCorrectAnswer, ErrAnswerOutOfRange)
	}
	return nil
}

func (mcqKind) EditableFields() []string {
	return []string{FieldChoices, FieldChoiceOne, FieldChoiceTwo, FieldChoiceThree, FieldChoiceFour, FieldCorrectAnswer}
}

func (mcqKind) Apply(v Variant, values map[string]any) (Variant, error) {
	m, ok := v.(MultipleChoice)
	if !ok {
		return nil, ErrAnswerMismatch
	}
	// The whole list is applied first; a single choice_* key wins over it.
	if raw, ok := values[FieldChoices]; ok {
		cs, err := asStrings(FieldChoices, raw)
		if err != nil {
			return nil, err
		}
		if len(cs) != NumChoices {
			return nil, badValue(FieldChoices, raw)
		}
		copy(m.Choices[:], cs)
	}
	for i, f := range ChoiceFields {
		raw, ok := values[f]
		if !ok {
			continue
		}
		s, err := asString(f, raw)
		if err != nil {
			return nil, err
		}
		m.Choices[i] = s
	}
	if raw, ok := values[FieldCorrectAnswer]; ok {
		n, err := asInt(FieldCorrectAnswer, raw)
		if err != nil {
			return nil, err
		}
		m.CorrectAnswer = n
	}
	return m, nil
}

func (mcqKind) Prompt(q Question) Prompt {
	p := Prompt{ID: q.ID, Type: q.Type, Description: q.Description}
	if m, ok := q.Variant.(MultipleChoice); ok {
		p.Choices = append([]string(nil), m.Choices[:]...)
	}
	return p
}

func (mcqKind) ParseAnswer(q Question, form map[string]string) (Answer, error) {
	raw, ok := form[FieldAnswer]
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, AnswerErrors{FieldAnswer: "Required"}
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 || n >= NumChoices {
		return nil, AnswerErrors{FieldAnswer: "Pick one of the choices"}
	}
	return ChoiceAnswer(n), nil
}

func (mcqKind) DecodeAnswer(raw json.RawMessage) (Answer, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, err
	}
	return ChoiceAnswer(n), nil
}

func (mcqKind) Grade(q Question, a Answer) (Outcome, error) {
	m, ok := q.Variant.(MultipleChoice)
	if !ok {
		return Outcome{}, ErrAnswerMismatch
	}
	picked, ok := a.(ChoiceAnswer)
	if !ok {
		return Outcome{}, ErrAnswerMismatch
	}
	if picked < 0 || int(picked) >= NumChoices || m.CorrectAnswer < 0 || m.CorrectAnswer >= NumChoices {
		return Outcome{}, fmt.Errorf("%w: choice %d", ErrAnswerOutOfRange, picked)
	}
	return Outcome{
		Correct:          int(picked) == m.CorrectAnswer,
		CorrectDisplay:   m.Choices[m.CorrectAnswer],
		SubmittedDisplay: m.Choices[picked],
	}, nil
}
