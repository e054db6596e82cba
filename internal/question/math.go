package question

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Accuracy selects how a numeric answer is compared to the key.
type Accuracy string

const (
	AccuracyExact       Accuracy = "exact"
	AccuracyUncertainty Accuracy = "uncertainty" // absolute: |got-want| <= degree
	AccuracyPercentage  Accuracy = "percentage"  // relative: within degree% of want
)

func (a Accuracy) Valid() bool {
	switch a {
	case AccuracyExact, AccuracyUncertainty, AccuracyPercentage:
		return true
	}
	return false
}

// Math is a numeric question. Units and UnitsGiven are set together or not
// at all; AccuracyDegree is set exactly when Accuracy is not exact.
type Math struct {
	CorrectAnswer  float64  `json:"correct_answer"`
	Units          *string  `json:"units,omitempty" validate:"omitempty,max=20"`
	UnitsGiven     *bool    `json:"units_given,omitempty"`
	Accuracy       Accuracy `json:"accuracy"`
	AccuracyDegree *float64 `json:"accuracy_degree,omitempty"`
}

func (Math) QuestionType() Type { return TypeMath }

// asksUnits reports whether the student has to type the unit.
func (m Math) asksUnits() bool {
	return m.Units != nil && (m.UnitsGiven == nil || !*m.UnitsGiven)
}

func (m Math) display(v float64) string {
	if m.Units == nil {
		return formatNumber(v)
	}
	return formatNumber(v) + " " + *m.Units
}

// within compares got to the key using the question's accuracy mode.
func (m Math) within(got float64) bool {
	want := m.CorrectAnswer
	switch m.Accuracy {
	case AccuracyUncertainty:
		if m.AccuracyDegree == nil {
			return false
		}
		return inRange(got, want-*m.AccuracyDegree, want+*m.AccuracyDegree)
	case AccuracyPercentage:
		if m.AccuracyDegree == nil {
			return false
		}
		delta := math.Abs(want) * *m.AccuracyDegree / 100
		return inRange(got, want-delta, want+delta)
	default:
		return got == want
	}
}

// inRange is an inclusive bounds check that forgives binary rounding of the
// bounds themselves.
func inRange(v, lo, hi float64) bool {
	eps := 1e-9 * math.Max(1, math.Max(math.Abs(lo), math.Abs(hi)))
	return v >= lo-eps && v <= hi+eps
}

// MathAnswer is a number plus the unit the student typed, if asked.
type MathAnswer struct {
	Value float64 `json:"value"`
	Units string  `json:"units,omitempty"`
}

func (MathAnswer) QuestionType() Type { return TypeMath }

type mathKind struct{}

func init() { Register(mathKind{}) }

func (mathKind) Type() Type { return TypeMath }

func (mathKind) DecodeVariant(raw json.RawMessage) (Variant, error) {
	var w struct {
		CorrectAnswer  *float64 `json:"correct_answer"`
		Units          *string  `json:"units"`
		UnitsGiven     *bool    `json:"units_given"`
		Accuracy       *string  `json:"accuracy"`
		AccuracyDegree *float64 `json:"accuracy_degree"`
	}
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedValue, err)
	}
	if w.CorrectAnswer == nil {
		return nil, fieldErr(FieldCorrectAnswer, ErrMissingRequiredField)
	}
	if w.Accuracy == nil {
		return nil, fieldErr(FieldAccuracy, ErrMissingRequiredField)
	}
	if w.Units != nil && *w.Units == "" {
		w.Units = nil
	}
	return Math{
		CorrectAnswer:  *w.CorrectAnswer,
		Units:          w.Units,
		UnitsGiven:     w.UnitsGiven,
		Accuracy:       Accuracy(*w.Accuracy),
		AccuracyDegree: w.AccuracyDegree,
	}, nil
}

func (mathKind) Validate(v Variant) error {
	m, ok := v.(Math)
	if !ok {
		return ErrAnswerMismatch
	}
	if math.IsNaN(m.CorrectAnswer) || math.IsInf(m.CorrectAnswer, 0) {
		return badValue(FieldCorrectAnswer, m.CorrectAnswer)
	}
	if m.Accuracy == "" {
		return fieldErr(FieldAccuracy, ErrMissingRequiredField)
	}
	if !m.Accuracy.Valid() {
		return badValue(FieldAccuracy, m.Accuracy)
	}
	if (m.Units == nil) != (m.UnitsGiven == nil) {
		return fieldErr(FieldUnits, ErrUnitFieldsInconsistent)
	}
	if (m.Accuracy == AccuracyExact) != (m.AccuracyDegree == nil) {
		return fieldErr(FieldAccuracyDegree, ErrAccuracyDegreeRequired)
	}
	if m.AccuracyDegree != nil && (*m.AccuracyDegree < 0 || math.IsNaN(*m.AccuracyDegree)) {
		return badValue(FieldAccuracyDegree, *m.AccuracyDegree)
	}
	return nil
}

func (mathKind) EditableFields() []string {
	return []string{FieldCorrectAnswer, FieldUnits, FieldUnitsGiven, FieldAccuracy, FieldAccuracyDegree}
}

func (mathKind) Apply(v Variant, values map[string]any) (Variant, error) {
	m, ok := v.(Math)
	if !ok {
		return nil, ErrAnswerMismatch
	}
	var err error
	if raw, ok := values[FieldCorrectAnswer]; ok {
		if m.CorrectAnswer, err = asFloat(FieldCorrectAnswer, raw); err != nil {
			return nil, err
		}
	}
	if raw, ok := values[FieldUnits]; ok {
		if m.Units, err = asOptString(FieldUnits, raw); err != nil {
			return nil, err
		}
	}
	if raw, ok := values[FieldUnitsGiven]; ok {
		if m.UnitsGiven, err = asOptBool(FieldUnitsGiven, raw); err != nil {
			return nil, err
		}
	}
	if raw, ok := values[FieldAccuracy]; ok {
		s, err := asString(FieldAccuracy, raw)
		if err != nil {
			return nil, err
		}
		m.Accuracy = Accuracy(s)
	}
	if raw, ok := values[FieldAccuracyDegree]; ok {
		if m.AccuracyDegree, err = asOptFloat(FieldAccuracyDegree, raw); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (mathKind) Prompt(q Question) Prompt {
	p := Prompt{ID: q.ID, Type: q.Type, Description: q.Description}
	if m, ok := q.Variant.(Math); ok && m.Units != nil {
		if m.asksUnits() {
			p.AsksUnits = true
		} else {
			p.Units = *m.Units
		}
	}
	return p
}

func (mathKind) ParseAnswer(q Question, form map[string]string) (Answer, error) {
	m, ok := q.Variant.(Math)
	if !ok {
		return nil, ErrAnswerMismatch
	}
	errs := AnswerErrors{}
	var a MathAnswer
	raw := strings.TrimSpace(form[FieldAnswer])
	if raw == "" {
		errs[FieldAnswer] = "Required"
	} else if f, err := strconv.ParseFloat(raw, 64); err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		errs[FieldAnswer] = "Not a number"
	} else {
		a.Value = f
	}
	if m.asksUnits() {
		a.Units = strings.TrimSpace(form[FieldAnswerUnits])
		if a.Units == "" {
			errs[FieldAnswerUnits] = "Required"
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return a, nil
}

func (mathKind) DecodeAnswer(raw json.RawMessage) (Answer, error) {
	var a MathAnswer
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, err
	}
	return a, nil
}

func (mathKind) Grade(q Question, a Answer) (Outcome, error) {
	m, ok := q.Variant.(Math)
	if !ok {
		return Outcome{}, ErrAnswerMismatch
	}
	got, ok := a.(MathAnswer)
	if !ok {
		return Outcome{}, ErrAnswerMismatch
	}
	correct := m.within(got.Value)
	submitted := m.display(got.Value)
	if m.asksUnits() {
		correct = correct && strings.EqualFold(strings.TrimSpace(got.Units), strings.TrimSpace(*m.Units))
		submitted = formatNumber(got.Value)
		if got.Units != "" {
			submitted += " " + got.Units
		}
	}
	return Outcome{
		Correct:          correct,
		CorrectDisplay:   m.display(m.CorrectAnswer),
		SubmittedDisplay: submitted,
	}, nil
}
