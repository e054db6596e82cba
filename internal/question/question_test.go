package question

import (
	"encoding/json"
	"errors"
	"testing"
)

func ptr[T any](v T) *T { return &v }

func mathQ(m Math) Question {
	return Question{ID: 1, Type: TypeMath, Description: "how far", Variant: m}
}

func TestMathUncertaintyBounds(t *testing.T) {
	q := mathQ(Math{CorrectAnswer: 100, Accuracy: AccuracyUncertainty, AccuracyDegree: ptr(5.0)})
	cases := []struct {
		got  float64
		want bool
	}{
		{95, true}, {100, true}, {105, true}, {97, true},
		{94.99, false}, {105.01, false},
	}
	for _, c := range cases {
		out, err := Grade(q, MathAnswer{Value: c.got})
		if err != nil {
			t.Fatalf("grade %v: %v", c.got, err)
		}
		if out.Correct != c.want {
			t.Errorf("uncertainty: %v correct=%v, want %v", c.got, out.Correct, c.want)
		}
	}
}

func TestMathPercentageBounds(t *testing.T) {
	q := mathQ(Math{CorrectAnswer: 10, Accuracy: AccuracyPercentage, AccuracyDegree: ptr(10.0)})
	cases := []struct {
		got  float64
		want bool
	}{
		{9, true}, {10, true}, {11, true}, {10.5, true},
		{8.99, false}, {11.01, false},
	}
	for _, c := range cases {
		out, err := Grade(q, MathAnswer{Value: c.got})
		if err != nil {
			t.Fatalf("grade %v: %v", c.got, err)
		}
		if out.Correct != c.want {
			t.Errorf("percentage: %v correct=%v, want %v", c.got, out.Correct, c.want)
		}
	}
}

func TestMathExact(t *testing.T) {
	q := mathQ(Math{CorrectAnswer: 10, Accuracy: AccuracyExact})
	if out, _ := Grade(q, MathAnswer{Value: 10}); !out.Correct {
		t.Fatal("exact match should be correct")
	}
	if out, _ := Grade(q, MathAnswer{Value: 1}); out.Correct {
		t.Fatal("1 != 10")
	}
	if out, _ := Grade(q, MathAnswer{Value: 10.0000001}); out.Correct {
		t.Fatal("exact mode has no tolerance")
	}
}

func TestMathUnits(t *testing.T) {
	asked := mathQ(Math{CorrectAnswer: 3, Units: ptr("m"), UnitsGiven: ptr(false), Accuracy: AccuracyExact})
	out, err := Grade(asked, MathAnswer{Value: 3, Units: "M"})
	if err != nil {
		t.Fatal(err)
	}
	if !out.Correct || out.CorrectDisplay != "3 m" || out.SubmittedDisplay != "3 M" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if out, _ := Grade(asked, MathAnswer{Value: 3, Units: "km"}); out.Correct {
		t.Fatal("wrong unit must be incorrect")
	}

	given := mathQ(Math{CorrectAnswer: 3, Units: ptr("m"), UnitsGiven: ptr(true), Accuracy: AccuracyExact})
	out, _ = Grade(given, MathAnswer{Value: 3})
	if !out.Correct || out.SubmittedDisplay != "3 m" {
		t.Fatalf("given unit should be implied: %+v", out)
	}
	p, _ := PromptFor(given)
	if p.Units != "m" || p.AsksUnits {
		t.Fatalf("prompt %+v", p)
	}
}

func TestMultipleChoiceGrade(t *testing.T) {
	q := Question{Type: TypeMCQ, Description: "pick", Variant: MultipleChoice{
		Choices: [NumChoices]string{"One", "Two", "Three", "Four"}, CorrectAnswer: 1,
	}}
	out, err := Grade(q, ChoiceAnswer(1))
	if err != nil || !out.Correct || out.CorrectDisplay != "Two" || out.SubmittedDisplay != "Two" {
		t.Fatalf("got %+v, %v", out, err)
	}
	out, _ = Grade(q, ChoiceAnswer(3))
	if out.Correct || out.SubmittedDisplay != "Four" {
		t.Fatalf("got %+v", out)
	}
	if _, err := Grade(q, BoolAnswer(true)); !errors.Is(err, ErrAnswerMismatch) {
		t.Fatalf("want mismatch, got %v", err)
	}
}

func TestTrueFalseGrade(t *testing.T) {
	q := Question{Type: TypeTrueFalse, Description: "sky is green", Variant: TrueFalse{CorrectAnswer: false}}
	out, _ := Grade(q, BoolAnswer(false))
	if !out.Correct || out.CorrectDisplay != "False" || out.SubmittedDisplay != "False" {
		t.Fatalf("got %+v", out)
	}
	out, _ = Grade(q, BoolAnswer(true))
	if out.Correct || out.SubmittedDisplay != "True" {
		t.Fatalf("got %+v", out)
	}
}

func TestValidateDraft(t *testing.T) {
	choices := [NumChoices]string{"a", "b", "c", "d"}
	cases := []struct {
		name string
		typ  Type
		d    Draft
		want error
	}{
		{"ok mcq", TypeMCQ, Draft{"q", MultipleChoice{Choices: choices, CorrectAnswer: 3}}, nil},
		{"answer above range", TypeMCQ, Draft{"q", MultipleChoice{Choices: choices, CorrectAnswer: 4}}, ErrAnswerOutOfRange},
		{"answer below range", TypeMCQ, Draft{"q", MultipleChoice{Choices: choices, CorrectAnswer: -1}}, ErrAnswerOutOfRange},
		{"duplicate choice", TypeMCQ, Draft{"q", MultipleChoice{Choices: [NumChoices]string{"a", "b", "a", "d"}}}, ErrDuplicateChoice},
		{"empty choice", TypeMCQ, Draft{"q", MultipleChoice{Choices: [NumChoices]string{"a", "", "c", "d"}}}, ErrMissingRequiredField},
		{"empty description", TypeTrueFalse, Draft{" ", TrueFalse{}}, ErrMissingRequiredField},
		{"wrong payload", TypeMath, Draft{"q", TrueFalse{}}, ErrUnexpectedValue},
		{"units without flag", TypeMath, Draft{"q", Math{Units: ptr("m"), Accuracy: AccuracyExact}}, ErrUnitFieldsInconsistent},
		{"flag without units", TypeMath, Draft{"q", Math{UnitsGiven: ptr(true), Accuracy: AccuracyExact}}, ErrUnitFieldsInconsistent},
		{"degree on exact", TypeMath, Draft{"q", Math{Accuracy: AccuracyExact, AccuracyDegree: ptr(5.0)}}, ErrAccuracyDegreeRequired},
		{"missing degree", TypeMath, Draft{"q", Math{Accuracy: AccuracyUncertainty}}, ErrAccuracyDegreeRequired},
		{"bad accuracy", TypeMath, Draft{"q", Math{Accuracy: "roughly"}}, ErrUnexpectedValue},
		{"unknown type", Type("essay"), Draft{"q", TrueFalse{}}, ErrUnknownType},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := ValidateDraft(c.typ, c.d)
			if c.want == nil {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			if !errors.Is(err, c.want) {
				t.Fatalf("got %v, want %v", err, c.want)
			}
		})
	}
}

func TestFieldErrorNamesField(t *testing.T) {
	err := ValidateDraft(TypeMCQ, Draft{"q", MultipleChoice{Choices: [NumChoices]string{"a", "b", "c", "d"}, CorrectAnswer: 9}})
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != FieldCorrectAnswer {
		t.Fatalf("want field error on %s, got %v", FieldCorrectAnswer, err)
	}
}

func TestEditIgnoresUnknownKeys(t *testing.T) {
	q := Question{ID: 7, Type: TypeMCQ, Description: "old", Variant: MultipleChoice{
		Choices: [NumChoices]string{"a", "b", "c", "d"},
	}}
	out, err := Edit(q, map[string]any{
		FieldDescription: "new",
		FieldChoiceTwo:   "bee",
		FieldCorrectAnswer: float64(2),
		"garble":         5,
		FieldOrder:       99,
	})
	if err != nil {
		t.Fatal(err)
	}
	m := out.Variant.(MultipleChoice)
	if out.Description != "new" || m.Choices[1] != "bee" || m.CorrectAnswer != 2 || out.Order != q.Order {
		t.Fatalf("unexpected edit result %+v", out)
	}
	if q.Description != "old" {
		t.Fatal("edit must not mutate its input")
	}

	if _, err := Edit(q, map[string]any{FieldChoiceOne: "b"}); !errors.Is(err, ErrDuplicateChoice) {
		t.Fatalf("edit must re-validate, got %v", err)
	}
	if _, err := Edit(q, map[string]any{FieldCorrectAnswer: "two"}); !errors.Is(err, ErrUnexpectedValue) {
		t.Fatalf("want unexpected value, got %v", err)
	}
}

func TestEditChoicesList(t *testing.T) {
	q := Question{Type: TypeMCQ, Description: "d", Variant: MultipleChoice{
		Choices: [NumChoices]string{"a", "b", "c", "d"},
	}}
	out, err := Edit(q, map[string]any{FieldChoices: []any{"w", "x", "y", "z"}})
	if err != nil {
		t.Fatal(err)
	}
	if got := out.Variant.(MultipleChoice).Choices; got != [NumChoices]string{"w", "x", "y", "z"} {
		t.Fatalf("choices %v", got)
	}

	out, err = Edit(q, map[string]any{FieldChoices: []any{"w", "x", "y", "z"}, FieldChoiceFour: "q"})
	if err != nil {
		t.Fatal(err)
	}
	if got := out.Variant.(MultipleChoice).Choices[3]; got != "q" {
		t.Fatalf("choice_four should override the list, got %q", got)
	}

	for name, v := range map[string]any{
		"short":    []any{"w", "x"},
		"non-text": []any{"w", "x", "y", 4.0},
		"scalar":   "wxyz",
	} {
		var fe *FieldError
		if _, err := Edit(q, map[string]any{FieldChoices: v}); !errors.Is(err, ErrUnexpectedValue) ||
			!errors.As(err, &fe) || fe.Field != FieldChoices {
			t.Errorf("%s: got %v", name, err)
		}
	}
	if _, err := Edit(q, map[string]any{FieldChoices: []any{"w", "w", "y", "z"}}); !errors.Is(err, ErrDuplicateChoice) {
		t.Fatalf("duplicate list must re-validate, got %v", err)
	}
}

func TestEditMathClearsDegree(t *testing.T) {
	q := mathQ(Math{CorrectAnswer: 1, Accuracy: AccuracyUncertainty, AccuracyDegree: ptr(1.0)})
	out, err := Edit(q, map[string]any{FieldAccuracy: "exact", FieldAccuracyDegree: nil})
	if err != nil {
		t.Fatal(err)
	}
	if m := out.Variant.(Math); m.AccuracyDegree != nil || m.Accuracy != AccuracyExact {
		t.Fatalf("got %+v", m)
	}
}

func TestDecodeDraft(t *testing.T) {
	d, err := DecodeDraft(TypeMCQ, json.RawMessage(`{"description":"d","choices":["a","b","c","d"],"correct_answer":0}`))
	if err != nil {
		t.Fatal(err)
	}
	if d.Description != "d" || d.Variant.(MultipleChoice).Choices[3] != "d" {
		t.Fatalf("got %+v", d)
	}
	if _, err := DecodeDraft(TypeTrueFalse, json.RawMessage(`{"description":"d"}`)); !errors.Is(err, ErrMissingRequiredField) {
		t.Fatalf("missing correct_answer: got %v", err)
	}
	if _, err := DecodeDraft(TypeMath, json.RawMessage(`{"correct_answer":1,"accuracy":"exact"}`)); !errors.Is(err, ErrMissingRequiredField) {
		t.Fatalf("missing description: got %v", err)
	}
	if _, err := DecodeDraft("matrix", json.RawMessage(`{}`)); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("got %v", err)
	}
}

func TestParseAnswer(t *testing.T) {
	mcq := Question{Type: TypeMCQ, Variant: MultipleChoice{Choices: [NumChoices]string{"a", "b", "c", "d"}}}
	a, err := ParseAnswer(mcq, map[string]string{FieldAnswer: "2"})
	if err != nil || a != ChoiceAnswer(2) {
		t.Fatalf("got %v, %v", a, err)
	}
	if _, err := ParseAnswer(mcq, map[string]string{FieldAnswer: "4"}); err == nil {
		t.Fatal("choice 4 does not exist")
	}

	m := mathQ(Math{CorrectAnswer: 1, Units: ptr("s"), UnitsGiven: ptr(false), Accuracy: AccuracyExact})
	_, err = ParseAnswer(m, map[string]string{FieldAnswer: "x"})
	var ae AnswerErrors
	if !errors.As(err, &ae) || ae[FieldAnswer] == "" || ae[FieldAnswerUnits] == "" {
		t.Fatalf("want errors on both fields, got %v", err)
	}
	a, err = ParseAnswer(m, map[string]string{FieldAnswer: "1.5", FieldAnswerUnits: "s"})
	if err != nil || a != (MathAnswer{Value: 1.5, Units: "s"}) {
		t.Fatalf("got %v, %v", a, err)
	}
}

func TestQuestionJSONKeepsVariant(t *testing.T) {
	in := mathQ(Math{CorrectAnswer: 2.5, Units: ptr("kg"), UnitsGiven: ptr(true), Accuracy: AccuracyPercentage, AccuracyDegree: ptr(1.0)})
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out Question
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}
	m, ok := out.Variant.(Math)
	if !ok || *m.Units != "kg" || *m.AccuracyDegree != 1 || out.Description != in.Description {
		t.Fatalf("got %+v", out)
	}

	ab, err := MarshalAnswer(ChoiceAnswer(3))
	if err != nil {
		t.Fatal(err)
	}
	a, err := UnmarshalAnswer(ab)
	if err != nil || a != ChoiceAnswer(3) {
		t.Fatalf("got %v, %v", a, err)
	}
}

func TestLookup(t *testing.T) {
	if _, err := Lookup("essay"); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("got %v", err)
	}
	got := Types()
	if len(got) != 3 || got[0] != TypeMath || got[1] != TypeMCQ || got[2] != TypeTrueFalse {
		t.Fatalf("registered types %v", got)
	}
}
