package forms

import (
	"errors"
	"testing"

	"github.com/mind-engage/mindengage-quiz/internal/question"
)

func TestRegisterRules(t *testing.T) {
	cases := []struct {
		name  string
		form  Register
		field string
	}{
		{"ok", Register{"alice_1", "Secret_123", "Secret_123"}, ""},
		{"short username", Register{"abcd", "Secret_123", "Secret_123"}, "username"},
		{"username starts with digit", Register{"1alice", "Secret_123", "Secret_123"}, "username"},
		{"username too long", Register{"a23456789012345678901234567", "Secret_123", "Secret_123"}, "username"},
		{"no special", Register{"alice_1", "Secret1234", "Secret1234"}, "password"},
		{"no upper", Register{"alice_1", "secret_123", "secret_123"}, "password"},
		{"too short", Register{"alice_1", "Se_1", "Se_1"}, "password"},
		{"bad charset", Register{"alice_1", "Secret#123", "Secret#123"}, "password"},
		{"mismatch", Register{"alice_1", "Secret_123", "Secret_124"}, "confirm_password"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := Validate(c.form)
			if c.field == "" {
				if err != nil {
					t.Fatalf("unexpected %v", err)
				}
				return
			}
			var fe Errors
			if !errors.As(err, &fe) {
				t.Fatalf("want Errors, got %v", err)
			}
			if _, ok := fe[c.field]; !ok {
				t.Fatalf("want error on %s, got %v", c.field, fe)
			}
		})
	}
}

func TestLengthLimits(t *testing.T) {
	long := make([]byte, 51)
	for i := range long {
		long[i] = 'x'
	}
	err := Validate(NewTopics{Titles: []string{"ok", string(long)}})
	var fe Errors
	if !errors.As(err, &fe) || fe["titles[1]"] == "" {
		t.Fatalf("got %v", err)
	}
	if err := Validate(NewTopics{}); err == nil {
		t.Fatal("empty batch must fail")
	}

	mcq := question.MultipleChoice{Choices: [question.NumChoices]string{"a", string(long), "c", "d"}}
	err = Validate(mcq)
	if !errors.As(err, &fe) || fe["choices[1]"] == "" {
		t.Fatalf("choice length: got %v", err)
	}
}
