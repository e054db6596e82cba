package question

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownType            = errors.New("unknown question type")
	ErrDuplicateDescription   = errors.New("a question with that description already exists in this set")
	ErrDuplicateChoice        = errors.New("choices must be different from each other")
	ErrAnswerOutOfRange       = errors.New("correct answer must be one of the choices")
	ErrUnitFieldsInconsistent = errors.New("units and units given must both be set or both be empty")
	ErrAccuracyDegreeRequired = errors.New("accuracy degree must be given if and only if accuracy is not exact")
	ErrInvalidPermutation     = errors.New("new order must contain every question of the set exactly once")
	ErrMissingRequiredField   = errors.New("required field is missing")
	ErrUnexpectedValue        = errors.New("unexpected value")
	ErrAnswerMismatch         = errors.New("answer does not match question type")
)

// FieldError ties a domain error to the form field that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return fmt.Sprintf("%s: %v", e.Field, e.Err) }

func (e *FieldError) Unwrap() error { return e.Err }

func fieldErr(field string, err error) error { return &FieldError{Field: field, Err: err} }

// AnswerErrors holds per-field problems with a submitted answer.
type AnswerErrors map[string]string

func (e AnswerErrors) Error() string {
	for k, v := range e {
		return fmt.Sprintf("invalid answer: %s: %s", k, v)
	}
	return "invalid answer"
}
