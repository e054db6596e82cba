package question

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Kind bundles everything the engine needs to know about one question type.
// Call sites outside this package go through Lookup, so adding a type means
// registering a new Kind.
type Kind interface {
	Type() Type

	// DecodeVariant parses an authoring payload. Absent required fields
	// are reported as ErrMissingRequiredField.
	DecodeVariant(raw json.RawMessage) (Variant, error)
	// Validate enforces the variant invariants.
	Validate(v Variant) error
	// EditableFields is the allow-list for Edit.
	EditableFields() []string
	// Apply returns a copy of v with the allow-listed values applied.
	Apply(v Variant, values map[string]any) (Variant, error)

	Prompt(q Question) Prompt
	// ParseAnswer is the answer contract for q: it coerces a submitted
	// form into a typed Answer or returns AnswerErrors.
	ParseAnswer(q Question, form map[string]string) (Answer, error)
	DecodeAnswer(raw json.RawMessage) (Answer, error)
	Grade(q Question, a Answer) (Outcome, error)
}

var kinds = map[Type]Kind{}

// Register installs a kind. Call from init.
func Register(k Kind) {
	if _, dup := kinds[k.Type()]; dup {
		panic(fmt.Sprintf("question: kind %q registered twice", k.Type()))
	}
	kinds[k.Type()] = k
}

// Lookup resolves a type tag.
func Lookup(t Type) (Kind, error) {
	k, ok := kinds[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	return k, nil
}

// Types lists the registered type tags in sorted order.
func Types() []Type {
	out := make([]Type, 0, len(kinds))
	for t := range kinds {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DecodeDraft parses an authoring payload of type t. The description is
// read from the same object as the variant fields.
func DecodeDraft(t Type, raw json.RawMessage) (Draft, error) {
	k, err := Lookup(t)
	if err != nil {
		return Draft{}, err
	}
	var base struct {
		Description *string `json:"description"`
	}
	if err := json.Unmarshal(raw, &base); err != nil {
		return Draft{}, fmt.Errorf("%w: %v", ErrUnexpectedValue, err)
	}
	if base.Description == nil {
		return Draft{}, fieldErr(FieldDescription, ErrMissingRequiredField)
	}
	v, err := k.DecodeVariant(raw)
	if err != nil {
		return Draft{}, err
	}
	return Draft{Description: *base.Description, Variant: v}, nil
}
