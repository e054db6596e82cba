package question

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Coercion of loosely typed edit values (decoded JSON, form strings, Go
// literals). A wrong type is ErrUnexpectedValue on that field.

func badValue(field string, v any) error {
	return fieldErr(field, fmt.Errorf("%w: %v", ErrUnexpectedValue, v))
}

func asString(field string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", badValue(field, v)
	}
	return s, nil
}

func asStrings(field string, v any) ([]string, error) {
	switch t := v.(type) {
	case []string:
		return append([]string(nil), t...), nil
	case []any:
		out := make([]string, len(t))
		for i, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, badValue(field, v)
			}
			out[i] = s
		}
		return out, nil
	}
	return nil, badValue(field, v)
}

func asFloat(field string, v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, badValue(field, v)
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, badValue(field, v)
		}
		return f, nil
	}
	return 0, badValue(field, v)
}

func asInt(field string, v any) (int, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, badValue(field, v)
		}
		return i, nil
	}
	f, err := asFloat(field, v)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, badValue(field, v)
	}
	return int(f), nil
}

func asBool(field string, v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return false, badValue(field, v)
		}
		return b, nil
	}
	return false, badValue(field, v)
}

// Optional variants treat nil and "" as "clear the field".

func asOptString(field string, v any) (*string, error) {
	if v == nil {
		return nil, nil
	}
	s, err := asString(field, v)
	if err != nil || s == "" {
		return nil, err
	}
	return &s, nil
}

func asOptBool(field string, v any) (*bool, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok && s == "" {
		return nil, nil
	}
	b, err := asBool(field, v)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func asOptFloat(field string, v any) (*float64, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok && s == "" {
		return nil, nil
	}
	f, err := asFloat(field, v)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
