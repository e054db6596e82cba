package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/mind-engage/mindengage-quiz/internal/question"
)

// variantTable maps one question type to its extension table. Rows are
// keyed by the base question id.
type variantTable struct {
	table   string
	columns []string
	values  func(question.Variant) ([]any, error)
	scan    func(scan func(dest ...any) error) (question.Variant, error)
}

var variantTables = map[question.Type]variantTable{
	question.TypeMCQ: {
		table: "mcq_questions",
		columns: []string{
			question.FieldChoiceOne, question.FieldChoiceTwo, question.FieldChoiceThree,
			question.FieldChoiceFour, question.FieldCorrectAnswer,
		},
		values: func(v question.Variant) ([]any, error) {
			m, ok := v.(question.MultipleChoice)
			if !ok {
				return nil, question.ErrAnswerMismatch
			}
			return []any{m.Choices[0], m.Choices[1], m.Choices[2], m.Choices[3], m.CorrectAnswer}, nil
		},
		scan: func(scan func(dest ...any) error) (question.Variant, error) {
			var m question.MultipleChoice
			err := scan(&m.Choices[0], &m.Choices[1], &m.Choices[2], &m.Choices[3], &m.CorrectAnswer)
			return m, err
		},
	},
	question.TypeTrueFalse: {
		table:   "true_false_questions",
		columns: []string{question.FieldCorrectAnswer},
		values: func(v question.Variant) ([]any, error) {
			tf, ok := v.(question.TrueFalse)
			if !ok {
				return nil, question.ErrAnswerMismatch
			}
			return []any{tf.CorrectAnswer}, nil
		},
		scan: func(scan func(dest ...any) error) (question.Variant, error) {
			var tf question.TrueFalse
			err := scan(&tf.CorrectAnswer)
			return tf, err
		},
	},
	question.TypeMath: {
		table: "math_questions",
		columns: []string{
			question.FieldCorrectAnswer, question.FieldUnits, question.FieldUnitsGiven,
			question.FieldAccuracy, question.FieldAccuracyDegree,
		},
		values: func(v question.Variant) ([]any, error) {
			m, ok := v.(question.Math)
			if !ok {
				return nil, question.ErrAnswerMismatch
			}
			return []any{m.CorrectAnswer, nullString(m.Units), nullBool(m.UnitsGiven), string(m.Accuracy), nullFloat(m.AccuracyDegree)}, nil
		},
		scan: func(scan func(dest ...any) error) (question.Variant, error) {
			var (
				m        question.Math
				units    sql.NullString
				given    sql.NullBool
				accuracy string
				degree   sql.NullFloat64
			)
			if err := scan(&m.CorrectAnswer, &units, &given, &accuracy, &degree); err != nil {
				return nil, err
			}
			m.Accuracy = question.Accuracy(accuracy)
			if units.Valid {
				m.Units = &units.String
			}
			if given.Valid {
				m.UnitsGiven = &given.Bool
			}
			if degree.Valid {
				m.AccuracyDegree = &degree.Float64
			}
			return m, nil
		},
	},
}

func tableFor(t question.Type) (variantTable, error) {
	vt, ok := variantTables[t]
	if !ok {
		return variantTable{}, fmt.Errorf("%w: %q", question.ErrUnknownType, t)
	}
	return vt, nil
}

func (vt variantTable) insertSQL() string {
	ph := make([]string, len(vt.columns)+1)
	for i := range ph {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (id, %s) VALUES (%s)",
		vt.table, strings.Join(vt.columns, ", "), strings.Join(ph, ", "))
}

func (vt variantTable) updateSQL() string {
	set := make([]string, len(vt.columns))
	for i, c := range vt.columns {
		set[i] = fmt.Sprintf("%s=$%d", c, i+1)
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE id=$%d", vt.table, strings.Join(set, ", "), len(vt.columns)+1)
}

func (vt variantTable) selectSQL(where string) string {
	return fmt.Sprintf("SELECT id, %s FROM %s WHERE %s", strings.Join(vt.columns, ", "), vt.table, where)
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func nullBool(p *bool) sql.NullBool {
	if p == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *p, Valid: true}
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}
