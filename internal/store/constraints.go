package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"

	"github.com/mind-engage/mindengage-quiz/internal/question"
)

var constraintErrors = map[string]error{
	"unique_description_per_set":                     question.ErrDuplicateDescription,
	"answer_in_range":                                question.ErrAnswerOutOfRange,
	"unique_multiple_choices":                        question.ErrDuplicateChoice,
	"both_unit_columns_or_neither":                   question.ErrUnitFieldsInconsistent,
	"accuracy_degree_must_be_specified_if_not_exact": question.ErrAccuracyDegreeRequired,
	"unique_topic_per_user":                          ErrDuplicateTopic,
	"unique_description_per_topic":                   ErrDuplicateQuestionSet,
	"unique_username":                                ErrUsernameTaken,
}

// SQLite names UNIQUE violations by their column list.
var sqliteUniqueColumns = map[string]string{
	"questions.question_set_id, questions.description":    "unique_description_per_set",
	"questions.question_set_id, questions.question_order": "unique_order_per_set",
	"topics.user_id, topics.title":                        "unique_topic_per_user",
	"question_sets.topic_id, question_sets.description":   "unique_description_per_topic",
	"users.username":                                      "unique_username",
}

const (
	pgNotNullViolation = "23502"
	pgIntegrityClass   = "23"
)

// mapConstraint turns a storage integrity violation into the matching domain
// error. Unknown violations become question.ErrUnexpectedValue; errors that
// are not integrity violations pass through unchanged.
func mapConstraint(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if !strings.HasPrefix(pgErr.Code, pgIntegrityClass) {
			return err
		}
		if pgErr.Code == pgNotNullViolation {
			return fmt.Errorf("%w: %s", question.ErrMissingRequiredField, pgErr.ColumnName)
		}
		return byName(pgErr.ConstraintName)
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		msg := liteErr.Error()
		switch {
		case strings.Contains(msg, "NOT NULL constraint failed"):
			return fmt.Errorf("%w: %s", question.ErrMissingRequiredField, after(msg, "NOT NULL constraint failed: "))
		case strings.Contains(msg, "CHECK constraint failed"):
			return byName(after(msg, "CHECK constraint failed: "))
		case strings.Contains(msg, "UNIQUE constraint failed"):
			return byName(sqliteUniqueColumns[after(msg, "UNIQUE constraint failed: ")])
		case strings.Contains(msg, "constraint failed"):
			return byName("")
		}
	}
	return err
}

func byName(name string) error {
	if e, ok := constraintErrors[name]; ok {
		return e
	}
	if name == "" {
		return question.ErrUnexpectedValue
	}
	return fmt.Errorf("%w: constraint %s", question.ErrUnexpectedValue, name)
}

// after returns the text following marker up to the driver's trailing
// " (code)" suffix.
func after(msg, marker string) string {
	i := strings.Index(msg, marker)
	if i < 0 {
		return ""
	}
	s := msg[i+len(marker):]
	if j := strings.LastIndex(s, " ("); j >= 0 && strings.HasSuffix(s, ")") {
		s = s[:j]
	}
	return strings.TrimSpace(s)
}
