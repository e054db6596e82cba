package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mind-engage/mindengage-quiz/internal/db"
	"github.com/mind-engage/mindengage-quiz/internal/question"
)

// LastOrder returns the highest order index in the set, or -1 if empty.
func (s *SQLStore) LastOrder(ctx context.Context, setID int64) (int, error) {
	return lastOrder(ctx, s.db.SQL, setID)
}

func lastOrder(ctx context.Context, q querier, setID int64) (int, error) {
	var last sql.NullInt64
	err := q.QueryRowContext(ctx,
		`SELECT MAX(question_order) FROM questions WHERE question_set_id=$1`, setID).Scan(&last)
	if err != nil {
		return 0, err
	}
	if !last.Valid {
		return -1, nil
	}
	return int(last.Int64), nil
}

// CreateBatch validates every draft and inserts them as type t at
// contiguous orders after the current last one. Either all rows land or
// none do.
func (s *SQLStore) CreateBatch(ctx context.Context, setID int64, t question.Type, drafts []question.Draft) ([]question.Question, error) {
	vt, err := tableFor(t)
	if err != nil {
		return nil, err
	}
	for i, d := range drafts {
		if err := question.ValidateDraft(t, d); err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
	}
	if len(drafts) == 0 {
		return nil, nil
	}

	out := make([]question.Question, 0, len(drafts))
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		start, err := lastOrder(ctx, tx, setID)
		if err != nil {
			return err
		}
		for i, d := range drafts {
			q := question.Question{
				Type:          t,
				Description:   d.Description,
				Order:         start + 1 + i,
				QuestionSetID: setID,
				Variant:       d.Variant,
			}
			if err := tx.QueryRowContext(ctx,
				`INSERT INTO questions (type, description, question_order, question_set_id)
				 VALUES ($1,$2,$3,$4) RETURNING id`,
				string(q.Type), q.Description, q.Order, q.QuestionSetID).Scan(&q.ID); err != nil {
				return mapConstraint(err)
			}
			vals, err := vt.values(q.Variant)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, vt.insertSQL(), append([]any{q.ID}, vals...)...); err != nil {
				return mapConstraint(err)
			}
			out = append(out, q)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Edit applies the allow-listed values to q and writes the result back.
func (s *SQLStore) Edit(ctx context.Context, q question.Question, values map[string]any) (question.Question, error) {
	updated, err := question.Edit(q, values)
	if err != nil {
		return question.Question{}, err
	}
	vt, err := tableFor(updated.Type)
	if err != nil {
		return question.Question{}, err
	}
	vals, err := vt.values(updated.Variant)
	if err != nil {
		return question.Question{}, err
	}
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE questions SET description=$1 WHERE id=$2`, updated.Description, updated.ID)
		if err != nil {
			return mapConstraint(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		if _, err := tx.ExecContext(ctx, vt.updateSQL(), append(vals, updated.ID)...); err != nil {
			return mapConstraint(err)
		}
		return nil
	})
	if err != nil {
		return question.Question{}, err
	}
	return updated, nil
}

// Reorder sets each question's order to its position in ids. ids must be
// a permutation of the set's question ids.
func (s *SQLStore) Reorder(ctx context.Context, setID int64, ids []int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := questionIDs(ctx, tx, setID)
		if err != nil {
			return err
		}
		if !isPermutation(current, ids) {
			return question.ErrInvalidPermutation
		}
		const move = `UPDATE questions SET question_order=$1 WHERE id=$2 AND question_set_id=$3`
		if s.db.Driver == db.DriverPostgres {
			if _, err := tx.ExecContext(ctx, `SET CONSTRAINTS unique_order_per_set DEFERRED`); err != nil {
				return err
			}
		} else {
			// No deferrable UNIQUE in SQLite: park every row on a negative
			// slot first so the final pass never collides.
			for pos, id := range ids {
				if _, err := tx.ExecContext(ctx, move, -(pos + 1), id, setID); err != nil {
					return mapConstraint(err)
				}
			}
		}
		for pos, id := range ids {
			if _, err := tx.ExecContext(ctx, move, pos, id, setID); err != nil {
				return mapConstraint(err)
			}
		}
		return nil
	})
}

func questionIDs(ctx context.Context, q querier, setID int64) ([]int64, error) {
	rows, err := q.QueryContext(ctx, `SELECT id FROM questions WHERE question_set_id=$1`, setID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func isPermutation(have, got []int64) bool {
	if len(have) != len(got) {
		return false
	}
	want := make(map[int64]bool, len(have))
	for _, id := range have {
		want[id] = true
	}
	for _, id := range got {
		if !want[id] {
			return false
		}
		delete(want, id)
	}
	return len(want) == 0
}

// FetchOrdered returns every question of the set with its variant data,
// ascending by order.
func (s *SQLStore) FetchOrdered(ctx context.Context, setID int64) ([]question.Question, error) {
	rows, err := s.db.SQL.QueryContext(ctx,
		`SELECT id, type, description, question_order, question_set_id
		 FROM questions WHERE question_set_id=$1 ORDER BY question_order`, setID)
	if err != nil {
		return nil, err
	}
	out, err := scanBase(rows)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return []question.Question{}, nil
	}

	byID := make(map[int64]*question.Question, len(out))
	types := map[question.Type]bool{}
	for i := range out {
		byID[out[i].ID] = &out[i]
		types[out[i].Type] = true
	}
	for t := range types {
		vt, err := tableFor(t)
		if err != nil {
			return nil, err
		}
		err = s.loadVariants(ctx, vt,
			vt.selectSQL(`id IN (SELECT id FROM questions WHERE question_set_id=$1)`), []any{setID}, byID)
		if err != nil {
			return nil, err
		}
	}
	for _, q := range out {
		if q.Variant == nil {
			return nil, fmt.Errorf("store: question %d has no %s row", q.ID, q.Type)
		}
	}
	return out, nil
}

// GetQuestion loads one question with its variant data.
func (s *SQLStore) GetQuestion(ctx context.Context, id int64) (question.Question, error) {
	rows, err := s.db.SQL.QueryContext(ctx,
		`SELECT id, type, description, question_order, question_set_id FROM questions WHERE id=$1`, id)
	if err != nil {
		return question.Question{}, err
	}
	qs, err := scanBase(rows)
	if err != nil {
		return question.Question{}, err
	}
	if len(qs) == 0 {
		return question.Question{}, ErrNotFound
	}
	vt, err := tableFor(qs[0].Type)
	if err != nil {
		return question.Question{}, err
	}
	byID := map[int64]*question.Question{id: &qs[0]}
	if err := s.loadVariants(ctx, vt, vt.selectSQL(`id=$1`), []any{id}, byID); err != nil {
		return question.Question{}, err
	}
	if qs[0].Variant == nil {
		return question.Question{}, fmt.Errorf("store: question %d has no %s row", id, qs[0].Type)
	}
	return qs[0], nil
}

// DeleteQuestion removes the question; its variant row goes with it.
func (s *SQLStore) DeleteQuestion(ctx context.Context, id int64) error {
	res, err := s.db.SQL.ExecContext(ctx, `DELETE FROM questions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBase(rows *sql.Rows) ([]question.Question, error) {
	defer rows.Close()
	var out []question.Question
	for rows.Next() {
		var (
			q   question.Question
			typ string
		)
		if err := rows.Scan(&q.ID, &typ, &q.Description, &q.Order, &q.QuestionSetID); err != nil {
			return nil, err
		}
		q.Type = question.Type(typ)
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *SQLStore) loadVariants(ctx context.Context, vt variantTable, query string, args []any, byID map[int64]*question.Question) error {
	rows, err := s.db.SQL.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		v, err := vt.scan(func(dest ...any) error {
			return rows.Scan(append([]any{&id}, dest...)...)
		})
		if err != nil {
			return err
		}
		if q, ok := byID[id]; ok {
			q.Variant = v
		}
	}
	return rows.Err()
}
