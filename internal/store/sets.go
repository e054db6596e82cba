package store

import (
	"context"
	"database/sql"
)

// CreateQuestionSets inserts a batch of sets under one topic.
func (s *SQLStore) CreateQuestionSets(ctx context.Context, topicID int64, descriptions []string) ([]QuestionSet, error) {
	out := make([]QuestionSet, 0, len(descriptions))
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, d := range descriptions {
			qs := QuestionSet{TopicID: topicID, Description: d}
			if err := tx.QueryRowContext(ctx,
				`INSERT INTO question_sets (topic_id, description) VALUES ($1,$2) RETURNING id`, topicID, d).Scan(&qs.ID); err != nil {
				return mapConstraint(err)
			}
			out = append(out, qs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLStore) GetQuestionSet(ctx context.Context, id int64) (QuestionSet, error) {
	var qs QuestionSet
	err := s.db.SQL.QueryRowContext(ctx, `SELECT id, topic_id, description FROM question_sets WHERE id=$1`, id).
		Scan(&qs.ID, &qs.TopicID, &qs.Description)
	if err != nil {
		return QuestionSet{}, notFound(err)
	}
	return qs, nil
}

func (s *SQLStore) UpdateQuestionSet(ctx context.Context, id int64, description string) error {
	res, err := s.db.SQL.ExecContext(ctx, `UPDATE question_sets SET description=$1 WHERE id=$2`, description, id)
	if err != nil {
		return mapConstraint(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) DeleteQuestionSet(ctx context.Context, id int64) error {
	res, err := s.db.SQL.ExecContext(ctx, `DELETE FROM question_sets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// TopicOwner returns the user owning the topic.
func (s *SQLStore) TopicOwner(ctx context.Context, topicID int64) (int64, error) {
	var uid int64
	err := s.db.SQL.QueryRowContext(ctx, `SELECT user_id FROM topics WHERE id=$1`, topicID).Scan(&uid)
	return uid, notFound(err)
}

// QuestionSetOwner returns the user owning the set's topic.
func (s *SQLStore) QuestionSetOwner(ctx context.Context, setID int64) (int64, error) {
	var uid int64
	err := s.db.SQL.QueryRowContext(ctx, `
		SELECT t.user_id FROM question_sets qs JOIN topics t ON t.id = qs.topic_id
		WHERE qs.id=$1`, setID).Scan(&uid)
	return uid, notFound(err)
}

// QuestionOwner returns the owning user and the set of a question.
func (s *SQLStore) QuestionOwner(ctx context.Context, questionID int64) (userID, setID int64, err error) {
	err = s.db.SQL.QueryRowContext(ctx, `
		SELECT t.user_id, q.question_set_id FROM questions q
		JOIN question_sets qs ON qs.id = q.question_set_id
		JOIN topics t ON t.id = qs.topic_id
		WHERE q.id=$1`, questionID).Scan(&userID, &setID)
	return userID, setID, notFound(err)
}
