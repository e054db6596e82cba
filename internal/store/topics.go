package store

import (
	"context"
	"database/sql"
)

type Topic struct {
	ID           int64         `json:"id"`
	UserID       int64         `json:"user_id"`
	Title        string        `json:"title"`
	QuestionSets []QuestionSet `json:"question_sets,omitempty"`
}

type QuestionSet struct {
	ID          int64  `json:"id"`
	TopicID     int64  `json:"topic_id"`
	Description string `json:"description"`
}

// CreateTopics inserts a batch of topics owned by userID.
func (s *SQLStore) CreateTopics(ctx context.Context, userID int64, titles []string) ([]Topic, error) {
	out := make([]Topic, 0, len(titles))
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, title := range titles {
			t := Topic{UserID: userID, Title: title}
			if err := tx.QueryRowContext(ctx,
				`INSERT INTO topics (user_id, title) VALUES ($1,$2) RETURNING id`, userID, title).Scan(&t.ID); err != nil {
				return mapConstraint(err)
			}
			out = append(out, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLStore) GetTopic(ctx context.Context, id int64) (Topic, error) {
	var t Topic
	err := s.db.SQL.QueryRowContext(ctx, `SELECT id, user_id, title FROM topics WHERE id=$1`, id).
		Scan(&t.ID, &t.UserID, &t.Title)
	if err != nil {
		return Topic{}, notFound(err)
	}
	return t, nil
}

func (s *SQLStore) UpdateTopic(ctx context.Context, id int64, title string) error {
	res, err := s.db.SQL.ExecContext(ctx, `UPDATE topics SET title=$1 WHERE id=$2`, title, id)
	if err != nil {
		return mapConstraint(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTopic removes the topic and, by cascade, its sets and questions.
func (s *SQLStore) DeleteTopic(ctx context.Context, id int64) error {
	res, err := s.db.SQL.ExecContext(ctx, `DELETE FROM topics WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListTopics returns the user's topics with their question sets.
func (s *SQLStore) ListTopics(ctx context.Context, userID int64) ([]Topic, error) {
	rows, err := s.db.SQL.QueryContext(ctx, `
		SELECT t.id, t.title, qs.id, qs.description
		FROM topics t LEFT JOIN question_sets qs ON qs.topic_id = t.id
		WHERE t.user_id=$1
		ORDER BY t.id, qs.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Topic{}
	for rows.Next() {
		var (
			tid   int64
			title string
			sid   sql.NullInt64
			desc  sql.NullString
		)
		if err := rows.Scan(&tid, &title, &sid, &desc); err != nil {
			return nil, err
		}
		if len(out) == 0 || out[len(out)-1].ID != tid {
			out = append(out, Topic{ID: tid, UserID: userID, Title: title})
		}
		if sid.Valid {
			t := &out[len(out)-1]
			t.QuestionSets = append(t.QuestionSets, QuestionSet{ID: sid.Int64, TopicID: tid, Description: desc.String})
		}
	}
	return out, rows.Err()
}
