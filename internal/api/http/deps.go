package http

import (
	"context"

	auth "github.com/mind-engage/mindengage-quiz/internal/auth/middleware"
	"github.com/mind-engage/mindengage-quiz/internal/logger"
	"github.com/mind-engage/mindengage-quiz/internal/question"
	"github.com/mind-engage/mindengage-quiz/internal/session"
	"github.com/mind-engage/mindengage-quiz/internal/store"
)

// Store is what the handlers need from persistence. *store.SQLStore
// implements it.
type Store interface {
	CreateUser(ctx context.Context, username, password string) (store.User, error)
	Authenticate(ctx context.Context, username, password string) (store.User, error)
	GetUser(ctx context.Context, id int64) (store.User, error)

	CreateTopics(ctx context.Context, userID int64, titles []string) ([]store.Topic, error)
	UpdateTopic(ctx context.Context, id int64, title string) error
	DeleteTopic(ctx context.Context, id int64) error
	ListTopics(ctx context.Context, userID int64) ([]store.Topic, error)

	CreateQuestionSets(ctx context.Context, topicID int64, descriptions []string) ([]store.QuestionSet, error)
	GetQuestionSet(ctx context.Context, id int64) (store.QuestionSet, error)
	UpdateQuestionSet(ctx context.Context, id int64, description string) error
	DeleteQuestionSet(ctx context.Context, id int64) error

	CreateBatch(ctx context.Context, setID int64, t question.Type, drafts []question.Draft) ([]question.Question, error)
	Edit(ctx context.Context, q question.Question, values map[string]any) (question.Question, error)
	Reorder(ctx context.Context, setID int64, ids []int64) error
	FetchOrdered(ctx context.Context, setID int64) ([]question.Question, error)
	GetQuestion(ctx context.Context, id int64) (question.Question, error)
	DeleteQuestion(ctx context.Context, id int64) error

	Ownership
}

// Ownership answers "who owns this" for the route guards.
type Ownership interface {
	TopicOwner(ctx context.Context, topicID int64) (int64, error)
	QuestionSetOwner(ctx context.Context, setID int64) (int64, error)
	QuestionOwner(ctx context.Context, questionID int64) (userID, setID int64, err error)
}

// Events records finished quizzes.
type Events interface {
	Append(ctx context.Context, typ, key string, data any) error
}

type Deps struct {
	Store    Store
	Sessions session.Store
	Auth     *auth.AuthService
	Events   Events
	Log      *logger.Logger

	CORSOrigins []string
	// Ready backs /readyz; nil means always ready.
	Ready func(ctx context.Context) error
}
