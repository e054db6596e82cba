package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	auth "github.com/mind-engage/mindengage-quiz/internal/auth/middleware"
	"github.com/mind-engage/mindengage-quiz/internal/logger"
	"github.com/mind-engage/mindengage-quiz/internal/store"
)

type ctxKey string

const (
	ctxTopicID    ctxKey = "topic_id"
	ctxSetID      ctxKey = "set_id"
	ctxQuestionID ctxKey = "question_id"
)

func idFromContext(ctx context.Context, k ctxKey) int64 {
	id, _ := ctx.Value(k).(int64)
	return id
}

func urlID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("bad " + name)
	}
	return id, nil
}

// requireOwner parses the URL id, asks owner who holds it and lets the
// request through only for that user. Missing rows are 404.
func requireOwner(log *logger.Logger, param string, key ctxKey, owner func(ctx context.Context, id int64) (int64, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := auth.PrincipalFromContext(r.Context())
			if !ok {
				writeError(w, r, log, errUnauthorized)
				return
			}
			id, err := urlID(r, param)
			if err != nil {
				writeError(w, r, log, err)
				return
			}
			uid, err := owner(r.Context(), id)
			if err != nil {
				writeError(w, r, log, err)
				return
			}
			if uid != p.UserID {
				writeError(w, r, log, errForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), key, id)))
		})
	}
}

func RequireTopicOwner(o Ownership, log *logger.Logger) func(http.Handler) http.Handler {
	return requireOwner(log, "topicID", ctxTopicID, o.TopicOwner)
}

func RequireQuestionSetOwner(o Ownership, log *logger.Logger) func(http.Handler) http.Handler {
	return requireOwner(log, "setID", ctxSetID, o.QuestionSetOwner)
}

// RequireQuestionOwner also checks that the question sits in the set named
// by the URL, so it must run after RequireQuestionSetOwner.
func RequireQuestionOwner(o Ownership, log *logger.Logger) func(http.Handler) http.Handler {
	return requireOwner(log, "questionID", ctxQuestionID, func(ctx context.Context, id int64) (int64, error) {
		uid, setID, err := o.QuestionOwner(ctx, id)
		if err != nil {
			return 0, err
		}
		if want := idFromContext(ctx, ctxSetID); want != 0 && want != setID {
			return 0, store.ErrNotFound
		}
		return uid, nil
	})
}
