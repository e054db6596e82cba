package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	auth "github.com/mind-engage/mindengage-quiz/internal/auth/middleware"
)

// NewRouter mounts the whole API.
func NewRouter(d Deps, tokenTTL time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, RequestLogger(d.Log), middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/register", RegisterHandler(d))
	r.Post("/auth/login", LoginHandler(d, tokenTTL))

	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(d.Auth, d.Sessions))

		pr.Post("/auth/logout", LogoutHandler(d))
		pr.Get("/profile", ProfileHandler(d))

		pr.Post("/topics", CreateTopicsHandler(d))
		pr.Route("/topics/{topicID}", func(tr chi.Router) {
			tr.Use(RequireTopicOwner(d.Store, d.Log))
			tr.Put("/", EditTopicHandler(d))
			tr.Delete("/", DeleteTopicHandler(d))
		})

		pr.Post("/question-sets", CreateQuestionSetsHandler(d))
		pr.Route("/question-sets/{setID}", func(sr chi.Router) {
			// Only the set's contributor may author or answer it.
			sr.Group(func(or chi.Router) {
				or.Use(RequireQuestionSetOwner(d.Store, d.Log))
				or.Post("/answer", StartAnswerHandler(d))
				or.Get("/answer", CurrentQuestionHandler(d))
				or.Post("/answer/submit", SubmitAnswerHandler(d))
				or.Get("/", GetQuestionSetHandler(d))
				or.Put("/", EditQuestionSetHandler(d))
				or.Delete("/", DeleteQuestionSetHandler(d))
				or.Post("/reorder", ReorderHandler(d))
				or.Post("/questions", CreateQuestionsHandler(d))
				or.With(RequireQuestionOwner(d.Store, d.Log)).
					Put("/questions/{questionID}", EditQuestionHandler(d))
				or.With(RequireQuestionOwner(d.Store, d.Log)).
					Delete("/questions/{questionID}", DeleteQuestionHandler(d))
			})
		})

		pr.Get("/report", ReportHandler(d))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.Ready != nil {
			if err := d.Ready(r.Context()); err != nil {
				d.Log.Warn("not ready", "error", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})
	return r
}
