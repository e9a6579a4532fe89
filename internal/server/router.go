package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Harsh-0z/civic-flow-backend/internal/auth"
	"github.com/Harsh-0z/civic-flow-backend/internal/config"
	cfmiddleware "github.com/Harsh-0z/civic-flow-backend/internal/middleware"
	"github.com/Harsh-0z/civic-flow-backend/internal/repository"
	"github.com/Harsh-0z/civic-flow-backend/internal/services/iam"
	"github.com/Harsh-0z/civic-flow-backend/internal/services/issues"
	"github.com/Harsh-0z/civic-flow-backend/internal/storage"
)

// RouterOptions controls the construction of the HTTP router.
type RouterOptions struct {
	Cfg          *config.Config
	Tokens       *auth.TokenCodec
	IAMService   *iam.Service
	IssueService *issues.Service
	Users        repository.UserRepository
	Uploader     storage.Uploader
	UploadDir    string
	// Policy overrides the default route table; mainly for tests.
	Policy *cfmiddleware.Policy
}

// CORSOptions returns the cross-origin policy for the configured frontend
// origins. The Authorization header must be allowed or browsers will strip
// the bearer token from their requests.
func CORSOptions(cfg *config.Config) cors.Options {
	return cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}
}

// NewRouter assembles the chi router: baseline middleware, CORS, the
// authenticate-then-authorize pair, and the API handlers. Authentication
// always runs before authorization; the filter attaches identity without
// rejecting, the policy rejects without inspecting tokens.
func NewRouter(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(CORSOptions(opts.Cfg)))

	r.Use(cfmiddleware.NewAuthnMiddleware(opts.Tokens, opts.Users))

	policy := opts.Policy
	if policy == nil {
		policy = cfmiddleware.DefaultPolicy()
	}
	r.Use(cfmiddleware.NewAuthzMiddleware(policy))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/auth/register", HandleRegister(opts.IAMService))
	r.Post("/auth/login", HandleLogin(opts.IAMService))

	r.Route("/issues", func(r chi.Router) {
		r.Post("/", HandleCreateIssue(opts.IssueService, opts.Uploader))
		r.Get("/", HandleListIssues(opts.IssueService))
		r.Get("/my", HandleMyIssues(opts.IssueService))
		r.Put("/{id}/status", HandleUpdateIssueStatus(opts.IssueService))
	})

	r.Route("/admin", func(r chi.Router) {
		r.Get("/users", HandleListUsers(opts.Users))
		r.Delete("/users/{id}", HandleDeleteUser(opts.Users))
	})

	if opts.UploadDir != "" {
		fileServer := http.FileServer(http.Dir(opts.UploadDir))
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", fileServer))
	}

	return r
}
