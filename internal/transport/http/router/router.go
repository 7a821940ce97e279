package router

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/baechuer/noteplus/internal/transport/http/middleware"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	UserInfo(w http.ResponseWriter, r *http.Request)
}

type NoteHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health HealthHandler
	Auth   AuthHandler
	Notes  NoteHandler

	AuthMW func(http.Handler) http.Handler
	// UpdateMW guards PUT /api/notes/{id}. Defaults to AuthMW; the legacy
	// open-update mode passes an optional-auth middleware instead.
	UpdateMW func(http.Handler) http.Handler

	// Optional per-route limiters; nil disables.
	RLRegister func(http.Handler) http.Handler
	RLLogin    func(http.Handler) http.Handler

	Production     bool
	AllowedOrigins []string

	// Global per-IP limit (in-process).
	RLEnabled  bool
	RLIPLimit  int
	RLIPWindow time.Duration

	// Tracing wraps the whole mux in otelhttp when set.
	Tracing     bool
	ServiceName string
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, errors.New("nil Health handler")
	}
	if deps.Auth == nil {
		return nil, errors.New("nil Auth handler")
	}
	if deps.Notes == nil {
		return nil, errors.New("nil Notes handler")
	}
	if deps.AuthMW == nil {
		return nil, errors.New("nil Auth middleware")
	}
	if deps.UpdateMW == nil {
		deps.UpdateMW = deps.AuthMW
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(middleware.Metrics)
	r.Use(middleware.SecurityHeaders(deps.Production))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   originsOrAny(deps.AllowedOrigins),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.HeaderXRequestID},
		ExposedHeaders:   []string{middleware.HeaderXRequestID, "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if deps.RLEnabled && deps.RLIPLimit > 0 {
			r.Use(httprate.LimitByIP(deps.RLIPLimit, deps.RLIPWindow))
		}

		r.With(orPass(deps.RLRegister)).Post("/register", deps.Auth.Register)
		r.With(orPass(deps.RLLogin)).Post("/login", deps.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMW)
			r.Get("/user-info", deps.Auth.UserInfo)
			r.Post("/notes", deps.Notes.Create)
			r.Get("/notes", deps.Notes.List)
			r.Delete("/notes/{id}", deps.Notes.Delete)
		})

		r.With(deps.UpdateMW).Put("/notes/{id}", deps.Notes.Update)
	})

	if !deps.Tracing {
		return r, nil
	}
	name := deps.ServiceName
	if name == "" {
		name = "noteplus"
	}
	return otelhttp.NewHandler(r, name,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	), nil
}

func orPass(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	if mw == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return mw
}

func originsOrAny(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
