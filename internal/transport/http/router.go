package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	clientapp "github.com/inspection-api/internal/application/client"
	"github.com/inspection-api/internal/application/inspection"
	projectapp "github.com/inspection-api/internal/application/project"
	"github.com/inspection-api/internal/application/verification"
	"github.com/inspection-api/internal/config"
	jwtinfra "github.com/inspection-api/internal/infrastructure/jwt"
	s3infra "github.com/inspection-api/internal/infrastructure/s3"
	"github.com/inspection-api/internal/infrastructure/sns"
	"github.com/inspection-api/internal/transport/http/handler"
	appmiddleware "github.com/inspection-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	InspectionRepo  InspectionRepository
	ClientRepo      ClientRepository
	ProjectRepo     ProjectRepository
	CredentialStore CredentialStore
	S3Store         *s3infra.Store
	SMSSender       sns.SMSSender
	JWTProvider     *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	verificationSvc := verification.NewService(verification.ServiceDeps{
		Store:     deps.CredentialStore,
		SMSSender: deps.SMSSender,
		Signer:    deps.JWTProvider,
	})
	inspectionSvc := inspection.NewService(inspection.ServiceDeps{
		Repo:          deps.InspectionRepo,
		Signer:        deps.S3Store,
		SMSSender:     deps.SMSSender,
		PublicBaseURL: cfg.PublicBaseURL,
	})
	clientSvc := clientapp.NewService(deps.ClientRepo)
	projectSvc := projectapp.NewService(deps.ProjectRepo)

	healthH := handler.NewHealthHandler()
	verificationH := handler.NewVerificationHandler(verificationSvc)
	inspectionH := handler.NewInspectionHandler(inspectionSvc)
	videoH := handler.NewVideoHandler(inspectionSvc)
	clientH := handler.NewClientHandler(clientSvc)
	projectH := handler.NewProjectHandler(projectSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/verifications/{action}", verificationH.Action)

		// Token-gated intake; the capability token in the path is the auth.
		r.Get("/inspections/{token}/validate", inspectionH.Validate)
		r.With(sensitiveRL.Limit).Post("/inspections/{token}/upload-url", inspectionH.UploadURL)
		r.Post("/inspections/{token}/complete", inspectionH.Complete)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/inspections", inspectionH.Create)
			r.Get("/inspections", inspectionH.List)
			r.Post("/videos/view-url", videoH.ViewURL)

			r.Post("/clients", clientH.Create)
			r.Get("/clients", clientH.List)
			r.Get("/clients/{id}", clientH.Get)
			r.Put("/clients/{id}", clientH.Update)
			r.Post("/projects", projectH.Create)
			r.Get("/projects", projectH.List)
			r.Get("/projects/{id}", projectH.Get)
			r.Put("/projects/{id}", projectH.Update)
		})
	})

	return r
}
