// Package web is the HTTP surface of the marketplace front end: the
// registration wizard, login, and the teacher, school and admin areas.
package web

import (
	"MasarWeb/internal/adapters/cookies"
	"MasarWeb/internal/core/domain"
	"MasarWeb/internal/core/ports"
	"MasarWeb/internal/core/registration"
	"MasarWeb/internal/core/session"
	"MasarWeb/internal/shared/config"
	"MasarWeb/internal/web/guard"
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Deps are the collaborators of the server. Bus, Metrics and
// MetricsHandler may be nil.
type Deps struct {
	Config         config.Config
	Auth           ports.AuthAPI
	Market         ports.MarketplaceAPI
	Drafts         ports.DraftRepository
	Bus            ports.EventBus
	Metrics        *Metrics
	MetricsHandler http.Handler
}

type Server struct {
	cfg            config.Config
	market         ports.MarketplaceAPI
	drafts         ports.DraftRepository
	bus            ports.EventBus
	flow           *registration.Flow
	authn          *session.Authenticator
	guard          *guard.Guard
	metrics        *Metrics
	metricsHandler http.Handler
	log            zerolog.Logger
}

func NewServer(deps Deps, baseLogger *zerolog.Logger) *Server {
	s := &Server{
		cfg:            deps.Config,
		market:         deps.Market,
		drafts:         deps.Drafts,
		bus:            deps.Bus,
		metrics:        deps.Metrics,
		metricsHandler: deps.MetricsHandler,
		log:            baseLogger.With().Str("component", "web_server").Logger(),
	}
	s.flow = registration.NewFlow(deps.Auth, deps.Bus, deps.Config.Registration.SuccessRedirectDelay, baseLogger)
	s.authn = session.NewAuthenticator(deps.Auth, deps.Config.Registration.LoginRedirectDelay, baseLogger)
	s.guard = guard.New(deps.Config.Cookies.Secure, deps.Metrics.guardRedirects(), baseLogger)
	return s
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(requestLogger(s.log))
	r.Use(chimw.Recoverer)
	r.Use(s.metrics.Handler)
	r.Use(s.guard.Middleware)
	r.Use(withAccessToken(s.cfg.Cookies.Secure))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.metricsHandler != nil {
		r.Handle("/metrics", s.metricsHandler)
	}

	r.Route("/register", func(r chi.Router) {
		r.Get("/", s.handleGetWizard)
		r.Delete("/", s.handleResetWizard)
		r.Post("/type", s.handleSelectType)
		r.Patch("/teacher", s.handleUpdateTeacher)
		r.Patch("/school", s.handleUpdateSchool)
		r.Post("/courses", s.handleAddCourse)
		r.Delete("/courses", s.handleRemoveCourse)
		r.Post("/next", s.handleNext)
		r.Post("/back", s.handleBack)
		r.Post("/step/{step}", s.handleEditStep)
		r.Get("/specialties", s.handleWizardSpecialties)
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/admin/login", s.handleAdminLogin)
		r.Post("/logout", s.handleLogout)
		r.Get("/session", s.handleSession)
	})
	r.Get("/login", s.handleLoginPage)

	r.Route("/teacher", func(r chi.Router) {
		r.Get("/profile", s.handleTeacherProfile)
		r.Post("/profile/videos", s.handleUploadVideo)
	})

	r.Route("/school", func(r chi.Router) {
		r.Get("/home", s.handleSchoolHome)
		r.Get("/specialty/{id}", s.handleSchoolSpecialty)
		r.Post("/specialty/{id}/accept", s.handleAcceptTeacher)
		r.Get("/acceptances", s.handleSchoolAcceptances)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Get("/login", s.handleAdminLoginPage)
		r.Get("/dashboard", s.handleDashboard)

		r.Route("/teachers", func(r chi.Router) {
			r.Get("/", s.handleAdminListTeachers)
			r.Get("/{id}", s.handleAdminGetTeacher)
			r.Put("/{id}", s.handleAdminUpdateTeacher)
			r.Delete("/{id}", s.handleAdminDeleteTeacher)
		})
		r.Route("/schools", func(r chi.Router) {
			r.Get("/", s.handleAdminListSchools)
			r.Get("/{id}", s.handleAdminGetSchool)
			r.Put("/{id}", s.handleAdminUpdateSchool)
			r.Delete("/{id}", s.handleAdminDeleteSchool)
		})
		r.Route("/specialties", func(r chi.Router) {
			r.Get("/", s.handleAdminListSpecialties)
			r.Post("/", s.handleAdminCreateSpecialty)
			r.Put("/{id}", s.handleAdminUpdateSpecialty)
			r.Delete("/{id}", s.handleAdminDeleteSpecialty)
		})
		r.Route("/acceptances", func(r chi.Router) {
			r.Get("/", s.handleAdminListAcceptances)
			r.Put("/{id}/status", s.handleAdminUpdateAcceptanceStatus)
			r.Delete("/{id}", s.handleAdminDeleteAcceptance)
		})
		r.Route("/videos", func(r chi.Router) {
			r.Get("/", s.handleAdminListVideos)
			r.Delete("/{id}", s.handleAdminDeleteVideo)
		})
	})

	return r
}

func (s *Server) jar(w http.ResponseWriter, r *http.Request) *cookies.HTTPJar {
	return cookies.NewHTTPJar(w, r, s.cfg.Cookies.Secure)
}

func (s *Server) sessionStore(w http.ResponseWriter, r *http.Request) *session.Store {
	return session.NewStore(s.jar(w, r), &s.log)
}

func (s *Server) publish(ctx context.Context, topic string, data any) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, topic, data); err != nil {
		s.log.Error().Err(err).Str("topic", topic).Msg("Failed to publish event")
	}
}

// upstreamError answers a failed API call. A 401 ends the session
// everywhere: cookies are cleared and the client is sent to the login page.
func (s *Server) upstreamError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if errors.Is(err, ports.ErrUnauthorized) {
		store := s.sessionStore(w, r)
		role := store.InitializeAuth().Role
		store.Clear()
		s.publish(r.Context(), ports.TopicSessionExpired, ports.SessionExpired{Role: role, Path: r.URL.Path})

		s.log.Info().Str("path", r.URL.Path).Str("role", string(role)).Msg("Session rejected upstream")
		writeJSON(w, http.StatusUnauthorized, envelope{
			Status:   "error",
			Message:  ports.ErrorMessage(err, fallback),
			Redirect: guard.LoginPath,
		})
		return
	}

	status := http.StatusBadGateway
	var apiErr *ports.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500:
		status = apiErr.Status
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	s.log.Warn().Err(err).
		Str("request_id", RequestIDFrom(r.Context())).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg("Upstream call failed")

	message := ports.ErrorMessage(err, fallback)
	writeError(w, status, message, errorToast(message, toastErrorDuration))
}

// currentUser returns the identity from the user cookie, if any.
func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) *domain.User {
	return s.sessionStore(w, r).InitializeAuth().User
}
