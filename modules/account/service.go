// Package account exposes the sign-in orchestration over HTTP: the Google
// OAuth round-trip, the session endpoint the client polls, and the guarded
// tier-change and deactivation operations.
package account

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/probelab/accountd/pkg/auth"
	"github.com/probelab/accountd/pkg/cookie"
	"github.com/probelab/accountd/pkg/logger"
)

// Service wires the auth subsystem into HTTP handlers. All state lives in
// the injected collaborators; the service itself is safe for concurrent use.
type Service struct {
	cfg       auth.Config
	provider  auth.ProviderAdapter
	states    auth.StateStore
	store     auth.UserStore
	lifecycle *auth.Lifecycle
	codec     *auth.TokenCodec
	cookies   *cookie.Manager
	log       *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.log = l }
}

func NewService(
	cfg auth.Config,
	provider auth.ProviderAdapter,
	states auth.StateStore,
	store auth.UserStore,
	lifecycle *auth.Lifecycle,
	codec *auth.TokenCodec,
	cookies *cookie.Manager,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		cfg:       cfg,
		provider:  provider,
		states:    states,
		store:     store,
		lifecycle: lifecycle,
		codec:     codec,
		cookies:   cookies,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle mounts the provider round-trip routes, relative to wherever the
// router places the provider (e.g. /auth/google).
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/login", s.login)
	r.Get("/callback", s.callback)

	return r
}

// HandleAccount mounts the collaborator endpoints that act on the account
// record rather than the session.
func (s *Service) HandleAccount() http.Handler {
	r := chi.NewRouter()

	r.Post("/tier", s.changeTier)
	r.Post("/deactivate", s.deactivate)

	return r
}

// currentClaims decodes the session cookie. A missing or invalid cookie is
// an anonymous visitor, never an error.
func (s *Service) currentClaims(r *http.Request) auth.Claims {
	raw, err := s.cookies.Get(r, s.cfg.SessionCookieName())
	if err != nil {
		return auth.Anonymous()
	}
	claims, err := s.codec.Decode(raw)
	if err != nil {
		s.log.DebugContext(r.Context(), "discarding unreadable session token",
			logger.Error(err),
		)
		return auth.Anonymous()
	}
	return claims
}

// issueCookie encodes the claims and renews the sliding cookie window. The
// absolute token expiry inside the claims is unaffected.
func (s *Service) issueCookie(w http.ResponseWriter, claims auth.Claims) error {
	raw, err := s.codec.Encode(claims)
	if err != nil {
		return err
	}
	s.cookies.Set(w, s.cfg.SessionCookieName(), raw,
		cookie.WithMaxAge(int(s.cfg.TokenRefreshWindow.Seconds())),
		cookie.WithSecure(s.cfg.IsProduction()),
	)
	return nil
}

func (s *Service) clearCookie(w http.ResponseWriter) {
	s.cookies.Delete(w, s.cfg.SessionCookieName())
}
