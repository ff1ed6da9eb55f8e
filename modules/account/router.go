package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Mountable is anything that can hand out an http.Handler for mounting.
type Mountable interface {
	Handle() http.Handler
}

// RouterOptions configures which services the module mounts.
type RouterOptions struct {
	// Auth serves the OAuth round-trip and session endpoints under /auth.
	Auth *Service
}

// Router assembles the account module routes.
//
//	r := chi.NewRouter()
//	r.Mount("/", account.Router(account.RouterOptions{Auth: svc}))
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	if opts.Auth != nil {
		r.Route("/auth", func(ar chi.Router) {
			ar.Mount("/google", opts.Auth.Handle())
			ar.Get("/session", opts.Auth.session)
			ar.Post("/session/refresh", opts.Auth.refresh)
			ar.Post("/signout", opts.Auth.signout)
		})
		r.Mount("/account", opts.Auth.HandleAccount())
	}

	return r
}
