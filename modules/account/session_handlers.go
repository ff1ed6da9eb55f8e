package account

import (
	"encoding/json"
	"net/http"

	"github.com/probelab/accountd/pkg/auth"
	"github.com/probelab/accountd/pkg/logger"
	"github.com/probelab/accountd/pkg/statemachine"
)

// session re-evaluates the token and returns the materialized session. An
// inactive account serves a JSON null, which the client treats as a forced
// sign-out.
func (s *Service) session(w http.ResponseWriter, r *http.Request) {
	s.serveSession(w, r, auth.EventRefresh)
}

// refresh is the explicit client-requested store sync, used after a tier
// change or registration completes out-of-band.
func (s *Service) refresh(w http.ResponseWriter, r *http.Request) {
	s.serveSession(w, r, auth.EventClientRefresh)
}

func (s *Service) serveSession(w http.ResponseWriter, r *http.Request, event statemachine.Event) {
	ctx := r.Context()
	cur := s.currentClaims(r)

	var (
		next auth.Claims
		err  error
	)
	switch event {
	case auth.EventClientRefresh:
		next, err = s.lifecycle.ClientRefresh(ctx, cur)
	default:
		next, err = s.lifecycle.Refresh(ctx, cur)
	}
	if err != nil {
		s.internalError(w, r, "refresh session token", err)
		return
	}

	sess, next, _ := auth.Materialize(next)

	switch next.State {
	case auth.StateAnonymous, auth.StateSignedOut:
		s.clearCookie(w)
	default:
		if err := s.issueCookie(w, next); err != nil {
			s.internalError(w, r, "reissue session cookie", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, sess)
}

// signout terminates the session and clears the cookie.
func (s *Service) signout(w http.ResponseWriter, r *http.Request) {
	cur := s.currentClaims(r)
	if _, err := s.lifecycle.SignOut(r.Context(), cur); err != nil {
		s.log.WarnContext(r.Context(), "sign-out transition failed",
			logger.Error(err),
			logger.Component("account"),
		)
	}
	s.clearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// writeJSON serializes v, emitting the literal null for a nil session.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
