package account

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/probelab/accountd/pkg/auth"
	"github.com/probelab/accountd/pkg/logger"
)

// statePayload rides through the OAuth state store: the signed registration
// intent plus the destination the client asked to land on after login.
type statePayload struct {
	Intent      string `json:"intent,omitempty"`
	CallbackURL string `json:"callbackUrl,omitempty"`
}

// login starts the provider round-trip. The optional flow/tier parameters
// stage an immediate registration; callbackUrl records the deep link to
// return to.
func (s *Service) login(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	state, err := auth.GenerateState()
	if err != nil {
		s.internalError(w, r, "generate oauth state", err)
		return
	}

	payload := statePayload{CallbackURL: q.Get("callbackUrl")}
	if q.Get("flow") != "" || q.Get("tier") != "" {
		intent := auth.NewRegistrationIntent(
			auth.Flow(q.Get("flow")),
			auth.ParseTier(q.Get("tier")),
			s.cfg.IntentTTL,
		)
		encoded, err := auth.EncodeIntent(intent, s.cfg.TokenSecret)
		if err != nil {
			s.internalError(w, r, "encode registration intent", err)
			return
		}
		payload.Intent = encoded
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		s.internalError(w, r, "marshal state payload", err)
		return
	}
	if err := s.states.StoreState(r.Context(), state, string(raw), s.cfg.StateTTL); err != nil {
		s.internalError(w, r, "store oauth state", err)
		return
	}

	http.Redirect(w, r, s.provider.AuthURL(state), http.StatusFound)
}

// callback completes the round-trip: verify state, resolve the code into a
// profile, run the token lifecycle and send the browser on. Provider errors
// and store outages still produce a token; only a forged or replayed state
// is rejected outright.
func (s *Service) callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	rawPayload, err := s.states.ConsumeState(ctx, q.Get("state"))
	if err != nil {
		s.log.WarnContext(ctx, "rejecting callback with unverifiable state",
			logger.Error(err),
			logger.Component("account"),
		)
		http.Redirect(w, r, s.cfg.BaseURL+"/login", http.StatusFound)
		return
	}

	var payload statePayload
	if err := json.Unmarshal([]byte(rawPayload), &payload); err != nil {
		http.Redirect(w, r, s.cfg.BaseURL+"/login", http.StatusFound)
		return
	}

	var intent *auth.RegistrationIntent
	if payload.Intent != "" {
		intent, err = auth.DecodeIntent(payload.Intent, s.cfg.TokenSecret)
		if err != nil {
			// Expired or tampered intents degrade to the deferred flow.
			s.log.InfoContext(ctx, "ignoring unusable registration intent",
				logger.Error(err),
				logger.Component("account"),
			)
			intent = nil
		}
	}

	if errCode := q.Get("error"); errCode != "" {
		s.finishWithError(w, r, errCode, intent, payload.CallbackURL)
		return
	}

	profile, err := s.provider.ResolveProfile(ctx, q.Get("code"))
	if err != nil {
		s.log.WarnContext(ctx, "provider code exchange failed",
			logger.Error(err),
			logger.Component("account"),
		)
		s.finishWithError(w, r, "provider_error", intent, payload.CallbackURL)
		return
	}

	claims, err := s.lifecycle.Callback(ctx, s.currentClaims(r), auth.CallbackData{
		Profile: profile,
		Intent:  intent,
	})
	if err != nil {
		s.internalError(w, r, "apply oauth callback", err)
		return
	}

	if err := s.issueCookie(w, claims); err != nil {
		s.internalError(w, r, "issue session cookie", err)
		return
	}

	dest := auth.ResolveRedirect(s.callbackRawURL(r, payload.CallbackURL, intent), s.cfg.BaseURL)
	http.Redirect(w, r, dest, http.StatusFound)
}

// finishWithError records the provider error in an anonymous token and
// routes the browser through the redirect rules, which send staged
// registrations back to the registration page with the error attached.
func (s *Service) finishWithError(w http.ResponseWriter, r *http.Request, errCode string, intent *auth.RegistrationIntent, callbackURL string) {
	claims := auth.Anonymous()
	claims.ErrorCode = errCode
	if err := s.issueCookie(w, claims); err != nil {
		s.clearCookie(w)
	}

	raw := s.cfg.BaseURL + "/auth/google/callback?error=" + errCode
	if intent != nil && intent.Flow == auth.FlowImmediate {
		raw += "&autoRegister=" + string(intent.Tier)
	}
	if callbackURL != "" {
		raw += "&callbackUrl=" + url.QueryEscape(callbackURL)
	}
	http.Redirect(w, r, auth.ResolveRedirect(raw, s.cfg.BaseURL), http.StatusFound)
}

// callbackRawURL rebuilds the callback URL the redirect rules inspect,
// substituting the destination recovered from the state payload for
// whatever the provider echoed back. The destination is query-escaped so a
// multi-parameter deep link survives the single-fragment capture intact and
// its own parameters cannot steer rule evaluation.
func (s *Service) callbackRawURL(r *http.Request, callbackURL string, intent *auth.RegistrationIntent) string {
	raw := s.cfg.BaseURL + "/auth/google/callback"
	sep := "?"
	if callbackURL != "" {
		raw += sep + "callbackUrl=" + url.QueryEscape(callbackURL)
		sep = "&"
	}
	if intent != nil && intent.Flow == auth.FlowImmediate {
		raw += sep + "tier=" + string(intent.Tier)
	}
	return raw
}
