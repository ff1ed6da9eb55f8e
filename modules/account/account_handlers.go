package account

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/probelab/accountd/pkg/auth"
	"github.com/probelab/accountd/pkg/logger"
)

type changeTierRequest struct {
	UserID  int64  `json:"userId"`
	NewPlan string `json:"newPlan"`
}

type deactivateRequest struct {
	Confirm bool `json:"confirm"`
}

// changeTier updates the subscription plan. The body's userId must match the
// authenticated session; the session gap closes on the client's next
// explicit refresh.
func (s *Service) changeTier(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.requireActive(w, r)
	if !ok {
		return
	}

	var req changeTierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if req.UserID != claims.Resolved.UserID {
		writeError(w, http.StatusForbidden, auth.ErrSessionMismatch)
		return
	}
	tier := auth.Tier(req.NewPlan)
	if !tier.Valid() {
		writeError(w, http.StatusBadRequest, auth.ErrInvalidTier)
		return
	}

	if err := s.store.UpdateFields(r.Context(), req.UserID, auth.Fields{
		auth.FieldTier: string(tier),
	}); err != nil {
		s.internalError(w, r, "update pricing tier", err)
		return
	}

	s.log.InfoContext(r.Context(), "pricing tier changed",
		logger.UserID(req.UserID),
		logger.Component("account"),
	)
	w.WriteHeader(http.StatusNoContent)
}

// deactivate soft-deletes the account. Requires an explicit confirmation
// flag; the row keeps its data with active=false so the next token refresh
// materializes a null session everywhere.
func (s *Service) deactivate(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.requireActive(w, r)
	if !ok {
		return
	}

	var req deactivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if !req.Confirm {
		writeError(w, http.StatusBadRequest, auth.ErrConfirmationRequired)
		return
	}

	userID := claims.Resolved.UserID
	if err := s.store.UpdateFields(r.Context(), userID, auth.Fields{
		auth.FieldActive: false,
	}); err != nil {
		s.internalError(w, r, "deactivate account", err)
		return
	}

	s.log.InfoContext(r.Context(), "account deactivated",
		logger.UserID(userID),
		logger.Component("account"),
	)
	s.clearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// requireActive gates the collaborator endpoints on an active session.
func (s *Service) requireActive(w http.ResponseWriter, r *http.Request) (auth.Claims, bool) {
	claims := s.currentClaims(r)
	if claims.State != auth.StateActive || claims.Resolved == nil {
		writeError(w, http.StatusUnauthorized, auth.ErrNotAuthenticated)
		return auth.Claims{}, false
	}
	return claims, true
}

func (s *Service) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.log.ErrorContext(r.Context(), msg,
		logger.Error(err),
		logger.Component("account"),
	)
	status := http.StatusInternalServerError
	if errors.Is(err, auth.ErrStoreUnavailable) {
		status = http.StatusServiceUnavailable
	}
	writeError(w, status, errInternal)
}

var (
	errBadRequestBody = errors.New("invalid request body")
	errInternal       = errors.New("internal error")
)

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
