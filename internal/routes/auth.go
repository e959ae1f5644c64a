package routes

import (
	"context"
	"errors"
	"net/http"

	"github.com/thalweg/tidalctl/internal/auth"
	"github.com/thalweg/tidalctl/internal/shared"
)

// LoginStart initiates the device-authorization flow. It never blocks on the
// user; a pending result carries the URL the user must open.
func (s *Service) LoginStart(ctx context.Context) (Payload, int) {
	st := s.coord.Begin(ctx)
	switch st.State {
	case auth.StateSuccess:
		return Payload{
			"status":  "success",
			"message": st.Message,
			"user_id": st.UserID,
		}, http.StatusOK
	case auth.StatePending:
		return Payload{
			"status":     "authorization_required",
			"message":    st.Message,
			"auth_url":   st.URL,
			"expires_in": st.ExpiresIn,
		}, http.StatusOK
	default:
		return Payload{"error": st.Message}, http.StatusInternalServerError
	}
}

// LoginPoll reports the outcome of the in-flight login attempt.
func (s *Service) LoginPoll(ctx context.Context) (Payload, int) {
	st := s.coord.Poll(ctx)
	switch st.State {
	case auth.StateSuccess:
		return Payload{
			"status":  "success",
			"message": st.Message,
			"user_id": st.UserID,
		}, http.StatusOK
	case auth.StatePending:
		return Payload{
			"status":  "pending",
			"message": st.Message,
		}, http.StatusOK
	default:
		if errors.Is(st.Err, shared.ErrNoLogin) {
			return Payload{"error": st.Message}, http.StatusBadRequest
		}
		// A user id on an error means authorization itself succeeded but
		// the session could not be persisted.
		if st.UserID != "" {
			return Payload{
				"error":   st.Message,
				"user_id": st.UserID,
			}, http.StatusInternalServerError
		}
		return Payload{"error": st.Message}, http.StatusUnauthorized
	}
}

// AuthStatus reports whether a valid persisted session exists. It never
// touches the in-flight attempt.
func (s *Service) AuthStatus() (Payload, int) {
	sess, err := s.coord.Current()
	if err != nil {
		return Payload{
			"authenticated": false,
			"message":       AuthRequiredMessage,
		}, http.StatusOK
	}
	return Payload{
		"authenticated": true,
		"user_id":       sess.UserID,
		"country_code":  sess.CountryCode,
	}, http.StatusOK
}
