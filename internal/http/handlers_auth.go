package http

import (
	"context"
	"net/http"
	"strings"

	"traveleo/internal/auth"
	"traveleo/internal/core"
	applog "traveleo/internal/log"
)

type claimsKey struct{}

// requireAuth rejects requests without a valid bearer token and stores the
// token's claims in the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			writeMessage(w, http.StatusUnauthorized, false, "No token provided")
			return
		}

		claims, err := s.svc.Auth.Authenticate(strings.TrimSpace(token))
		if err != nil {
			writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		logger := applog.FromContext(ctx).With(applog.FieldUserID, claims.ID)
		next.ServeHTTP(w, r.WithContext(applog.NewContext(ctx, logger)))
	})
}

// userID returns the authenticated user's id. Only valid behind requireAuth.
func userID(r *http.Request) int64 {
	if c, ok := r.Context().Value(claimsKey{}).(*auth.Claims); ok {
		return c.ID
	}
	return 0
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := s.svc.Auth.Signup(r.Context(), core.Signup{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, envelope{"user": user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, core.Validation(err))
		return
	}

	res, err := s.svc.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{
		"otpRequired": res.OTPRequired,
		"userId":      res.UserID,
		"message":     "OTP sent to your email",
	})
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, core.Validation(err))
		return
	}

	session, err := s.svc.Auth.VerifyOTP(r.Context(), req.UserID, strings.TrimSpace(req.OTP))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{
		"token":   session.Token,
		"user":    session.User,
		"message": "Login successful",
	})
}

func (s *Server) handleResendOTP(w http.ResponseWriter, r *http.Request) {
	var req resendOTPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, core.Validation(err))
		return
	}

	if err := s.svc.Auth.ResendOTP(r.Context(), req.UserID); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, true, "OTP resent successfully")
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.svc.Auth.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"users": users})
}
