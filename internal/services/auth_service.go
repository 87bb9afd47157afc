package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"traveleo/internal/auth"
	"traveleo/internal/core"
	applog "traveleo/internal/log"
	"traveleo/internal/notify"
	"traveleo/internal/storage"
)

// LoginResult is returned after a correct password: a passcode has been sent
// and must be verified before a token is issued.
type LoginResult struct {
	OTPRequired bool  `json:"otpRequired"`
	UserID      int64 `json:"userId"`
}

// Session is the outcome of a verified passcode.
type Session struct {
	Token string    `json:"token"`
	User  core.User `json:"user"`
}

// AuthService runs signup and the password + passcode login flow.
type AuthService struct {
	store       *storage.Store
	tokens      *auth.Tokens
	notifier    *notify.Notifier
	otpTTL      time.Duration
	now         func() time.Time
	generateOTP func() (string, error)
}

func NewAuthService(store *storage.Store, tokens *auth.Tokens, notifier *notify.Notifier, otpTTL time.Duration) *AuthService {
	return &AuthService{
		store:       store,
		tokens:      tokens,
		notifier:    notifier,
		otpTTL:      otpTTL,
		now:         time.Now,
		generateOTP: auth.GenerateOTP,
	}
}

// Signup creates the user and its default categories in one transaction,
// then sends the welcome mail in the background.
func (s *AuthService) Signup(ctx context.Context, in core.Signup) (core.User, error) {
	if err := in.Validate(); err != nil {
		return core.User{}, core.Validation(err)
	}

	digest, err := auth.HashPassword(in.Password)
	if err != nil {
		return core.User{}, err
	}

	now := s.now()
	var user core.User
	err = s.store.WithTx(ctx, func(q *storage.Queries) error {
		var err error
		user, err = q.CreateUser(ctx, storage.CreateUserParams{
			Name:         in.Name,
			Email:        core.NormalizeEmail(in.Email),
			PasswordHash: digest,
			CreatedAt:    now,
		})
		if err != nil {
			return err
		}
		return q.CreateCategories(ctx, user.ID, core.DefaultCategories, now)
	})
	if errors.Is(err, storage.ErrDuplicate) {
		return core.User{}, core.Conflict(core.MsgEmailExists, err)
	}
	if err != nil {
		return core.User{}, fmt.Errorf("signup: %w", err)
	}

	applog.FromContext(ctx).WithComponent(applog.ComponentAuth).InfoContext(ctx, "User signed up",
		applog.FieldUserID, user.ID)

	s.notifier.SendWelcome(ctx, user.Email, user.Name)
	return user, nil
}

// Login checks the password and sends a fresh passcode. Unknown email and
// wrong password fail with the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	user, err := s.store.GetUserByEmail(ctx, core.NormalizeEmail(email))
	if errors.Is(err, storage.ErrNotFound) {
		return LoginResult{}, core.Unauthorized(core.MsgInvalidCredentials)
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("login: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return LoginResult{}, core.Unauthorized(core.MsgInvalidCredentials)
	}

	if err := s.issueOTP(ctx, user); err != nil {
		return LoginResult{}, err
	}
	return LoginResult{OTPRequired: true, UserID: user.ID}, nil
}

// VerifyOTP consumes the passcode and issues a token. An expired passcode is
// deleted before the error is returned, so it cannot be retried.
func (s *AuthService) VerifyOTP(ctx context.Context, userID int64, code string) (Session, error) {
	otp, err := s.store.FindOTP(ctx, userID, code)
	if errors.Is(err, storage.ErrNotFound) {
		return Session{}, core.Unauthorized(core.MsgInvalidOTP)
	}
	if err != nil {
		return Session{}, fmt.Errorf("verify otp: %w", err)
	}

	if _, err := s.store.DeleteOTPsForUser(ctx, userID); err != nil {
		return Session{}, fmt.Errorf("verify otp: %w", err)
	}
	if s.now().After(otp.ExpiresAt) {
		return Session{}, core.Unauthorized(core.MsgOTPExpired)
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return Session{}, fmt.Errorf("verify otp: load user: %w", err)
	}
	token, err := s.tokens.Sign(user.ID, user.Email)
	if err != nil {
		return Session{}, err
	}

	applog.FromContext(ctx).WithComponent(applog.ComponentAuth).InfoContext(ctx, "User logged in",
		applog.FieldUserID, user.ID)
	return Session{Token: token, User: user}, nil
}

// ResendOTP replaces any pending passcode with a new one.
func (s *AuthService) ResendOTP(ctx context.Context, userID int64) error {
	user, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return core.NotFound(core.MsgUserNotFound)
	}
	if err != nil {
		return fmt.Errorf("resend otp: %w", err)
	}
	return s.issueOTP(ctx, user)
}

// issueOTP keeps at most one passcode per user: prior codes are deleted in
// the same transaction that stores the new one. Delivery is synchronous.
func (s *AuthService) issueOTP(ctx context.Context, user core.User) error {
	code, err := s.generateOTP()
	if err != nil {
		return err
	}
	expiresAt := s.now().Add(s.otpTTL)

	err = s.store.WithTx(ctx, func(q *storage.Queries) error {
		if _, err := q.DeleteOTPsForUser(ctx, user.ID); err != nil {
			return err
		}
		return q.CreateOTP(ctx, user.ID, code, expiresAt)
	})
	if err != nil {
		return fmt.Errorf("issue otp: %w", err)
	}

	return s.notifier.SendLoginOTP(ctx, user.Email, user.Name, code, s.otpTTL)
}

// Authenticate resolves a bearer token to its claims.
func (s *AuthService) Authenticate(token string) (*auth.Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, &core.Error{Kind: core.KindAuth, Message: core.MsgInvalidToken, Err: err}
	}
	return claims, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]core.User, error) {
	return s.store.ListUsers(ctx)
}
