// Package account implements the sign-up and sign-in flows.
package account

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/brainlink/internal/backend"
	"github.com/MrSnakeDoc/brainlink/internal/logger"
	"github.com/MrSnakeDoc/brainlink/internal/session"
)

const (
	msgEmptyFields     = "Please fill in all fields"
	msgBadCredentials  = "Invalid username or password"
	msgServerError     = "Server error. Please try again later."
	msgInvalidResponse = "Invalid response from server"
	msgUnexpected      = "An unexpected error occurred. Please try again."

	// MsgSignedUp is flashed on the sign-in page after a successful sign-up.
	MsgSignedUp = "You have signed up successfully!"
)

// Authenticator is the account part of the backend API.
type Authenticator interface {
	Signup(ctx context.Context, username, password string) error
	Signin(ctx context.Context, username, password string) (string, error)
}

// CredentialWriter stores a fresh credential in the browser session.
type CredentialWriter interface {
	SignIn(ctx context.Context, w http.ResponseWriter, sess *session.Session, token string) error
}

// Outcome tells the page what to show or where to go next.
type Outcome struct {
	Redirect    string
	Notice      string
	Error       string
	FieldErrors map[string]string
}

// OK reports whether the flow succeeded.
func (o Outcome) OK() bool { return o.Redirect != "" }

// Service runs the account flows.
type Service struct {
	auth        Authenticator
	credentials CredentialWriter
	logger      logger.Logger
}

// NewService creates an account service.
func NewService(auth Authenticator, creds CredentialWriter, log logger.Logger) *Service {
	return &Service{auth: auth, credentials: creds, logger: log}
}

// Signup creates an account and sends the user to the sign-in page.
func (s *Service) Signup(ctx context.Context, username, password string) Outcome {
	if username == "" || password == "" {
		return Outcome{Error: msgEmptyFields}
	}

	if err := s.auth.Signup(ctx, username, password); err != nil {
		s.logger.Info("signup rejected", logger.String("username", username), logger.Error(err))

		be, ok := backend.AsError(err)
		switch {
		case ok && len(be.Fields) > 0:
			return Outcome{FieldErrors: fieldErrors(be)}
		case ok && be.Message != "":
			return Outcome{Error: be.Message}
		}
		return Outcome{Error: msgUnexpected}
	}

	s.logger.Info("account created", logger.String("username", username))
	return Outcome{Redirect: "/signin", Notice: MsgSignedUp}
}

// Signin authenticates and stores the credential in sess. Nothing is stored
// when authentication fails.
func (s *Service) Signin(ctx context.Context, w http.ResponseWriter, sess *session.Session, username, password string) Outcome {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return Outcome{Error: msgEmptyFields}
	}

	token, err := s.auth.Signin(ctx, username, password)
	if err != nil {
		s.logger.Info("signin rejected", logger.String("username", username), logger.Error(err))
		return Outcome{Error: signinFailure(err), FieldErrors: signinFields(err)}
	}

	if err := s.credentials.SignIn(ctx, w, sess, token); err != nil {
		s.logger.Error("failed to store session credential", logger.Error(err))
		return Outcome{Error: msgUnexpected}
	}
	return Outcome{Redirect: "/dashboard"}
}

func signinFailure(err error) string {
	if errors.Is(err, backend.ErrMalformedResponse) {
		return msgInvalidResponse
	}
	be, ok := backend.AsError(err)
	switch {
	case !ok:
		return msgUnexpected
	case len(be.Fields) > 0:
		return ""
	case be.Status == http.StatusUnauthorized:
		return msgBadCredentials
	case be.Message != "":
		return be.Message
	case be.Status == http.StatusInternalServerError:
		return msgServerError
	}
	return msgUnexpected
}

func signinFields(err error) map[string]string {
	be, ok := backend.AsError(err)
	if !ok || len(be.Fields) == 0 {
		return nil
	}
	return fieldErrors(be)
}

// fieldErrors keys backend field messages by field name, first one wins.
func fieldErrors(be *backend.Error) map[string]string {
	out := make(map[string]string, len(be.Fields))
	for _, f := range be.Fields {
		name := f.Field()
		if name == "" {
			name = "form"
		}
		if _, seen := out[name]; !seen {
			out[name] = f.Message
		}
	}
	return out
}
