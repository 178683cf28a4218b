package account_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MrSnakeDoc/brainlink/internal/account"
	"github.com/MrSnakeDoc/brainlink/internal/backend"
	"github.com/MrSnakeDoc/brainlink/internal/backend/backendtest"
	"github.com/MrSnakeDoc/brainlink/internal/logger"
	"github.com/MrSnakeDoc/brainlink/internal/session"
)

type fixture struct {
	srv *backendtest.Server
	mgr *session.Manager
	svc *account.Service
}

func setup(t *testing.T) *fixture {
	t.Helper()
	srv := backendtest.NewServer()
	t.Cleanup(srv.Close)

	client, err := backend.New(backend.Options{BaseURL: srv.URL, Timeout: 2 * time.Second}, logger.Nop())
	if err != nil {
		t.Fatalf("backend.New() error = %v", err)
	}
	mgr := session.NewManager(session.NewMemoryStore(), session.Options{TTL: time.Hour}, logger.Nop())
	return &fixture{srv: srv, mgr: mgr, svc: account.NewService(client, mgr, logger.Nop())}
}

func TestSignupThenSignin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	out := f.svc.Signup(ctx, "carol", "password1")
	if !out.OK() || out.Redirect != "/signin" || out.Notice != account.MsgSignedUp {
		t.Fatalf("Signup() = %+v", out)
	}

	sess := &session.Session{}
	rec := httptest.NewRecorder()
	out = f.svc.Signin(ctx, rec, sess, "  carol ", "password1")
	if !out.OK() || out.Redirect != "/dashboard" {
		t.Fatalf("Signin() = %+v", out)
	}
	if !sess.Authenticated() {
		t.Error("session not authenticated after signin")
	}
	if tok, _ := f.mgr.Store().Get(ctx, sess.ID); tok == "" {
		t.Error("credential not stored")
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("no session cookie set")
	}
}

func TestSigninWrongPassword(t *testing.T) {
	f := setup(t)
	f.srv.AddUser("carol", "password1")

	sess := &session.Session{}
	out := f.svc.Signin(context.Background(), httptest.NewRecorder(), sess, "carol", "nope-nope")
	if out.OK() {
		t.Fatal("Signin() succeeded with a wrong password")
	}
	if out.Error != "Invalid username or password" {
		t.Errorf("Error = %q", out.Error)
	}
	if sess.Authenticated() || sess.ID != "" {
		t.Errorf("session touched on failure: %+v", sess)
	}
}

func TestSigninFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
		field  string
	}{
		{"unauthorized with message", 401, `{"message":"Incorrect credentials"}`, "Invalid username or password", ""},
		{"backend message", 403, `{"message":"Account locked"}`, "Account locked", ""},
		{"server error", 500, ``, "Server error. Please try again later.", ""},
		{"other status", 418, ``, "An unexpected error occurred. Please try again.", ""},
		{"missing token", 200, `{}`, "Invalid response from server", ""},
		{"field errors", 400, `{"errors":[{"path":["username"],"message":"Too short"}]}`, "", "username"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			f.srv.Fail(http.MethodPost, "/api/v1/signin", tt.status, tt.body)

			out := f.svc.Signin(context.Background(), httptest.NewRecorder(), &session.Session{}, "carol", "password1")
			if out.OK() {
				t.Fatal("Signin() succeeded")
			}
			if out.Error != tt.want {
				t.Errorf("Error = %q, want %q", out.Error, tt.want)
			}
			if tt.field != "" && out.FieldErrors[tt.field] == "" {
				t.Errorf("FieldErrors = %v, want an entry for %q", out.FieldErrors, tt.field)
			}
		})
	}
}

func TestEmptyFields(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	if out := f.svc.Signup(ctx, "", "x"); out.Error != "Please fill in all fields" {
		t.Errorf("Signup() = %+v", out)
	}
	if out := f.svc.Signin(ctx, httptest.NewRecorder(), &session.Session{}, "   ", "x"); out.Error != "Please fill in all fields" {
		t.Errorf("Signin() = %+v", out)
	}
	if n := f.srv.Calls(http.MethodPost, "/api/v1/signin") + f.srv.Calls(http.MethodPost, "/api/v1/signup"); n != 0 {
		t.Errorf("backend calls = %d, want 0", n)
	}
}

func TestSignupFailures(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	out := f.svc.Signup(ctx, "ab", "short")
	if out.OK() || out.FieldErrors["username"] == "" || out.FieldErrors["password"] == "" {
		t.Errorf("Signup(invalid) = %+v", out)
	}

	f.svc.Signup(ctx, "dave", "password1")
	out = f.svc.Signup(ctx, "dave", "password1")
	if out.Error != "User already exists with this username" {
		t.Errorf("Signup(duplicate) = %+v", out)
	}

	f.srv.Fail(http.MethodPost, "/api/v1/signup", 500, ``)
	if out := f.svc.Signup(ctx, "erin", "password1"); out.Error != "An unexpected error occurred. Please try again." {
		t.Errorf("Signup(500) = %+v", out)
	}
}
