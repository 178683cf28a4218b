package cli

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/brainlink/internal/backend"
	"github.com/MrSnakeDoc/brainlink/internal/backend/backendtest"
	"github.com/MrSnakeDoc/brainlink/internal/logger"
)

const bookmarks = `---
- Watch:
    - Talk:
        - href: https://youtu.be/abc123
- Read:
    - Blog:
        - href: https://go.dev/blog
    - Broken:
        - href: not a url
`

func newTestRunner(t *testing.T, stdin string) (*Runner, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	r := &Runner{
		Stdin:  strings.NewReader(stdin),
		Stdout: &out,
		Stderr: &errOut,
		NewBackend: func(baseURL string, timeout time.Duration, _ logger.Logger) (Backend, error) {
			return backend.New(backend.Options{BaseURL: baseURL, Timeout: timeout}, logger.Nop())
		},
	}
	return r, &out, &errOut
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "bookmarks.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestImportCreatesContent(t *testing.T) {
	srv := backendtest.NewServer()
	defer srv.Close()
	srv.AddUser("alice", "password1")

	r, out, errOut := newTestRunner(t, "")
	code := r.Run(context.Background(), []string{
		"import", "-backend", srv.URL, "-username", "alice", "-password", "password1",
		"-file", writeFile(t, bookmarks),
	})
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, errOut)
	}

	recs := srv.Content("alice")
	if len(recs) != 2 {
		t.Fatalf("created %d items, want 2", len(recs))
	}
	if recs[0].Type != "youtube" || recs[1].Type != "blog" {
		t.Errorf("types = %s, %s", recs[0].Type, recs[1].Type)
	}
	if !strings.Contains(out.String(), "2 imported, 1 skipped, 0 failed") {
		t.Errorf("summary missing: %s", out)
	}
}

func TestImportFromStdinDryRun(t *testing.T) {
	r, out, errOut := newTestRunner(t, bookmarks)

	code := r.Run(context.Background(), []string{"import", "-file", "-", "-dry-run"})
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, errOut)
	}
	if !strings.Contains(out.String(), "plan   [video] Talk https://youtu.be/abc123") {
		t.Errorf("plan missing: %s", out)
	}
	if !strings.Contains(out.String(), "2 to import, 1 skipped") {
		t.Errorf("summary missing: %s", out)
	}
}

func TestImportReportsFailures(t *testing.T) {
	srv := backendtest.NewServer()
	defer srv.Close()
	srv.AddUser("alice", "password1")
	srv.Fail(http.MethodPost, "/api/v1/content", http.StatusBadRequest, `{"message":"Duplicate link"}`)

	r, out, _ := newTestRunner(t, "")
	code := r.Run(context.Background(), []string{
		"import", "-backend", srv.URL, "-username", "alice", "-password", "password1",
		"-file", writeFile(t, bookmarks),
	})
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(out.String(), "failed Talk: Duplicate link") {
		t.Errorf("failure line missing: %s", out)
	}
	if len(srv.Content("alice")) != 1 {
		t.Error("import should continue after a failed item")
	}
}

func TestImportStopsOnRejectedSession(t *testing.T) {
	srv := backendtest.NewServer()
	defer srv.Close()
	srv.AddUser("alice", "password1")
	srv.Fail(http.MethodPost, "/api/v1/content", http.StatusUnauthorized, `{}`)

	r, _, errOut := newTestRunner(t, "")
	code := r.Run(context.Background(), []string{
		"import", "-backend", srv.URL, "-username", "alice", "-password", "password1",
		"-file", writeFile(t, bookmarks),
	})
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut.String(), "session rejected after 0 items") {
		t.Errorf("stderr = %s", errOut)
	}
	if n := srv.Calls(http.MethodPost, "/api/v1/content"); n != 1 {
		t.Errorf("create calls = %d, want 1", n)
	}
}

func TestBadCredentials(t *testing.T) {
	srv := backendtest.NewServer()
	defer srv.Close()
	srv.AddUser("alice", "password1")

	r, _, errOut := newTestRunner(t, "")
	code := r.Run(context.Background(), []string{
		"share", "-backend", srv.URL, "-username", "alice", "-password", "nope",
	})
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut.String(), "invalid username or password") {
		t.Errorf("stderr = %s", errOut)
	}
}

func TestSharePrintsPublicURL(t *testing.T) {
	srv := backendtest.NewServer()
	defer srv.Close()
	srv.AddUser("alice", "password1")

	r, out, errOut := newTestRunner(t, "")
	code := r.Run(context.Background(), []string{
		"share", "-backend", srv.URL, "-username", "alice", "-password", "password1",
		"-public-url", "https://brain.example/",
	})
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, errOut)
	}
	if !strings.HasPrefix(out.String(), "https://brain.example/share/") {
		t.Errorf("stdout = %q", out)
	}
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no command", nil, 2},
		{"unknown command", []string{"export"}, 2},
		{"import without file", []string{"import", "-backend", "http://x", "-username", "a", "-password", "b"}, 2},
		{"share without backend", []string{"share", "-backend", "", "-username", "a", "-password", "b"}, 2},
		{"bad flag", []string{"share", "-nope"}, 2},
		{"help", []string{"help"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestRunner(t, "")
			if got := r.Run(context.Background(), tt.args); got != tt.want {
				t.Errorf("Run(%v) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}
