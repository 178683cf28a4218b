// Package cli implements brainctl, the command line companion of the web
// client: bulk import of bookmarks and brain sharing.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/MrSnakeDoc/brainlink/internal/backend"
	"github.com/MrSnakeDoc/brainlink/internal/dashboard"
	"github.com/MrSnakeDoc/brainlink/internal/domain"
	"github.com/MrSnakeDoc/brainlink/internal/logger"
	"github.com/MrSnakeDoc/brainlink/internal/sources/homepage"
	"github.com/MrSnakeDoc/brainlink/internal/version"
)

const usage = `usage: brainctl <command> [flags]

commands:
  import  create one content item per bookmark of a bookmarks.yaml file
  share   share your brain and print the public link
`

// Backend is the part of the BrainLink API brainctl uses.
type Backend interface {
	Signin(ctx context.Context, username, password string) (string, error)
	CreateContent(ctx context.Context, token string, d domain.Draft) error
	ShareBrain(ctx context.Context, token string) (string, error)
}

// common are the flags shared by every command.
type common struct {
	backendURL string
	username   string
	password   string
	timeout    time.Duration
	logLevel   string
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.backendURL, "backend", os.Getenv("BRAINLINK_BACKEND_URL"), "backend base URL")
	fs.StringVar(&c.username, "username", os.Getenv("BRAINLINK_USERNAME"), "account username")
	fs.StringVar(&c.password, "password", os.Getenv("BRAINLINK_PASSWORD"), "account password")
	fs.DurationVar(&c.timeout, "timeout", backend.DefaultTimeout, "timeout of a single backend call")
	fs.StringVar(&c.logLevel, "log-level", "warn", "debug | info | warn | error")
}

func (c *common) validate() error {
	switch {
	case c.backendURL == "":
		return errors.New("-backend (or BRAINLINK_BACKEND_URL) is required")
	case c.username == "" || c.password == "":
		return errors.New("-username and -password are required")
	}
	return nil
}

// Runner executes brainctl commands.
type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// NewBackend builds the API client; tests swap it.
	NewBackend func(baseURL string, timeout time.Duration, log logger.Logger) (Backend, error)
}

// NewRunner returns a runner bound to the process streams.
func NewRunner() *Runner {
	return &Runner{
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		NewBackend: defaultBackend,
	}
}

func defaultBackend(baseURL string, timeout time.Duration, log logger.Logger) (Backend, error) {
	return backend.New(backend.Options{
		BaseURL:   baseURL,
		Timeout:   timeout,
		UserAgent: version.UserAgent("brainctl"),
	}, log)
}

// Run executes args (without the program name) and returns the exit code.
func (r *Runner) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(r.Stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "import":
		err = r.runImport(ctx, args[1:])
	case "share":
		err = r.runShare(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(r.Stdout, usage)
		return 0
	default:
		fmt.Fprintf(r.Stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	var ue usageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ue):
		fmt.Fprintf(r.Stderr, "brainctl %s: %v\n", args[0], err)
		return 2
	default:
		fmt.Fprintf(r.Stderr, "brainctl %s: %v\n", args[0], err)
		return 1
	}
}

type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }

func (r *Runner) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(r.Stderr)
	return fs
}

func (r *Runner) signin(ctx context.Context, c common) (Backend, string, error) {
	log := logger.New(c.logLevel, true)
	be, err := r.NewBackend(c.backendURL, c.timeout, log)
	if err != nil {
		return nil, "", err
	}
	token, err := be.Signin(ctx, c.username, c.password)
	if err != nil {
		if backend.IsUnauthorized(err) {
			return nil, "", errors.New("invalid username or password")
		}
		return nil, "", fmt.Errorf("sign in: %w", err)
	}
	return be, token, nil
}

func (r *Runner) runImport(ctx context.Context, args []string) error {
	var (
		c      common
		file   string
		dryRun bool
	)
	fs := r.flagSet("import")
	c.register(fs)
	fs.StringVar(&file, "file", "", "bookmarks.yaml to import, - for stdin")
	fs.BoolVar(&dryRun, "dry-run", false, "print what would be created without calling the backend")
	if err := fs.Parse(args); err != nil {
		return usageError{err}
	}
	if file == "" {
		return usageError{errors.New("-file is required")}
	}

	var (
		cfg homepage.BookmarksConfig
		err error
	)
	if file == "-" {
		cfg, err = homepage.Read(r.Stdin)
	} else {
		cfg, err = homepage.NewLoader(file).Load()
	}
	if err != nil {
		return err
	}

	entries, skipped, err := homepage.NewMapper().MapDrafts(cfg)
	for _, s := range skipped {
		fmt.Fprintf(r.Stdout, "skip   %s / %s: %s\n", s.Category, s.Name, s.Reason)
	}
	if err != nil {
		return err
	}

	if dryRun {
		for _, e := range entries {
			fmt.Fprintf(r.Stdout, "plan   [%s] %s %s\n", e.Draft.Type, e.Draft.Title, e.Draft.Link)
		}
		fmt.Fprintf(r.Stdout, "%d to import, %d skipped\n", len(entries), len(skipped))
		return nil
	}

	if err := c.validate(); err != nil {
		return usageError{err}
	}
	be, token, err := r.signin(ctx, c)
	if err != nil {
		return err
	}

	var created, failed int
	for _, e := range entries {
		err := be.CreateContent(ctx, token, e.Draft)
		if err == nil {
			created++
			fmt.Fprintf(r.Stdout, "added  [%s] %s\n", e.Draft.Type, e.Draft.Title)
			continue
		}
		if backend.IsUnauthorized(err) {
			return fmt.Errorf("session rejected after %d items: %w", created, err)
		}
		failed++
		fmt.Fprintf(r.Stdout, "failed %s: %s\n", e.Draft.Title, describe(err))
	}

	fmt.Fprintf(r.Stdout, "%d imported, %d skipped, %d failed\n", created, len(skipped), failed)
	if failed > 0 {
		return fmt.Errorf("%d items could not be created", failed)
	}
	return nil
}

func (r *Runner) runShare(ctx context.Context, args []string) error {
	var (
		c         common
		publicURL string
	)
	fs := r.flagSet("share")
	c.register(fs)
	fs.StringVar(&publicURL, "public-url", os.Getenv("BRAINLINK_PUBLIC_URL"), "public base URL of the web client")
	if err := fs.Parse(args); err != nil {
		return usageError{err}
	}
	if err := c.validate(); err != nil {
		return usageError{err}
	}

	be, token, err := r.signin(ctx, c)
	if err != nil {
		return err
	}
	hash, err := be.ShareBrain(ctx, token)
	if err != nil {
		return fmt.Errorf("share: %s", describe(err))
	}

	if publicURL == "" {
		fmt.Fprintln(r.Stdout, hash)
		return nil
	}
	fmt.Fprintln(r.Stdout, dashboard.ShareURL(publicURL, hash))
	return nil
}

// describe turns a backend failure into a one line explanation.
func describe(err error) string {
	if be, ok := backend.AsError(err); ok {
		if len(be.Fields) > 0 {
			return be.FieldMessages()
		}
		if be.Message != "" {
			return be.Message
		}
		return fmt.Sprintf("status %d", be.Status)
	}
	return err.Error()
}
