package deps

import (
	"time"

	"github.com/MrSnakeDoc/brainlink/internal/account"
	"github.com/MrSnakeDoc/brainlink/internal/dashboard"
	"github.com/MrSnakeDoc/brainlink/internal/httpserver/views"
	"github.com/MrSnakeDoc/brainlink/internal/logger"
	"github.com/MrSnakeDoc/brainlink/internal/session"
	"github.com/MrSnakeDoc/brainlink/internal/viewer"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string

	AllowedCIDRS []string // IPs allowed to access healthz/readyz endpoints
	TrustProxy   bool     // true if running behind a trusted reverse proxy (e.g., cloudflared)

	AuthBurst        int // sign-in/sign-up submissions allowed at once per IP
	AuthRefillPerMin int // submissions regained per minute per IP

	Sessions    *session.Manager
	SessionMode string // "redis" | "memory"
	Dashboards  *dashboard.Registry
	Accounts    *account.Service
	Viewer      *viewer.Viewer
	Views       *views.Renderer
}
