package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/brainlink/internal/httpserver/deps"
)

type componentStatus struct {
	OK    bool   `json:"ok"`
	Mode  string `json:"mode,omitempty"`
	Count *int   `json:"count,omitempty"`
	Error string `json:"error,omitempty"`
}

type readyzResponse struct {
	Ready      bool                       `json:"ready"`
	Components map[string]componentStatus `json:"components"`
}

// Readyz is the readiness probe: sessions can be stored. Mounted
// dashboards are reported for information.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions := checkSessions(r.Context(), d)
		mounted := d.Dashboards.Len()

		resp := readyzResponse{
			Ready: sessions.OK,
			Components: map[string]componentStatus{
				"sessions":   sessions,
				"dashboards": {OK: true, Count: &mounted},
			},
		}

		status := http.StatusOK
		if !resp.Ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}

func checkSessions(ctx context.Context, d deps.Deps) componentStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.Sessions.Store().Ping(ctx); err != nil {
		return componentStatus{OK: false, Mode: d.SessionMode, Error: err.Error()}
	}
	return componentStatus{OK: true, Mode: d.SessionMode}
}
