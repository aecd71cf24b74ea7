package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/neiam/theme-sender/internal/geolocation"
	"github.com/neiam/theme-sender/internal/history"
	"github.com/neiam/theme-sender/internal/resolver"
	"github.com/neiam/theme-sender/internal/solar"
)

// healthCheckTimeout bounds all dependency checks of one health request.
const healthCheckTimeout = 3 * time.Second

type componentHealth struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type healthResponse struct {
	Status        string                     `json:"status"`
	Version       string                     `json:"version"`
	UptimeSeconds int64                      `json:"uptime_seconds"`
	Clients       int                        `json:"websocket_clients"`
	Components    map[string]componentHealth `json:"components,omitempty"`
}

// handleHealth reports "degraded" when any configured dependency fails its
// check. The status code stays 200 so the endpoint doubles as a liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:        "ok",
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
		Clients:       s.hub.ClientCount(),
	}

	if len(s.checks) > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		resp.Components = make(map[string]componentHealth, len(s.checks))
		for _, c := range s.checks {
			h := componentHealth{Status: "ok"}
			if err := c.check.HealthCheck(ctx); err != nil {
				h = componentHealth{Status: "unhealthy", Error: err.Error()}
				resp.Status = "degraded"
			}
			resp.Components[c.name] = h
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// phaseView is a solar boundary as rendered by the API.
type phaseView struct {
	Phase       string    `json:"phase"`
	Theme       string    `json:"theme"`
	Description string    `json:"description"`
	At          time.Time `json:"at"`
}

func newPhaseView(e solar.Event) phaseView {
	return phaseView{
		Phase:       e.Theme.String(),
		Theme:       e.Theme.Label(),
		Description: e.Theme.Description(),
		At:          e.At,
	}
}

type overrideView struct {
	Value     string    `json:"value"`
	AppliedAt time.Time `json:"applied_at"`
	// Until is the boundary the override was applied in; it expires when
	// the current phase moves past it.
	Until phaseView `json:"applied_during"`
}

type themeResponse struct {
	Theme     string          `json:"theme"`
	Source    resolver.Source `json:"source"`
	Published bool            `json:"published"`
	Phase     *phaseView      `json:"phase,omitempty"`
	Override  *overrideView   `json:"override,omitempty"`
}

func (s *Server) handleTheme(w http.ResponseWriter, _ *http.Request) {
	snap := s.state.Snapshot()
	if !snap.HasEmitted {
		writeJSON(w, http.StatusOK, themeResponse{Published: false})
		return
	}

	phase := newPhaseView(snap.Phase)
	resp := themeResponse{
		Theme:     snap.LastEmitted,
		Source:    snap.Source,
		Published: true,
		Phase:     &phase,
	}
	if o := snap.Override; o != nil {
		resp.Override = &overrideView{
			Value:     o.Value,
			AppliedAt: o.AppliedAt,
			Until:     newPhaseView(o.Phase),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type scheduleResponse struct {
	Date        string               `json:"date"`
	Location    geolocation.Location `json:"location"`
	Events      []phaseView          `json:"events"`
	Substituted []string             `json:"substituted,omitempty"`
}

func (s *Server) handleSchedule(w http.ResponseWriter, _ *http.Request) {
	sched := s.state.Snapshot().Schedule
	if sched.IsZero() {
		writeUnavailable(w, "no schedule computed yet")
		return
	}

	events := sched.Events()
	resp := scheduleResponse{
		Date:     sched.Date().Format(time.DateOnly),
		Location: s.location,
		Events:   make([]phaseView, len(events)),
	}
	for i, e := range events {
		resp.Events[i] = newPhaseView(e)
	}
	for _, id := range sched.Substituted() {
		resp.Substituted = append(resp.Substituted, id.String())
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleHistory lists theme_history rows. Query parameters: kind, since
// (RFC 3339), limit and offset.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeUnavailable(w, "theme history is disabled")
		return
	}

	q := r.URL.Query()
	filter := history.Filter{Kind: history.Kind(q.Get("kind"))}

	if v := q.Get("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeBadRequest(w, "since must be an RFC 3339 timestamp")
			return
		}
		filter.Since = since
	}
	for name, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeBadRequest(w, name+" must be a non-negative integer")
			return
		}
		*dst = n
	}

	res, err := s.history.List(r.Context(), filter)
	switch {
	case errors.Is(err, history.ErrInvalidKind):
		writeBadRequest(w, "kind must be transition, override or revert")
		return
	case err != nil:
		s.logger.Error("listing theme history", "error", err)
		writeInternalError(w, "failed to list theme history")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
