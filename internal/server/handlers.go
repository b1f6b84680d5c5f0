package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/pointmap/pkg/buildinfo"
	"github.com/matzehuels/pointmap/pkg/errors"
	"github.com/matzehuels/pointmap/pkg/interact"
	"github.com/matzehuels/pointmap/pkg/layout"
	"github.com/matzehuels/pointmap/pkg/pipeline"
	"github.com/matzehuels/pointmap/pkg/pointmap"
	"github.com/matzehuels/pointmap/pkg/session"
)

// maxBody caps request bodies; events and map options are tiny.
const maxBody = 64 << 10

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatHTML: "text/html; charset=utf-8",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

// =============================================================================
// Health & Artifacts
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"version":   buildinfo.Version,
		"locations": s.cfg.Dataset.Len(),
	})
}

// handleArtifact renders the map in the format named by the path. Query
// parameters: radius, title, static, labels, jitter.
func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	opts, err := artifactOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}
	opts.Dataset = s.cfg.Dataset

	result, err := s.cfg.Runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cacheState := "miss"
	if result.CacheInfo.RenderHit {
		cacheState = "hit"
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache", cacheState)
	w.Header().Set("X-Dataset-Hash", result.DatasetHash)
	_, _ = w.Write(result.Artifacts[format])
}

func artifactOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	var opts pipeline.Options

	if v := q.Get("radius"); v != "" {
		radius, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "radius: %q is not a number", v)
		}
		opts.Radius = radius
	}
	opts.Title = q.Get("title")

	flags := []struct {
		name string
		dst  *bool
	}{
		{"static", &opts.Static},
		{"labels", &opts.Labels},
		{"refresh", &opts.Refresh},
	}
	for _, f := range flags {
		if v := q.Get(f.name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "%s: %q is not a boolean", f.name, v)
			}
			*f.dst = b
		}
	}
	if v := q.Get("jitter"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "jitter: %q is not a boolean", v)
		}
		opts.NoJitter = !b
	}
	return opts, nil
}

// =============================================================================
// Live Maps
// =============================================================================

type viewportRequest struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type createMapRequest struct {
	Viewport *viewportRequest `json:"viewport,omitempty"`
	NoJitter bool             `json:"no_jitter,omitempty"`
}

type markerRef struct {
	ID       int     `json:"id"`
	Location string  `json:"location"`
	Region   string  `json:"region"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

type stateResponse struct {
	ID        string     `json:"id"`
	Visible   bool       `json:"visible"`
	Text      string     `json:"text"`
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	Active    *markerRef `json:"active"`
	Markers   int        `json:"markers"`
	Commands  []string   `json:"commands,omitempty"`
	ExpiresAt time.Time  `json:"expires_at"`
}

func (s *Server) handleCreateMap(w http.ResponseWriter, r *http.Request) {
	var req createMapRequest
	if err := decodeBody(r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := []pointmap.Option{pointmap.WithLogger(s.cfg.Logger)}
	if req.NoJitter {
		opts = append(opts, pointmap.WithJitter(layout.NoJitter{}))
	}
	sess, err := session.New(s.cfg.Dataset, s.cfg.SessionTTL, opts...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Viewport != nil {
		vp := interact.Viewport{
			Left:   req.Viewport.Left,
			Top:    req.Viewport.Top,
			Width:  req.Viewport.Width,
			Height: req.Viewport.Height,
		}
		if vp.Width > 0 && vp.Height > 0 {
			vp.ViewBox = s.viewBox
		}
		_ = sess.Do(func(m *pointmap.Map) error {
			m.Controller.SetViewport(vp)
			return nil
		})
	}
	if err := s.cfg.Sessions.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "store map"))
		return
	}

	s.cfg.Logger.Debug("created map", "id", sess.ID)
	writeJSON(w, http.StatusCreated, s.state(sess, nil))
}

func (s *Server) handleGetMap(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.state(sess, nil))
}

func (s *Server) handleDeleteMap(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "delete map"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Events
// =============================================================================

// eventRequest names its marker either by ID or by region and location.
type eventRequest struct {
	Type     string  `json:"type"`
	Marker   *int    `json:"marker,omitempty"`
	Location string  `json:"location,omitempty"`
	Region   string  `json:"region,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	Key      string  `json:"key,omitempty"`
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req eventRequest
	if err := decodeBody(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	var cmds []interact.Command
	err = sess.Do(func(m *pointmap.Map) error {
		ev, err := req.event(m.Controller)
		if err != nil {
			return err
		}
		cmds, err = m.Controller.Handle(ev)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.state(sess, cmds))
}

func (req eventRequest) event(c *interact.Controller) (interact.Event, error) {
	id, err := req.target(c)
	if err != nil {
		return nil, err
	}
	switch req.Type {
	case "pointerenter", "pointermove", "mouseenter", "mousemove":
		return interact.PointerEngage{Marker: id, Client: layout.Point{X: req.X, Y: req.Y}}, nil
	case "pointerleave", "mouseleave":
		return interact.PointerLeave{Marker: id}, nil
	case "focus":
		return interact.KeyboardEngage{Marker: id}, nil
	case "blur":
		return interact.Blur{Marker: id}, nil
	case "keydown":
		return interact.KeyDown{Marker: id, Key: req.Key}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidEvent, "unknown event type %q", req.Type)
}

func (req eventRequest) target(c *interact.Controller) (int, error) {
	if req.Marker != nil {
		return *req.Marker, nil
	}
	if req.Location == "" {
		return 0, errors.New(errors.ErrCodeInvalidEvent, "event needs a marker or a location")
	}
	id, ok := c.Lookup(req.Region, req.Location)
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidEvent, "unknown location %q in region %q", req.Location, req.Region)
	}
	return id, nil
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) lookup(r *http.Request) (*session.Session, error) {
	id := chi.URLParam(r, "id")
	sess, err := s.cfg.Sessions.Get(r.Context(), id)
	if stderrors.Is(err, session.ErrExpired) {
		return nil, errors.New(errors.ErrCodeNotFound, "map %s expired", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load map %s", id)
	}
	if sess == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "map %s not found", id)
	}
	return sess, nil
}

func (s *Server) state(sess *session.Session, cmds []interact.Command) stateResponse {
	resp := stateResponse{ID: sess.ID}
	_ = sess.Do(func(m *pointmap.Map) error {
		tip := m.Controller.Tooltip()
		resp.Visible = tip.Visible
		resp.Text = tip.Text
		resp.X, resp.Y = tip.Pos.X, tip.Pos.Y
		resp.Markers = len(m.Markers)
		if mk, ok := m.Controller.Active(); ok {
			resp.Active = &markerRef{
				ID:       mk.ID,
				Location: mk.LocationName,
				Region:   mk.RegionName,
				X:        mk.Position.X,
				Y:        mk.Position.Y,
			}
		}
		return nil
	})
	resp.ExpiresAt = sess.ExpiresAt()
	for _, c := range cmds {
		resp.Commands = append(resp.Commands, fmt.Sprint(c))
	}
	return resp
}

func decodeBody(r *http.Request, v any, optional bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if optional && stderrors.Is(err, io.EOF) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
