// Package server exposes the slideshow control surface over HTTP. Each
// client gets a session identified by the X-Session-ID header or a
// session cookie; requests without one transparently create a session.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dshills/glideshow/internal/action"
	"github.com/dshills/glideshow/internal/config"
	"github.com/dshills/glideshow/internal/dispatch"
	"github.com/dshills/glideshow/internal/logging"
	"github.com/dshills/glideshow/internal/resource"
	"github.com/dshills/glideshow/internal/session"
)

const sessionCookie = "glideshow_session"

// Server serves the HTTP control API.
type Server struct {
	cfg        *config.Config
	resources  *resource.List
	sessions   *session.Manager
	dispatcher *dispatch.Dispatcher
	logger     *logging.Logger
	httpServer *http.Server
}

// New creates a server wired to the given components.
func New(cfg *config.Config, resources *resource.List, sessions *session.Manager,
	dispatcher *dispatch.Dispatcher, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NullLogger
	}
	return &Server{
		cfg:        cfg,
		resources:  resources,
		sessions:   sessions,
		dispatcher: dispatcher,
		logger:     logger.WithComponent("server"),
	}
}

// Routes builds the request multiplexer.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/resources", s.handleResources)
	mux.HandleFunc("GET /api/config", s.handleConfig)
	mux.HandleFunc("GET /api/actions", s.handleActions)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/mappings/{kind}", s.handleGetMappings)
	mux.HandleFunc("PUT /api/mappings/{kind}", s.handlePutMapping)
	mux.HandleFunc("POST /api/execute", s.handleExecute)
	mux.HandleFunc("POST /api/key", s.handleKey)
	mux.HandleFunc("POST /api/gesture", s.handleGesture)
	return mux
}

// ListenAndServe starts the HTTP server and blocks until it stops.
func (s *Server) ListenAndServe() error {
	host := s.cfg.String("web.host", "0.0.0.0")
	port := s.cfg.Int("web.port", 8000)
	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	s.logger.Info("listening on %s", addr)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// resolveSession finds the caller's session from the X-Session-ID
// header or the session cookie, creating one when neither names a live
// session. New sessions are announced via both the header and cookie.
func (s *Server) resolveSession(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	id := r.Header.Get("X-Session-ID")
	if id == "" {
		if cookie, err := r.Cookie(sessionCookie); err == nil {
			id = cookie.Value
		}
	}

	if id != "" {
		if sess, ok := s.sessions.Get(id); ok {
			return sess, nil
		}
	}

	sess, err := s.sessions.Create()
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set("X-Session-ID", sess.ID)
	s.logger.Debug("created session %s", sess.ID)
	return sess, nil
}

// writeJSON writes a JSON response body.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps an action error kind onto an HTTP status.
func writeError(w http.ResponseWriter, err error) {
	kind := action.KindOf(err)
	status := http.StatusBadRequest
	switch kind {
	case action.KindNotFound:
		status = http.StatusNotFound
	case action.KindResourceExhausted:
		status = http.StatusTooManyRequests
	case action.KindExternalTool:
		status = http.StatusBadGateway
	case action.KindConfig:
		status = http.StatusInternalServerError
	}

	var ae *action.Error
	message := err.Error()
	if errors.As(err, &ae) {
		message = ae.Message
	}

	writeJSON(w, status, map[string]any{
		"success": false,
		"error": map[string]any{
			"kind":    string(kind),
			"message": message,
		},
	})
}

// writeResult serializes an action result, including the session state
// after the action was applied.
func (s *Server) writeResult(w http.ResponseWriter, sess *session.Session, token string, result action.Result) {
	if result.Status == action.StatusFailure && result.Error != nil {
		writeError(w, result.Error)
		return
	}

	payload := map[string]any{
		"success": true,
		"status":  result.Status.String(),
		"state":   s.stateSnapshot(sess),
	}
	if token != "" {
		payload["token"] = token
	}
	if result.Message != "" {
		payload["message"] = result.Message
	}
	if len(result.Data) > 0 {
		payload["data"] = result.Data
	}
	writeJSON(w, http.StatusOK, payload)
}

// stateSnapshot captures the session state for API responses.
func (s *Server) stateSnapshot(sess *session.Session) map[string]any {
	var snap map[string]any
	sess.Exec(func(st *session.State) bool {
		snap = map[string]any{
			"session_id":    st.ID,
			"current_index": st.CurrentIndex,
			"total":         st.Total,
			"paused":        st.Paused,
			"repeat":        st.Repeat,
			"shuffle":       st.Shuffle,
			"speed_seconds": st.SpeedSeconds,
			"context":       st.Context,
			"hidden_count":  len(st.Hidden),
		}
		if desc, ok := s.resources.At(st.CurrentIndex); ok {
			snap["current_name"] = desc.BaseName()
			snap["current_path"] = desc.Path
		}
		return false
	})
	return snap
}
