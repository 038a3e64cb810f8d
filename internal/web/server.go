// Package web wires the HTTP surface: the session gate around every page,
// the server-rendered login/index/detail pages, and the JSON routes the
// index page polls.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/user/sessionboard/internal/gate"
	"github.com/user/sessionboard/internal/types"
	"github.com/user/sessionboard/internal/upstream"
)

// Dashboard is the aggregation surface the handlers need.
type Dashboard interface {
	ListSessions(ctx context.Context, sess *types.AuthSession, timeFilter, sessionID, userID, agentUUID string) (*types.Listing, error)
	DeriveFilterOptions(ctx context.Context, sess *types.AuthSession, timeFilter string) (*types.FilterOptions, error)
	BuildSessionView(ctx context.Context, sess *types.AuthSession, sessionID, subagentID, eventType string) (*types.SessionView, error)
}

// Server is the HTTP handler for the whole dashboard.
type Server struct {
	gate *gate.Gate
	dash Dashboard
	mux  chi.Router
}

// NewServer builds the router. Login, logout, and health are open;
// everything else sits behind the gate.
func NewServer(g *gate.Gate, dash Dashboard) *Server {
	s := &Server{gate: g, dash: dash}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger)
	r.Use(recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/login", s.handleLoginPage)
	r.Post("/login", s.handleLoginSubmit)
	r.Get("/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(g.RequireAuth)
		r.Get("/", s.handleIndex)
		r.Get("/sessions/{timeFilter}", s.handleSessions)
		r.Get("/filter-options/{timeFilter}", s.handleFilterOptions)
		r.Get("/session", s.handleSessionRedirect)
		r.Get("/session/{sessionID}", s.handleSessionView)
	})

	s.mux = r
	return s
}

// ServeHTTP delegates to the internal router, implementing http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	render(w, tmplLogin, map[string]any{"UserID": ""})
}

func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	userID := r.FormValue("user_id")
	err := s.gate.Login(r.Context(), w, userID)
	if err == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	message := "Login failed: " + err.Error()
	switch {
	case errors.Is(err, gate.ErrMissingUserID):
		message = "Please enter a user ID."
	case errors.Is(err, gate.ErrNotAuthorized):
		message = "You are not authorized to access this dashboard."
	}
	render(w, tmplLogin, map[string]any{
		"Message": message,
		"UserID":  userID,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.gate.Logout(r.Context(), w, r)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := gate.SessionFrom(r.Context())
	render(w, tmplIndex, map[string]any{
		"UserID": sess.UserID,
	})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	sess := gate.SessionFrom(r.Context())
	q := r.URL.Query()

	listing, err := s.dash.ListSessions(r.Context(), sess,
		chi.URLParam(r, "timeFilter"),
		q.Get("session_id"), q.Get("user_id"), q.Get("agent_uuid"))
	if err != nil {
		writeJSONError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (s *Server) handleFilterOptions(w http.ResponseWriter, r *http.Request) {
	sess := gate.SessionFrom(r.Context())

	options, err := s.dash.DeriveFilterOptions(r.Context(), sess, chi.URLParam(r, "timeFilter"))
	if err != nil {
		writeJSONError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

func (s *Server) handleSessionRedirect(w http.ResponseWriter, r *http.Request) {
	if sessionID := r.URL.Query().Get("session_id"); sessionID != "" {
		http.Redirect(w, r, "/session/"+sessionID, http.StatusFound)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleSessionView(w http.ResponseWriter, r *http.Request) {
	sess := gate.SessionFrom(r.Context())
	q := r.URL.Query()
	sessionID := chi.URLParam(r, "sessionID")

	view, err := s.dash.BuildSessionView(r.Context(), sess, sessionID,
		q.Get("subagent_id"), q.Get("event_type"))
	if err != nil {
		var conn *upstream.ConnectivityError
		if errors.As(err, &conn) {
			renderError(w, "Could not connect to the API server. Please make sure it's running.", err)
			return
		}
		renderError(w, "An unexpected error occurred while loading the session.", err)
		return
	}

	render(w, tmplSession, map[string]any{
		"UserID":      sess.UserID,
		"View":        view,
		"SummaryHTML": summaryHTML(view.Summary),
		"EventStats":  prettyJSON(view.EventStats),
		"SubStats":    prettyJSON(view.SubagentStats),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// writeJSONError maps any listing/projection failure straight to a 500
// JSON body; the underlying message is included verbatim for operators.
func writeJSONError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

// requestLogger logs one line per request through slog.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

// recoverer is the outermost guard: unexpected panics become a generic
// 500 instead of tearing down the connection.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("handler panic", "path", r.URL.Path, "panic", rec)
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
