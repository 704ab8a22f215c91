// Package api serves the session's status surface: health, current theme
// and unread-count state, and Prometheus metrics.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dokim/coordclient/internal/models"
	"github.com/dokim/coordclient/internal/session"
)

type Server struct {
	sess *session.Session
	port string
}

func NewServer(sess *session.Session, port string) *Server {
	return &Server{sess: sess, port: port}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/state", s.handleState)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type stateResponse struct {
	SessionID   string            `json:"session_id"`
	Theme       models.ThemeState `json:"theme"`
	UnreadCount *int              `json:"unread_count"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	resp := stateResponse{
		SessionID: s.sess.ID.String(),
		Theme:     s.sess.ThemeState(),
	}
	if count, ok := s.sess.Syncer().UnreadCount(); ok {
		resp.UnreadCount = &count
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
