// Package api exposes goals, journal entries and statistics as a JSON HTTP API.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"journey/internal/config"
	"journey/internal/services"
)

type Server struct {
	services *services.ServiceManager
	handler  http.Handler
	http     *http.Server
}

func NewServer(port string, sm *services.ServiceManager) *Server {
	s := &Server{services: sm}

	mux := http.NewServeMux()
	s.routes(mux)
	s.handler = CorsSettings(false).Handler(logRequests(mux))

	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler корневой обработчик со всеми маршрутами и CORS
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/state", s.handleState)

	mux.HandleFunc("GET /api/goals", s.handleListGoals)
	mux.HandleFunc("POST /api/goals", s.handleCreateGoal)
	mux.HandleFunc("GET /api/goals/{id}", s.handleGetGoal)
	mux.HandleFunc("PATCH /api/goals/{id}", s.handleUpdateGoal)
	mux.HandleFunc("DELETE /api/goals/{id}", s.handleDeleteGoal)
	mux.HandleFunc("PUT /api/goals/{id}/milestones", s.handleEditMilestones)
	mux.HandleFunc("POST /api/goals/{id}/milestones/{mid}/toggle", s.handleToggleMilestone)
	mux.HandleFunc("PUT /api/goals/{id}/progress", s.handleSetProgress)

	mux.HandleFunc("GET /api/entries", s.handleListEntries)
	mux.HandleFunc("POST /api/entries", s.handleCreateEntry)
	mux.HandleFunc("GET /api/entries/{id}", s.handleGetEntry)
	mux.HandleFunc("PATCH /api/entries/{id}", s.handleUpdateEntry)
	mux.HandleFunc("DELETE /api/entries/{id}", s.handleDeleteEntry)
	mux.HandleFunc("GET /api/entries/{id}/html", s.handleEntryHTML)

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/grid", s.handleGrid)
	mux.HandleFunc("GET /api/timeline", s.handleTimeline)
	mux.HandleFunc("GET /api/mood", s.handleMood)
	mux.HandleFunc("GET /api/query", s.handleQuery)
}

// Start блокирует до остановки сервера
func (s *Server) Start() error {
	config.Logger.Infow("🌐 API запущен", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		config.Logger.Debugw("➡️ HTTP запрос", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
