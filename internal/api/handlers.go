package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"journey/internal/config"
	"journey/internal/database"
	"journey/internal/services"

	"github.com/yuin/goldmark"
)

const (
	defaultGridWeeks = 12
	maxGridWeeks     = 53
	defaultMonths    = 3
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		config.Logger.Errorw("⚠️ Ошибка записи ответа", "error", err)
	}
}

// writeError переводит ошибки сервисов в HTTP статусы
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInvalid):
		status = http.StatusBadRequest
	default:
		config.Logger.Errorw("❌ Ошибка обработки запроса", "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %v: %w", err, services.ErrInvalid)
	}
	return nil
}

// intParam читает положительное целое из query string
func intParam(r *http.Request, name string, def, limit int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer: %w", name, services.ErrInvalid)
	}
	return min(n, limit), nil
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.services.Store.State())
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := services.GoalFilter{
		Category: database.Category(q.Get("category")),
		Query:    q.Get("q"),
	}
	writeJSON(w, http.StatusOK, s.services.Goal.List(filter))
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var in services.GoalInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	goal, err := s.services.Goal.Create(in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := s.services.Goal.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var patch services.GoalPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	goal, err := s.services.Goal.Update(r.PathValue("id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Goal.Delete(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEditMilestones(w http.ResponseWriter, r *http.Request) {
	var drafts []services.MilestoneDraft
	if err := decodeBody(r, &drafts); err != nil {
		writeError(w, err)
		return
	}
	goal, err := s.services.Goal.EditMilestones(r.PathValue("id"), drafts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (s *Server) handleToggleMilestone(w http.ResponseWriter, r *http.Request) {
	goal, err := s.services.Goal.ToggleMilestone(r.PathValue("id"), r.PathValue("mid"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (s *Server) handleSetProgress(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Progress int `json:"progress"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	goal, err := s.services.Goal.SetProgress(r.PathValue("id"), body.Progress)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := services.EntryFilter{
		Type:   database.EntryType(q.Get("type")),
		Mood:   database.Mood(q.Get("mood")),
		GoalID: q.Get("goal"),
		Query:  q.Get("q"),
	}
	entries := s.services.Entry.List(filter)
	if q.Get("group") == "day" {
		writeJSON(w, http.StatusOK, services.GroupEntriesByDate(entries))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var in services.EntryInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	entry, err := s.services.Entry.Create(in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := s.services.Entry.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	var patch services.EntryPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	entry, err := s.services.Entry.Update(r.PathValue("id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Entry.Delete(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleEntryHTML отдаёт текст записи, отрендеренный как markdown. Сырой HTML в тексте не пропускается
func (s *Server) handleEntryHTML(w http.ResponseWriter, r *http.Request) {
	entry, err := s.services.Entry.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(entry.Content), &buf); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.services.Analytics.Dashboard())
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	weeks, err := intParam(r, "weeks", defaultGridWeeks, maxGridWeeks)
	if err != nil {
		writeError(w, err)
		return
	}
	policy := services.MoodOfLatest
	if r.URL.Query().Get("mood") == "earliest" {
		policy = services.MoodOfEarliest
	}
	writeJSON(w, http.StatusOK, s.services.Analytics.Grid(weeks, policy))
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	months, err := intParam(r, "months", defaultMonths, 24)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.services.Analytics.Timeline(months))
}

func (s *Server) handleMood(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days", 7, 366)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.services.Analytics.Mood(days))
}

// handleQuery выполняет JSONPath выражение над сохранённым состоянием
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, fmt.Errorf("path is required: %w", services.ErrInvalid))
		return
	}
	result, err := s.services.Repository().Query(path)
	if errors.Is(err, database.ErrBadQuery) {
		writeError(w, fmt.Errorf("%v: %w", err, services.ErrInvalid))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
