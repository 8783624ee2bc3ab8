package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"journey/internal/database"
	"journey/internal/services"

	"github.com/google/go-cmp/cmp"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newTestServerOn(t, database.NewMemorySlot())
}

func newTestServerOn(t *testing.T, slot database.Slot) *httptest.Server {
	t.Helper()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	repo := database.NewRepository(slot, "")
	sm := services.NewServiceManager(repo, services.DefaultJourney(time.UTC), func() time.Time { return now })

	ts := httptest.NewServer(NewServer("0", sm).Handler())
	t.Cleanup(ts.Close)
	return ts
}

// do выполняет запрос и декодирует JSON ответ в out, если он задан
func do(t *testing.T, ts *httptest.Server, method, path, body string, out any) int {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func TestGoalEndpoints(t *testing.T) {
	ts := newTestServer(t)

	var goal database.Goal
	status := do(t, ts, http.MethodPost, "/api/goals",
		`{"title":"Run a marathon","category":"health","milestones":["5k","10k"]}`, &goal)
	if status != http.StatusCreated {
		t.Fatalf("POST /api/goals status = %d", status)
	}
	if goal.Category != database.Health || len(goal.Milestones) != 2 || goal.TargetDate != "2031-01-01" {
		t.Errorf("created goal = %+v", goal)
	}

	var toggled database.Goal
	path := "/api/goals/" + goal.ID + "/milestones/" + goal.Milestones[1].ID + "/toggle"
	if status := do(t, ts, http.MethodPost, path, "", &toggled); status != http.StatusOK {
		t.Fatalf("toggle status = %d", status)
	}
	if toggled.Progress != 50 || !toggled.Milestones[1].Completed {
		t.Errorf("toggled goal = %+v", toggled)
	}

	var listed []database.Goal
	do(t, ts, http.MethodGet, "/api/goals?category=health", "", &listed)
	if len(listed) != 1 || listed[0].ID != goal.ID {
		t.Errorf("GET /api/goals?category=health = %+v", listed)
	}
	do(t, ts, http.MethodGet, "/api/goals?category=career", "", &listed)
	if len(listed) != 0 {
		t.Errorf("GET /api/goals?category=career = %+v", listed)
	}

	var progressErr errorResponse
	if status := do(t, ts, http.MethodPut, "/api/goals/"+goal.ID+"/progress", `{"progress":10}`, &progressErr); status != http.StatusBadRequest {
		t.Errorf("PUT progress on goal with milestones status = %d, want 400", status)
	}

	if status := do(t, ts, http.MethodDelete, "/api/goals/"+goal.ID, "", nil); status != http.StatusNoContent {
		t.Errorf("DELETE status = %d, want 204", status)
	}
	var notFound errorResponse
	if status := do(t, ts, http.MethodGet, "/api/goals/"+goal.ID, "", &notFound); status != http.StatusNotFound {
		t.Errorf("GET deleted goal status = %d, want 404", status)
	}
	if notFound.Error == "" {
		t.Error("404 response without error message")
	}
}

func TestRejectsInvalidRequests(t *testing.T) {
	ts := newTestServer(t)

	testCases := []struct {
		name, method, path, body string
		want                     int
	}{
		{"empty goal title", http.MethodPost, "/api/goals", `{"title":"  "}`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/goals", `{"title":"x","owner":"me"}`, http.StatusBadRequest},
		{"broken json", http.MethodPost, "/api/entries", `{"title":`, http.StatusBadRequest},
		{"unknown mood", http.MethodPost, "/api/entries", `{"title":"t","content":"c","mood":"meh"}`, http.StatusBadRequest},
		{"bad weeks", http.MethodGet, "/api/grid?weeks=abc", "", http.StatusBadRequest},
		{"missing query path", http.MethodGet, "/api/query", "", http.StatusBadRequest},
		{"missing entry", http.MethodGet, "/api/entries/nope", "", http.StatusNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var resp errorResponse
			if got := do(t, ts, tc.method, tc.path, tc.body, &resp); got != tc.want {
				t.Errorf("status = %d, want %d (%s)", got, tc.want, resp.Error)
			}
		})
	}
}

func TestEntryEndpoints(t *testing.T) {
	ts := newTestServer(t)

	var entry database.JournalEntry
	body := `{"title":"Day one","content":"**Started** <script>alert(1)</script>","mood":"great","tags":["Start"]}`
	if status := do(t, ts, http.MethodPost, "/api/entries", body, &entry); status != http.StatusCreated {
		t.Fatalf("POST /api/entries status = %d", status)
	}
	if entry.Date != "2025-06-10T00:00:00.000Z" || entry.Type != database.Journal {
		t.Errorf("created entry = %+v", entry)
	}

	resp, err := http.Get(ts.URL + "/api/entries/" + entry.ID + "/html")
	if err != nil {
		t.Fatal(err)
	}
	html, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(html), "<strong>Started</strong>") {
		t.Errorf("html = %s", html)
	}
	if strings.Contains(string(html), "<script>") {
		t.Errorf("raw html passed through: %s", html)
	}

	var groups []services.DayGroup
	do(t, ts, http.MethodGet, "/api/entries?group=day&q=start", "", &groups)
	if len(groups) != 1 || groups[0].Date != "2025-06-10" {
		t.Errorf("grouped entries = %+v", groups)
	}

	var dashboard services.Dashboard
	do(t, ts, http.MethodGet, "/api/dashboard", "", &dashboard)
	if dashboard.TotalEntries != 1 || dashboard.Streak != 1 {
		t.Errorf("dashboard = %+v", dashboard)
	}

	var titles []any
	do(t, ts, http.MethodGet, "/api/query?path=$.entries[*].title", "", &titles)
	if diff := cmp.Diff([]any{"Day one"}, titles); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}
}

type unreadableSlot struct{}

func (unreadableSlot) Get(string) ([]byte, bool, error) { return nil, false, errors.New("disk gone") }
func (unreadableSlot) Set(string, []byte) error         { return nil }

func TestQueryEndpointStatus(t *testing.T) {
	testCases := []struct {
		name string
		slot database.Slot
		path string
		want int
	}{
		{"valid path", database.NewMemorySlot(), "$.goals", http.StatusOK},
		{"broken path", database.NewMemorySlot(), "$.goals[", http.StatusBadRequest},
		{"storage failure", unreadableSlot{}, "$.goals", http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServerOn(t, tc.slot)
			var out any
			if got := do(t, ts, http.MethodGet, "/api/query?path="+url.QueryEscape(tc.path), "", &out); got != tc.want {
				t.Errorf("status = %d, want %d (%v)", got, tc.want, out)
			}
		})
	}
}

func TestGridEndpoint(t *testing.T) {
	ts := newTestServer(t)

	var grid services.ContributionGrid
	if status := do(t, ts, http.MethodGet, "/api/grid?weeks=100", "", &grid); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if grid.Weeks != maxGridWeeks {
		t.Errorf("Weeks = %d, want %d", grid.Weeks, maxGridWeeks)
	}
	for wd, row := range grid.Rows {
		if len(row) != maxGridWeeks {
			t.Errorf("row %d has %d cells", wd, len(row))
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/goals", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got == "" {
		t.Error("preflight response without Access-Control-Allow-Origin")
	}
}
