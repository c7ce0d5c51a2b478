package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auorwi/grok-news-generator/app/database"
	"github.com/auorwi/grok-news-generator/app/news"
	"github.com/auorwi/grok-news-generator/app/tasks"
)

type stubRepository struct {
	stats     *database.Stats
	items     []news.Item
	pruned    int
	err       error
	lastQuery string
}

func (s *stubRepository) InsertBatch(items []news.Item) error { return s.err }

func (s *stubRepository) QueryWindow(cutoff time.Time) ([]database.HistoryRecord, error) {
	return nil, s.err
}

func (s *stubRepository) QueryLink(link string, cutoff time.Time) (*database.HistoryRecord, error) {
	return nil, s.err
}

func (s *stubRepository) PruneOlderThan(cutoff time.Time) (int, error) {
	return s.pruned, s.err
}

func (s *stubRepository) Search(keyword string, limit int) ([]news.Item, error) {
	s.lastQuery = fmt.Sprintf("search %s limit %d", keyword, limit)
	return s.items, s.err
}

func (s *stubRepository) RecentByDate(date string, limit int) ([]news.Item, error) {
	s.lastQuery = fmt.Sprintf("recent %s limit %d", date, limit)
	return s.items, s.err
}

func (s *stubRepository) TopScored(minScore int, since time.Time) ([]news.Item, error) {
	s.lastQuery = fmt.Sprintf("top %d", minScore)
	return s.items, s.err
}

func (s *stubRepository) Stats(windowCutoff time.Time) (*database.Stats, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.stats, nil
}

type stubTrigger struct {
	enqueued int
	err      error
}

func (s *stubTrigger) EnqueueTask(task tasks.TaskInterface) error {
	if s.err != nil {
		return s.err
	}
	s.enqueued++
	return nil
}

func (s *stubTrigger) NewGenerateTask() *tasks.GenerateNewsTask {
	return &tasks.GenerateNewsTask{}
}

func newTestServer(repo *stubRepository, trigger *stubTrigger, apiKey string) *httptest.Server {
	handler := NewHandler(repo, trigger, 24, 7, "test")
	return httptest.NewServer(NewServer(handler, apiKey))
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestGetHealth(t *testing.T) {
	repo := &stubRepository{stats: &database.Stats{TotalRecords: 12}}
	server := newTestServer(repo, &stubTrigger{}, "")
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "test", body["version"])
	assert.Equal(t, float64(12), body["history_records"])
}

func TestGetStats(t *testing.T) {
	repo := &stubRepository{stats: &database.Stats{
		TotalRecords:    100,
		RecordsInWindow: 8,
		PolishedCount:   30,
		AverageScore:    71.5,
	}}
	server := newTestServer(repo, &stubTrigger{}, "")
	defer server.Close()

	resp, err := http.Get(server.URL + "/stats")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(100), body["total_records"])
	assert.Equal(t, float64(8), body["records_in_window"])
	assert.Equal(t, 71.5, body["average_score"])
	assert.Equal(t, float64(24), body["window_hours"])
	assert.Equal(t, float64(7), body["retention_days"])
}

func TestGetStats_DatabaseError(t *testing.T) {
	repo := &stubRepository{err: fmt.Errorf("db closed")}
	server := newTestServer(repo, &stubTrigger{}, "")
	defer server.Close()

	resp, err := http.Get(server.URL + "/stats")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestSearchNews(t *testing.T) {
	repo := &stubRepository{items: []news.Item{{Title: "Found"}}}
	server := newTestServer(repo, &stubTrigger{}, "")
	defer server.Close()

	resp, err := http.Get(server.URL + "/news/search?q=bitcoin")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "bitcoin", body["keyword"])
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, "search bitcoin limit 20", repo.lastQuery)
}

func TestSearchNews_MissingKeyword(t *testing.T) {
	server := newTestServer(&stubRepository{}, &stubTrigger{}, "")
	defer server.Close()

	resp, err := http.Get(server.URL + "/news/search")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearchNews_LimitCapped(t *testing.T) {
	repo := &stubRepository{}
	server := newTestServer(repo, &stubTrigger{}, "")
	defer server.Close()

	resp, err := http.Get(server.URL + "/news/search?q=x&limit=9999")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "search x limit 200", repo.lastQuery)
}

func TestRecentNews_DefaultsToToday(t *testing.T) {
	repo := &stubRepository{}
	server := newTestServer(repo, &stubTrigger{}, "")
	defer server.Close()

	resp, err := http.Get(server.URL + "/news/recent")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	today := time.Now().UTC().Format("2006-01-02")
	assert.Equal(t, fmt.Sprintf("recent %s limit 50", today), repo.lastQuery)
}

func TestRecentNews_InvalidDate(t *testing.T) {
	server := newTestServer(&stubRepository{}, &stubTrigger{}, "")
	defer server.Close()

	resp, err := http.Get(server.URL + "/news/recent?date=15-06-2025")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTopNews(t *testing.T) {
	repo := &stubRepository{items: []news.Item{{Title: "Top"}}}
	server := newTestServer(repo, &stubTrigger{}, "")
	defer server.Close()

	resp, err := http.Get(server.URL + "/news/top?min_score=80&days=3")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(80), body["min_score"])
	assert.Equal(t, float64(3), body["days"])
	assert.Equal(t, "top 80", repo.lastQuery)
}

func TestTopNews_InvalidMinScore(t *testing.T) {
	server := newTestServer(&stubRepository{}, &stubTrigger{}, "")
	defer server.Close()

	resp, err := http.Get(server.URL + "/news/top?min_score=150")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTriggerRun_RequiresAuth(t *testing.T) {
	trigger := &stubTrigger{}
	server := newTestServer(&stubRepository{}, trigger, "secret-key")
	defer server.Close()

	// No key
	resp, err := http.Post(server.URL+"/api/run", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Wrong key
	req, _ := http.NewRequest(http.MethodPost, server.URL+"/api/run", nil)
	req.Header.Set("X-API-Key", "wrong")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	assert.Equal(t, 0, trigger.enqueued)
}

func TestTriggerRun(t *testing.T) {
	trigger := &stubTrigger{}
	server := newTestServer(&stubRepository{}, trigger, "secret-key")
	defer server.Close()

	req, _ := http.NewRequest(http.MethodPost, server.URL+"/api/run", nil)
	req.Header.Set("X-API-Key", "secret-key")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, 1, trigger.enqueued)
}

func TestTriggerRun_BearerAuth(t *testing.T) {
	trigger := &stubTrigger{}
	server := newTestServer(&stubRepository{}, trigger, "secret-key")
	defer server.Close()

	req, _ := http.NewRequest(http.MethodPost, server.URL+"/api/run", nil)
	req.Header.Set("Authorization", "Bearer secret-key")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, 1, trigger.enqueued)
}

func TestTriggerPrune(t *testing.T) {
	repo := &stubRepository{pruned: 42}
	server := newTestServer(repo, &stubTrigger{}, "secret-key")
	defer server.Close()

	req, _ := http.NewRequest(http.MethodPost, server.URL+"/api/prune", nil)
	req.Header.Set("X-API-Key", "secret-key")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(42), body["deleted"])
	assert.Equal(t, float64(7), body["retention_days"])
}

func TestOperationalEndpointsDisabledWithoutKey(t *testing.T) {
	server := newTestServer(&stubRepository{}, &stubTrigger{}, "")
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/run", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		raw      string
		fallback int
		expected int
	}{
		{"", 20, 20},
		{"5", 20, 5},
		{"0", 20, 20},
		{"-3", 20, 20},
		{"abc", 20, 20},
		{"500", 20, 200},
	}

	for _, tt := range tests {
		if got := parseLimit(tt.raw, tt.fallback); got != tt.expected {
			t.Errorf("parseLimit(%q, %d) = %d, expected %d", tt.raw, tt.fallback, got, tt.expected)
		}
	}
}
