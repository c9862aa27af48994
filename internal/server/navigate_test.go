package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/queensconnect/civic-navigate/internal/classifier"
	"github.com/queensconnect/civic-navigate/internal/oracle"
	"github.com/queensconnect/civic-navigate/internal/pipeline"
	"github.com/queensconnect/civic-navigate/internal/prompts"
	"github.com/queensconnect/civic-navigate/internal/quota"
	"github.com/queensconnect/civic-navigate/internal/storage"
	"github.com/queensconnect/civic-navigate/internal/vocab"
)

type scriptedOracle struct {
	responses []string
	calls     int
}

func (s *scriptedOracle) Complete(ctx context.Context, system, user string, opts oracle.Options) (string, error) {
	i := s.calls
	s.calls++
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", nil
}

func newTestRouter(t *testing.T, o oracle.Oracle, limit int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	lib, err := prompts.New("Southeast Queens")
	require.NoError(t, err)
	store := storage.NewMemoryStorage()

	p := pipeline.New(pipeline.Config{
		Guard:      quota.NewGuard(store, limit, logger),
		Loader:     vocab.NewLoader(store, logger),
		Crisis:     classifier.NewCrisisClassifier(o, lib, logger),
		Router:     classifier.NewRouter(o, lib, logger),
		Answerer:   classifier.NewAnswerer(o, lib, logger),
		Region:     "Southeast Queens",
		SafetyText: "Call or text 988 to talk with someone right now.",
		Now:        func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) },
		Logger:     logger,
	})
	return NewRouter(NewNavigateHandler(p, logger), logger)
}

func postNavigate(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/navigate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestNavigateEmptyQuery(t *testing.T) {
	router := newTestRouter(t, &scriptedOracle{}, 300)

	for _, payload := range []string{`{}`, `{"query": ""}`, `{"query": "   "}`, `not json`} {
		w := postNavigate(router, payload)
		assert.Equal(t, http.StatusBadRequest, w.Code, "payload %q", payload)
		body := decode(t, w)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Please provide a search query", body["error"])
	}
}

func TestNavigateQuotaExceeded(t *testing.T) {
	o := &scriptedOracle{}
	router := newTestRouter(t, o, 0)

	w := postNavigate(router, `{"query": "senior services"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Daily search limit exceeded", body["error"])
	assert.Zero(t, o.calls)
}

func TestNavigateRouted(t *testing.T) {
	o := &scriptedOracle{responses: []string{
		`{"crisis": false}`,
		`{"destination": "/resources", "category": "Senior Services", "searchTerm": "fitness classes"}`,
	}}
	router := newTestRouter(t, o, 300)

	w := postNavigate(router, `{"query": "senior fitness classes"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "/resources", body["destination"])
	assert.Equal(t, "Senior Services", body["category"])
	assert.Equal(t, "fitness classes", body["searchTerm"])
	assert.NotContains(t, body, "answer")
	assert.NotContains(t, body, "employer")
}

func TestNavigateCrisis(t *testing.T) {
	o := &scriptedOracle{responses: []string{`{"crisis": true}`}}
	router := newTestRouter(t, o, 300)

	w := postNavigate(router, `{"query": "where can I buy a rope and a stool"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["isGeneralQuery"])
	assert.Contains(t, body["answer"], "988")
	assert.NotContains(t, body, "destination")
}

func TestNavigateAnswered(t *testing.T) {
	o := &scriptedOracle{responses: []string{
		`{"crisis": false}`,
		`{"destination": "NO_MATCH"}`,
		`{"answer": "Community board meetings are monthly and open to the public."}`,
	}}
	router := newTestRouter(t, o, 300)

	w := postNavigate(router, `{"query": "when does the community board meet"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["isGeneralQuery"])
	assert.Contains(t, body["answer"], "Community board")
}

func TestNavigateMalformedOracleOutput(t *testing.T) {
	o := &scriptedOracle{responses: []string{
		`{"crisis": false}`,
		"prose with no json",
	}}
	router := newTestRouter(t, o, 300)

	w := postNavigate(router, `{"query": "anything"}`)
	// Classification ambiguity is a normal outcome, not a system fault
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
}

func TestNavigateOutOfScope(t *testing.T) {
	o := &scriptedOracle{responses: []string{
		`{"crisis": false}`,
		`{"destination": "OUT_OF_SCOPE"}`,
	}}
	router := newTestRouter(t, o, 300)

	w := postNavigate(router, `{"query": "unemployment office in Manhattan"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "Southeast Queens")
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t, &scriptedOracle{}, 300)

	req := httptest.NewRequest(http.MethodOptions, "/api/navigate", nil)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t, &scriptedOracle{}, 300)

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUsageEndpoint(t *testing.T) {
	o := &scriptedOracle{responses: []string{
		`{"crisis": false}`,
		`{"destination": "/jobs"}`,
	}}
	router := newTestRouter(t, o, 300)

	postNavigate(router, `{"query": "city jobs"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/usage", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "2024-03-10", body["date"])
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, float64(300), body["limit"])
}
