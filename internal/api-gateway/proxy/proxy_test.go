package proxy

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func echo(name string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, name+" "+r.Method+" "+r.URL.RequestURI())
	}))
}

func TestRoutesStripPrefix(t *testing.T) {
	game := echo("game")
	defer game.Close()
	board := echo("leaderboard")
	defer board.Close()

	var seen []string
	h, err := NewHandler(zap.NewNop(), []Route{
		{Prefix: "/api/game", Target: game.URL},
		{Prefix: "/api/leaderboard/", Target: board.URL},
	}, func(prefix string) { seen = append(seen, prefix) })
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/game/rounds/spin", nil))
	assert.Equal(t, "game POST /rounds/spin", rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/leaderboard/v1/leaderboard?limit=3", nil))
	assert.Equal(t, "leaderboard GET /v1/leaderboard?limit=3", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/unknown/x", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, []string{"/api/game", "/api/leaderboard"}, seen)
}

func TestPreflight(t *testing.T) {
	h, err := NewHandler(zap.NewNop(), nil, nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/game/rounds/bets", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestUpstreamDown(t *testing.T) {
	dead := echo("dead")
	dead.Close()

	h, err := NewHandler(zap.NewNop(), []Route{{Prefix: "/api/trivia", Target: dead.URL}}, nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trivia/trivia/topics", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestInvalidTarget(t *testing.T) {
	_, err := NewHandler(zap.NewNop(), []Route{{Prefix: "/api/x", Target: "not a url"}}, nil)
	assert.Error(t, err)
}
