package trivia

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/trivia-roulette-platform/internal/game/trivia"
	triviadto "github.com/radieske/trivia-roulette-platform/internal/trivia-service/dto"
)

func TestEvaluate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trivia/evaluate", r.URL.Path)
		var req triviadto.EvaluateReq
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		switch req.QuestionID {
		case "q1":
			_ = json.NewEncoder(w).Encode(triviadto.EvaluateResp{QuestionID: "q1", Correct: req.Answer == "paris"})
		case "boom":
			http.Error(w, "kaput", http.StatusInternalServerError)
		default:
			http.Error(w, "unknown question", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	ctx := context.Background()

	ok, err := c.Evaluate(ctx, "q1", "paris")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Evaluate(ctx, "q1", "rome")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = c.Evaluate(ctx, "q404", "x")
	assert.ErrorIs(t, err, trivia.ErrUnknownQuestion)

	_, err = c.Evaluate(ctx, "boom", "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, trivia.ErrUnknownQuestion)
	assert.Contains(t, err.Error(), "http 500")
}

func TestRandom(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trivia/questions/random", r.URL.Path)
		switch r.URL.Query().Get("topic") {
		case "", "geography":
			_ = json.NewEncoder(w).Encode(trivia.Question{ID: "geo-001", Topic: "geography", Difficulty: 1, Prompt: "Capital of France?"})
		default:
			http.Error(w, "unknown topic", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	q, err := c.Random(ctx, "geography")
	require.NoError(t, err)
	assert.Equal(t, "geo-001", q.ID)
	assert.Empty(t, q.Accepted)

	q, err = c.Random(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "geography", q.Topic)

	_, err = c.Random(ctx, "astrology")
	assert.ErrorIs(t, err, trivia.ErrUnknownQuestion)
}
