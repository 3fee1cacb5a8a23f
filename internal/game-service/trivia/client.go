package trivia

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/radieske/trivia-roulette-platform/internal/game/trivia"
	triviadto "github.com/radieske/trivia-roulette-platform/internal/trivia-service/dto"
)

// Client fala com o trivia-service
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(base, "/"),
		HTTP:    &http.Client{Timeout: 2 * time.Second},
	}
}

// Random pede uma pergunta do tópico; tópico desconhecido vira ErrUnknownQuestion
func (c *Client) Random(ctx context.Context, topic string) (trivia.Question, error) {
	q := url.Values{}
	if topic != "" {
		q.Set("topic", topic)
	}
	u := c.BaseURL + "/trivia/questions/random"
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return trivia.Question{}, err
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return trivia.Question{}, err
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return trivia.Question{}, fmt.Errorf("topic %q: %w", topic, trivia.ErrUnknownQuestion)
	case res.StatusCode >= 300:
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return trivia.Question{}, fmt.Errorf("trivia random http %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out trivia.Question
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return trivia.Question{}, err
	}
	return out, nil
}

// Evaluate pergunta ao serviço se a resposta está correta; 404 vira ErrUnknownQuestion
func (c *Client) Evaluate(ctx context.Context, questionID, answer string) (bool, error) {
	body, err := json.Marshal(triviadto.EvaluateReq{QuestionID: questionID, Answer: answer})
	if err != nil {
		return false, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/trivia/evaluate", bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.HTTP.Do(req)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return false, fmt.Errorf("question %q: %w", questionID, trivia.ErrUnknownQuestion)
	case res.StatusCode >= 300:
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return false, fmt.Errorf("trivia evaluate http %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out triviadto.EvaluateResp
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return false, err
	}
	return out.Correct, nil
}
