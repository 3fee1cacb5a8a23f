package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/radieske/trivia-roulette-platform/internal/game/trivia"
	"github.com/radieske/trivia-roulette-platform/internal/trivia-service/dto"
)

// Bank é o catálogo consultado pelo handler
type Bank interface {
	Random(ctx context.Context, topic string) (trivia.Question, error)
	Evaluate(ctx context.Context, questionID, answer string) (bool, error)
	Topics() []string
}

type Hooks struct {
	OnServed    func(topic string)
	OnEvaluated func(correct bool)
}

type Server struct {
	log   *zap.Logger
	bank  Bank
	hooks Hooks
}

func NewServer(log *zap.Logger, bank Bank, hooks Hooks) *Server {
	return &Server{log: log, bank: bank, hooks: hooks}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /trivia/questions/random", s.random) // ?topic=...
	mux.HandleFunc("GET /trivia/topics", s.topics)
	mux.HandleFunc("POST /trivia/evaluate", s.evaluate)
	return mux
}

func (s *Server) random(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	q, err := s.bank.Random(r.Context(), topic)
	if errors.Is(err, trivia.ErrUnknownQuestion) {
		http.Error(w, "unknown topic", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("random question", zap.String("topic", topic), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if s.hooks.OnServed != nil {
		s.hooks.OnServed(q.Topic)
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) topics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, dto.TopicsResp{Topics: s.bank.Topics()})
}

// evaluate nunca devolve as respostas aceitas, só o veredito
func (s *Server) evaluate(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req dto.EvaluateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if req.QuestionID == "" {
		http.Error(w, "questionId required", http.StatusBadRequest)
		return
	}

	ok, err := s.bank.Evaluate(r.Context(), req.QuestionID, req.Answer)
	if errors.Is(err, trivia.ErrUnknownQuestion) {
		http.Error(w, "unknown question", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("evaluate", zap.String("question_id", req.QuestionID), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if s.hooks.OnEvaluated != nil {
		s.hooks.OnEvaluated(ok)
	}
	writeJSON(w, http.StatusOK, dto.EvaluateResp{QuestionID: req.QuestionID, Correct: ok})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
