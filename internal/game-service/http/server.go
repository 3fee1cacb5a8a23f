package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/radieske/trivia-roulette-platform/internal/game-service/dto"
	"github.com/radieske/trivia-roulette-platform/internal/game-service/round"
	"github.com/radieske/trivia-roulette-platform/internal/game/domain"
	"github.com/radieske/trivia-roulette-platform/internal/game/trivia"
)

// History é opcional: só existe no modo em memória (no modo http o leaderboard-service serve os giros)
type History interface {
	Spins(userID string) []domain.SettlementRecord
}

// Info descreve a mesa configurada
type Info struct {
	Set    string
	Policy string
}

type Server struct {
	log     *zap.Logger
	rounds  *round.Manager
	info    Info
	history History
}

func NewServer(log *zap.Logger, rounds *round.Manager, info Info, history History) *Server {
	return &Server{log: log, rounds: rounds, info: info, history: history}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /outcomes", s.outcomes)
	mux.HandleFunc("POST /rounds/bets", s.placeBet)
	mux.HandleFunc("DELETE /rounds/bets", s.clearBets) // ?userId=...
	mux.HandleFunc("GET /rounds/current", s.current)   // ?userId=...
	mux.HandleFunc("POST /rounds/question", s.question)
	mux.HandleFunc("POST /rounds/spin", s.spin)
	if s.history != nil {
		mux.HandleFunc("GET /rounds/history", s.spins) // ?userId=...
	}
	return mux
}

func (s *Server) outcomes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, dto.OutcomesResponse{
		Set:      s.info.Set,
		Policy:   s.info.Policy,
		Outcomes: s.rounds.Outcomes().Outcomes(),
	})
}

func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.OutcomeID == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	v, err := s.rounds.PlaceBet(r.Context(), req.UserID, req.OutcomeID, req.Delta)
	if err != nil {
		s.fail(w, req.UserID, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoundView(v))
}

func (s *Server) clearBets(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId required", http.StatusBadRequest)
		return
	}
	v, err := s.rounds.ClearBets(r.Context(), userID)
	if err != nil {
		s.fail(w, userID, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoundView(v))
}

func (s *Server) current(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId required", http.StatusBadRequest)
		return
	}
	v, err := s.rounds.Current(r.Context(), userID)
	if err != nil {
		s.fail(w, userID, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoundView(v))
}

func (s *Server) question(w http.ResponseWriter, r *http.Request) {
	var req dto.QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	q, err := s.rounds.Question(r.Context(), req.UserID, req.Topic)
	if err != nil {
		s.fail(w, req.UserID, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) spin(w http.ResponseWriter, r *http.Request) {
	var req dto.SpinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	rec, err := s.rounds.Spin(r.Context(), req.UserID, round.Answer{QuestionID: req.QuestionID, Text: req.Answer})
	if err != nil {
		s.fail(w, req.UserID, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SpinResponse{SettlementRecord: rec, Won: rec.GrossWinnings > 0})
}

func (s *Server) spins(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId required", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, dto.HistoryResponse{UserID: userID, Spins: s.history.Spins(userID)})
}

// fail traduz erros do domínio em status HTTP
func (s *Server) fail(w http.ResponseWriter, userID string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidOutcome),
		errors.Is(err, domain.ErrNoWagers),
		errors.Is(err, domain.ErrInvalidStake),
		errors.Is(err, trivia.ErrUnknownQuestion),
		errors.Is(err, round.ErrQuestionNotIssued):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrInsufficientBalance):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrInvalidRoundState):
		// chamada fora de ordem é defeito do cliente; registra alto
		s.log.Error("invalid round state", zap.String("user_id", userID), zap.Error(err))
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, round.ErrSettlementPending):
		http.Error(w, "settlement pending", http.StatusBadGateway)
	case errors.Is(err, round.ErrWalletUnavailable), errors.Is(err, round.ErrTriviaUnavailable):
		s.log.Warn("upstream unavailable", zap.String("user_id", userID), zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		s.log.Error("round operation", zap.String("user_id", userID), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toRoundView(v round.View) dto.RoundView {
	return dto.RoundView{
		RoundID:    v.RoundID,
		State:      v.State,
		Wagers:     v.Wagers,
		TotalStake: v.TotalStake,
		Balance:    v.Balance,
		Pending:    v.Pending,
		QuestionID: v.QuestionID,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
