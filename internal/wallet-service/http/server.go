package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/radieske/trivia-roulette-platform/internal/game/dailyfloor"
	"github.com/radieske/trivia-roulette-platform/internal/game/domain"
	"github.com/radieske/trivia-roulette-platform/internal/wallet-service/dto"
	"github.com/radieske/trivia-roulette-platform/internal/wallet-service/repo"
)

// Repo define a interface de operações de carteira usadas pelo handler HTTP
type Repo interface {
	GetOrCreateWallet(ctx context.Context, userID string) (repo.Wallet, dailyfloor.Result, error)
	ApplySettlement(ctx context.Context, rec domain.SettlementRecord) (repo.Wallet, error)
}

// Hooks para métricas (opcionais)
type Hooks struct {
	OnSettlement func(status string)
	OnDailyFloor func(res dailyfloor.Result)
}

// Server expõe endpoints HTTP para operações de carteira (wallet)
type Server struct {
	log   *zap.Logger
	repo  Repo
	hooks Hooks
}

// NewServer instancia o servidor HTTP de wallet
func NewServer(log *zap.Logger, repo Repo, hooks Hooks) *Server {
	return &Server{log: log, repo: repo, hooks: hooks}
}

// Router retorna o mux HTTP com as rotas da API de wallet
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /wallet", s.getWallet)               // ?userId=...
	mux.HandleFunc("POST /wallet/settle", s.settle)          // body: SettlementRecord
	mux.HandleFunc("POST /wallet/daily-floor", s.dailyFloor) // body: {userId}
	return mux
}

// getWallet retorna (ou cria) a carteira; o piso diário é aplicado na leitura
func (s *Server) getWallet(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId required", http.StatusBadRequest)
		return
	}
	wal, res, err := s.repo.GetOrCreateWallet(r.Context(), userID)
	if err != nil {
		s.log.Error("get wallet", zap.String("user_id", userID), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.floorHook(res)
	writeJSON(w, http.StatusOK, toWalletResponse(wal))
}

// settle aplica o resultado líquido de uma rodada; repetir o round id é no-op
func (s *Server) settle(w http.ResponseWriter, r *http.Request) {
	var req dto.SettleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.RoundID == "" || req.UserID == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	wal, err := s.repo.ApplySettlement(r.Context(), req.SettlementRecord)
	switch {
	case err == nil:
		s.settleHook(dto.SettleApplied)
		s.log.Info("settlement applied",
			zap.String("round_id", req.RoundID),
			zap.String("user_id", req.UserID),
			zap.Int64("net", req.NetResult),
			zap.Int64("balance", wal.Balance))
		writeJSON(w, http.StatusOK, dto.SettleResponse{RoundID: req.RoundID, Status: dto.SettleApplied, Balance: wal.Balance})
	case errors.Is(err, domain.ErrDuplicateSettlement):
		s.settleHook(dto.SettleDuplicate)
		s.log.Warn("duplicate settlement ignored", zap.String("round_id", req.RoundID))
		writeJSON(w, http.StatusOK, dto.SettleResponse{RoundID: req.RoundID, Status: dto.SettleDuplicate, Balance: wal.Balance})
	case errors.Is(err, repo.ErrNotFound):
		http.Error(w, "wallet not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrInsufficientBalance):
		s.log.Error("settlement would overdraw", zap.String("round_id", req.RoundID), zap.Error(err))
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		s.log.Error("apply settlement", zap.String("round_id", req.RoundID), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// dailyFloor aplica explicitamente o piso diário (mesma regra da leitura)
func (s *Server) dailyFloor(w http.ResponseWriter, r *http.Request) {
	var req dto.DailyFloorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	wal, res, err := s.repo.GetOrCreateWallet(r.Context(), req.UserID)
	if err != nil {
		s.log.Error("daily floor", zap.String("user_id", req.UserID), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.floorHook(res)
	writeJSON(w, http.StatusOK, dto.DailyFloorResponse{UserID: req.UserID, Balance: wal.Balance, Result: res.String()})
}

func (s *Server) settleHook(status string) {
	if s.hooks.OnSettlement != nil {
		s.hooks.OnSettlement(status)
	}
}

func (s *Server) floorHook(res dailyfloor.Result) {
	if s.hooks.OnDailyFloor != nil {
		s.hooks.OnDailyFloor(res)
	}
}

func toWalletResponse(w repo.Wallet) dto.WalletResponse {
	return dto.WalletResponse{
		UserID:        w.UserID,
		WalletID:      w.ID,
		Balance:       w.Balance,
		Highest:       w.Highest,
		TotalWinnings: w.TotalWinnings,
		TotalSpins:    w.TotalSpins,
		LastResetDate: w.LastResetDate,
	}
}

// writeJSON serializa e envia resposta JSON
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
