package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/trivia-roulette-platform/internal/leaderboard-service/dto"
)

const (
	DefaultLimit = 10
	// MaxLimit também é o tamanho do top guardado no cache
	MaxLimit = 100
)

type Reader interface {
	TopBalances(ctx context.Context, limit int) ([]dto.Entry, error)
	UserSpins(ctx context.Context, userID string, limit int) ([]dto.Spin, error)
}

type Cache interface {
	GetTop(ctx context.Context, dst any) (bool, error)
	SetTop(ctx context.Context, v any, ttl time.Duration) error
}

// API expõe o ranking por saldo e o histórico de giros
type API struct {
	Log      *zap.Logger
	ReadRepo Reader
	Cache    Cache
	CacheTTL time.Duration
	WS       http.HandlerFunc // opcional

	OnCache func(hit bool) // métricas (opcional)
}

func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/leaderboard", a.leaderboard)    // ?limit=10
	r.Get("/v1/users/{id}/spins", a.listSpins) // ?limit=20
	if a.WS != nil {
		r.Get("/ws", a.WS)
	}
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// parseLimit: vazio usa o default; fora de 1..MaxLimit é 400
func parseLimit(r *http.Request, def int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > MaxLimit {
		return 0, false
	}
	return n, true
}

// leaderboard lê o top do cache; em miss consulta o banco e guarda o top inteiro
func (a *API) leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(r, DefaultLimit)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be between 1 and 100"})
		return
	}

	var top []dto.Entry
	hit, err := a.Cache.GetTop(r.Context(), &top)
	if err != nil {
		a.Log.Warn("leaderboard cache get", zap.Error(err))
	}
	a.cacheHook(hit)
	if !hit {
		top, err = a.ReadRepo.TopBalances(r.Context(), MaxLimit)
		if err != nil {
			a.Log.Error("leaderboard query", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if err := a.Cache.SetTop(r.Context(), top, a.CacheTTL); err != nil {
			a.Log.Warn("leaderboard cache set", zap.Error(err))
		}
	}
	if len(top) > limit {
		top = top[:limit]
	}
	writeJSON(w, http.StatusOK, top)
}

func (a *API) listSpins(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	limit, ok := parseLimit(r, 20)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be between 1 and 100"})
		return
	}
	spins, err := a.ReadRepo.UserSpins(r.Context(), id, limit)
	if err != nil {
		a.Log.Error("user spins query", zap.String("user_id", id), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, spins)
}

func (a *API) cacheHook(hit bool) {
	if a.OnCache != nil {
		a.OnCache(hit)
	}
}
