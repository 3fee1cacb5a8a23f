package proxy

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Route mapeia um prefixo público (ex.: /api/game) para o serviço de destino
type Route struct {
	Prefix string
	Target string
}

func rp(to string, log *zap.Logger) (*httputil.ReverseProxy, error) {
	u, err := url.Parse(to)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", to, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("target %q must be absolute", to)
	}
	p := httputil.NewSingleHostReverseProxy(u)
	p.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Warn("upstream failed", zap.String("target", to), zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}
	return p, nil
}

// NewHandler monta o mux com um reverse proxy por rota, já com CORS
func NewHandler(log *zap.Logger, routes []Route, onRequest func(prefix string)) (http.Handler, error) {
	mux := http.NewServeMux()
	for _, rt := range routes {
		prefix := strings.TrimRight(rt.Prefix, "/")
		p, err := rp(rt.Target, log)
		if err != nil {
			return nil, err
		}
		var h http.Handler = http.StripPrefix(prefix, p)
		if onRequest != nil {
			next := h
			h = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				onRequest(prefix)
				next.ServeHTTP(w, r)
			})
		}
		mux.Handle(prefix+"/", h)
	}
	return withCORS(mux), nil
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}
