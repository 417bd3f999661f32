package app

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/wordtier/internal/config"
	"github.com/heartmarshall/wordtier/internal/transport/middleware"
	"github.com/heartmarshall/wordtier/internal/transport/rest"
)

// NewRouter mounts every route behind the middleware chain. The returned
// stop function ends the rate limiter's background cleanup.
func NewRouter(cfg *config.Config, logger *slog.Logger, c *Components) (http.Handler, func()) {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", rest.Home)
	rest.NewHealthHandler(BuildVersion(), c.Checks).Register(mux)
	rest.NewWordsHandler(c.Dictionary, logger).Register(mux)

	mws := []middleware.Middleware{
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
	}

	stop := func() {}
	if cfg.RateLimit.RPS > 0 {
		rl := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.CleanupInterval)
		mws = append(mws, rl.Middleware)
		stop = rl.Stop
	}

	return middleware.Chain(mws...)(mux), stop
}
