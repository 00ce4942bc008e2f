package middleware

import (
	"net/http"
	"slices"

	"github.com/flowcrm/pipeline-api/internal/config"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// CORS builds the cross-origin policy for the browser frontend. With no
// origins configured, development allows everything and production denies
// everything.
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	dev := environment == "development" || environment == "local" || environment == ""

	switch {
	case slices.Contains(cfg.AllowedOrigins, "*"):
		if !dev {
			logger.Warn("CORS wildcard origin outside development",
				zap.String("environment", environment))
		}
		options.AllowOriginFunc = allowAnyOrigin
	case len(cfg.AllowedOrigins) > 0:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS restricted to configured origins",
			zap.Strings("origins", cfg.AllowedOrigins))
	case dev:
		options.AllowOriginFunc = allowAnyOrigin
		logger.Info("CORS allowing all origins in development")
	default:
		// Empty AllowedOrigins would default to "*", so deny explicitly.
		options.AllowOriginFunc = func(r *http.Request, origin string) bool { return false }
		logger.Warn("CORS has no allowed origins, denying all cross-origin requests",
			zap.String("environment", environment))
	}

	return cors.Handler(options)
}

func allowAnyOrigin(r *http.Request, origin string) bool {
	return origin != ""
}
