package server

import (
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/localhive/event-catalog/internal/middleware"
)

// GetEngine returns a Gin engine with the middleware every route relies on. Routes are registered
// by the individual packages using their Routes functions.
func GetEngine(logger *slog.Logger) *gin.Engine {
	r := gin.New()

	r.Use(middleware.CorrelationID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowCredentials = true
	corsConfig.AddAllowHeaders("authorization")
	r.Use(cors.New(corsConfig))

	r.Use(middleware.ErrorHandler())

	return r
}
