package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"webmeet/internal/adapters/signal"
	"webmeet/internal/app"
	"webmeet/internal/config"
	"webmeet/pkg/metrics"
)

func corsMiddleware(origin string) gin.HandlerFunc {
	c := cors.DefaultConfig()
	c.AllowCredentials = true
	c.AllowMethods = []string{"GET", "POST"}
	if origin == "" || origin == "*" {
		c.AllowAllOrigins = true
		c.AllowCredentials = false
	} else {
		c.AllowOrigins = []string{origin}
	}
	return cors.New(c)
}

func SetupRouter(ctx context.Context, cfg *config.Config, orch *app.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(cfg.CORSOrigin))

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("WebmeetSessions", store))

	// The pages and client script are immutable assets; the server never
	// inspects what the client exchanges through them.
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})
	r.GET("/room.html", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/room.html")
	})
	r.GET("/client_main.js", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/client_main.js")
	})
	r.GET("/room.js", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/room.js")
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")
	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": orch.Rooms.List()})
	})

	ctrl := signal.NewController(orch, cfg.ReadLimit, cfg.PingPeriod)
	api.GET("/ws/meet", func(c *gin.Context) {
		ctrl.HandleMeet(ctx, c)
	})

	return r
}
