package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/holvik/staybook/api"
	"github.com/holvik/staybook/config"
	"github.com/holvik/staybook/internal/middleware"
	"github.com/holvik/staybook/internal/session"
	"github.com/redis/go-redis/v9"
)

// Handlers carries the assembled HTTP handlers into the router.
type Handlers struct {
	Venues   *api.VenueHandler
	Bookings *api.BookingHandler
	Auth     *api.AuthHandler
	Profiles *api.ProfileHandler
}

// Run starts the HTTP gateway and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, sessions *session.Manager, redisClient *redis.Client, h Handlers) error {
	router := newRouter(cfg, sessions, redisClient, h)

	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, sessions *session.Manager, redisClient *redis.Client, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLog())

	corsCfg := cors.DefaultConfig()
	if len(cfg.HTTP.AllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.AllowOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowCredentials = !corsCfg.AllowAllOrigins
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	if cfg.Limits.Rate != "" {
		router.Use(middleware.RateLimiter(cfg.Limits.Rate, redisClient))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.HTTP.DocsDir != "" {
		router.Static("/openapi", cfg.HTTP.DocsDir)
		router.GET("/docs", func(c *gin.Context) {
			renderSwaggerUI(c.Writer, "/openapi/openapi.yaml")
		})
	}

	v1 := router.Group("/api/v1")
	v1.Use(middleware.EnsureSession(sessions, cfg.Session.CookieName))
	v1.Use(api.WithCookieName(cfg.Session.CookieName))

	h.Venues.Register(v1.Group("/venues"))
	h.Bookings.Register(v1.Group("/bookings"))
	h.Auth.Register(v1.Group("/auth"))
	h.Profiles.Register(v1.Group("/profile"))

	return router
}

func renderSwaggerUI(w http.ResponseWriter, specURL string) {
	html := fmt.Sprintf(`<!DOCTYPE html>
    <html>
    <head>
        <title>API Docs</title>
        <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@latest/swagger-ui.css">
    </head>
    <body>
        <div id="swagger-ui"></div>
        <script src="https://unpkg.com/swagger-ui-dist@latest/swagger-ui-bundle.js"></script>
        <script>
            window.onload = function() {
                window.ui = SwaggerUIBundle({
                    url: "%s",
                    dom_id: '#swagger-ui'
                });
            };
        </script>
    </body>
    </html>`, specURL)

	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(html))
}
