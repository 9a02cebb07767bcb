// Package httptransport is the gin surface: an OpenAI-compatible
// speech endpoint plus voice, health, status, and usage routes.
package httptransport

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"

	"kokorod/internal/platform/config"
	"kokorod/internal/platform/observability"
)

// RouterOptions configures the engine builder.
type RouterOptions struct {
	Config     *config.Config
	Logger     *slog.Logger
	StaticRoot string
}

// BuildRouter constructs a gin engine pre-configured with recovery,
// request logging, observability, CORS, and optional static serving
// for the web player.
func BuildRouter(opts RouterOptions) (*gin.Engine, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("http router requires config")
	}

	if opts.Config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(loggingMiddleware(opts.Logger))
	engine.Use(observabilityMiddleware())

	engine.SetTrustedProxies([]string{"0.0.0.0"})

	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if opts.Config.Web.Enabled {
		root := opts.StaticRoot
		if root == "" {
			root = opts.Config.Web.StaticDir
		}
		if root == "" {
			root = "./web"
		}
		engine.Use(static.Serve("/", static.LocalFile(root, true)))
	}

	return engine, nil
}

func loggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if logger != nil {
			logger.Info("http request",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"status", c.Writer.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		}
	}
}

func observabilityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		reqCtx, spanEnd := observability.StartSpan(c.Request.Context(), "http.server", path)
		c.Request = c.Request.WithContext(reqCtx)

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		var spanErr error
		if len(c.Errors) > 0 {
			spanErr = c.Errors.Last().Err
		} else if status := c.Writer.Status(); status >= http.StatusInternalServerError {
			spanErr = fmt.Errorf("status %d", status)
		}
		spanEnd(spanErr)

		observability.RecordCount(reqCtx, "http.requests", 1, map[string]string{
			"component": "http.server",
			"method":    c.Request.Method,
			"path":      path,
			"status":    strconv.Itoa(c.Writer.Status()),
		})
		observability.RecordDuration(reqCtx, "http.request.duration_ms", duration, map[string]string{
			"component": "http.server",
			"method":    c.Request.Method,
			"path":      path,
		})
	}
}
