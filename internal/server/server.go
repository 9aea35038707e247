package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Skufu/pedtox/internal/platform/db"
	"github.com/Skufu/pedtox/internal/render"
	"github.com/Skufu/pedtox/internal/toxplan"
)

type Options struct {
	Planner     *toxplan.Planner
	DB          db.HealthChecker // nil when the database is disabled
	StaticRoot  string
	CORSOrigins []string
	Logger      zerolog.Logger
}

type handler struct {
	planner *toxplan.Planner
	log     zerolog.Logger
}

func New(opts Options) *gin.Engine {
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router := gin.New()
	router.Use(
		requestID(),
		requestLogger(opts.Logger),
		recovery(opts.Logger),
		limitBodySize(1<<20), // 1MB max body
		cors.New(cors.Config{
			AllowOrigins:  origins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
			ExposeHeaders: []string{requestIDHeader},
			MaxAge:        12 * time.Hour,
		}),
	)

	index := filepath.Join(opts.StaticRoot, "index.html")
	if opts.StaticRoot != "" && fileExists(index) {
		router.Static("/static", opts.StaticRoot)
		router.StaticFile("/", index)
	} else {
		router.GET("/", func(c *gin.Context) {
			c.String(http.StatusOK, render.Placeholder)
		})
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/readyz", func(c *gin.Context) {
		if opts.DB == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "disabled"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := opts.DB.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"db":     fmt.Sprintf("unhealthy: %v", err),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "ok"})
	})

	h := &handler{planner: opts.Planner, log: opts.Logger}
	api := router.Group("/api")
	api.GET("/symptoms", h.symptoms)
	api.GET("/antidotes", h.antidotes)
	api.POST("/plan", h.plan)

	return router
}

// DetectStaticRoot looks for web/index.html in the working directory and its
// two parents.
func DetectStaticRoot() string {
	startDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	candidates := []string{
		startDir,
		filepath.Dir(startDir),
		filepath.Dir(filepath.Dir(startDir)),
	}

	for _, dir := range candidates {
		web := filepath.Join(dir, "web")
		if fileExists(filepath.Join(web, "index.html")) {
			return web
		}
	}

	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
