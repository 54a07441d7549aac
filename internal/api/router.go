// Package api exposes page loads and bulk selection over HTTP.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Sternrassler/artic-table/pkg/metrics"
	"github.com/Sternrassler/artic-table/pkg/pagination"
	"github.com/Sternrassler/artic-table/pkg/ratelimit"
)

// Deps are the components served by the router.
type Deps struct {
	Pager *pagination.Pager
	Bulk  *pagination.BulkSelector

	// Redis is checked by /ready when set.
	Redis *redis.Client

	// Limiter's shared window is reported by /ready when set.
	Limiter *ratelimit.Limiter
}

// New builds the gin engine.
func New(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogging())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", ReadyHandler(deps.Redis, deps.Limiter))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/artworks", ListArtworksHandler(deps.Pager))
		v1.GET("/selection", SelectionHandler(deps.Pager, deps.Bulk))
	}

	return r
}
