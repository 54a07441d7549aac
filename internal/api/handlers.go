package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/artic-table/pkg/pagination"
	"github.com/Sternrassler/artic-table/pkg/ratelimit"
)

// DefaultPageSize is the page size used when limit is absent.
const DefaultPageSize = 10

// ListArtworksHandler serves GET /api/v1/artworks?page=&limit=.
func ListArtworksHandler(pager *pagination.Pager) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "page must be an integer"})
			return
		}
		limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageSize)))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}

		res, err := pager.LoadPage(c.Request.Context(), page, limit)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// SelectionHandler serves GET /api/v1/selection?count=. The count is
// validated against the current collection total before the walk starts.
func SelectionHandler(pager *pagination.Pager, bulk *pagination.BulkSelector) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		probe, err := pager.LoadPage(ctx, 1, 1)
		if err != nil {
			writeError(c, err)
			return
		}

		n, err := pagination.ParseTarget(c.Query("count"), probe.Total)
		if err != nil {
			writeError(c, err)
			return
		}

		res, err := bulk.Select(ctx, n)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// ReadyHandler reports 503 when the shared rate limit store is unreachable.
// With a shared window configured, the response carries its current state.
func ReadyHandler(rdb *redis.Client, limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "redis": "down", "error": err.Error()})
				return
			}
		}

		body := gin.H{"status": "ok"}
		if tracker := limiter.Tracker(); tracker != nil {
			state, err := tracker.GetState(ctx)
			if err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "rate_limit": "unavailable", "error": err.Error()})
				return
			}
			body["rate_limit"] = gin.H{
				"used":             state.Used,
				"limit":            state.Limit,
				"remaining":        state.Remaining(),
				"exhausted":        state.Exhausted(),
				"reset_at":         state.ResetAt,
				"reset_in_seconds": state.TimeUntilReset().Seconds(),
			}
		}
		c.JSON(http.StatusOK, body)
	}
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pagination.ErrInvalidWindow),
		errors.Is(err, pagination.ErrInvalidTarget),
		errors.Is(err, pagination.ErrTargetExceedsTotal):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Upstream request failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}
