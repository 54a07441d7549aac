package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Sternrassler/artic-table/internal/api"
	"github.com/Sternrassler/artic-table/internal/config"
	"github.com/Sternrassler/artic-table/pkg/client"
	"github.com/Sternrassler/artic-table/pkg/logging"
	"github.com/Sternrassler/artic-table/pkg/pagination"
	"github.com/Sternrassler/artic-table/pkg/ratelimit"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Setup(logging.DefaultConfig())
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Setup(cfg.LoggingConfig(false))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := cfg.RedisClient()
	if rdb != nil {
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unreachable, shared rate limit degraded")
		} else {
			log.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")
		}
	}
	limiter := ratelimit.New(cfg.RateLimitConfig(rdb), logging.NewLogger("ratelimit"))

	c, err := client.New(cfg.ClientConfig(limiter))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create API client")
	}
	defer c.Close()

	gin.SetMode(gin.ReleaseMode)
	srv := newServer(cfg.Server.Addr, api.Deps{
		Pager:   pagination.NewPager(c),
		Bulk:    pagination.NewBulkSelector(c, cfg.BulkSelectorConfig()),
		Redis:   rdb,
		Limiter: limiter,
	})

	if err := serve(ctx, srv); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
	log.Info().Msg("Server stopped")
}

func newServer(addr string, deps api.Deps) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           api.New(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("Starting artwork proxy server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
