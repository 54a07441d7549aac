package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/artic-table/internal/config"
	"github.com/Sternrassler/artic-table/internal/tui"
	"github.com/Sternrassler/artic-table/pkg/client"
	"github.com/Sternrassler/artic-table/pkg/logging"
	"github.com/Sternrassler/artic-table/pkg/pagination"
	"github.com/Sternrassler/artic-table/pkg/ratelimit"
	"github.com/Sternrassler/artic-table/pkg/table"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "artic-table:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file (default $ARTIC_CONFIG or ~/.config/artic-table/config.toml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// The terminal belongs to the UI; logs go to a file.
	_, logFile, err := logging.Open(cfg.LoggingConfig(true))
	if err != nil {
		return err
	}
	defer logFile.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := cfg.RedisClient()
	if rdb != nil {
		defer rdb.Close()
	}
	limiter := ratelimit.New(cfg.RateLimitConfig(rdb), logging.NewLogger("ratelimit"))

	c, err := client.New(cfg.ClientConfig(limiter))
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer c.Close()

	session := table.NewSession(
		table.NewStore(cfg.Pager.PageSize),
		pagination.NewPager(c),
		pagination.NewBulkSelector(c, cfg.BulkSelectorConfig()),
	)

	log.Info().Str("base_url", cfg.API.BaseURL).Int("page_size", cfg.Pager.PageSize).Msg("Starting artwork table")

	if _, err := tea.NewProgram(tui.New(ctx, session, cfg.Pager.PageSizes), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
