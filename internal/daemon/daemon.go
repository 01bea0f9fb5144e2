package daemon

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lifeos-sh/lifeos/internal/api"
	"github.com/lifeos-sh/lifeos/internal/app/gamification"
	"github.com/lifeos-sh/lifeos/internal/app/review"
	"github.com/lifeos-sh/lifeos/internal/domain"
	_ "github.com/lifeos-sh/lifeos/internal/infra/metrics" // Register Prometheus metrics
	"github.com/lifeos-sh/lifeos/internal/infra/sqlite"
)

// Daemon is the core Life OS runtime. It wires together the store, the
// review service, and the HTTP API.
type Daemon struct {
	Config  Config
	DB      *sqlite.DB
	Clock   domain.Clock
	Reviews *review.Service
	Server  *api.Server
	cancel  context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration. The
// static rank and achievement tables are verified here so a bad build
// fails at startup instead of serving wrong numbers.
func NewWithConfig(cfg Config) (*Daemon, error) {
	if err := gamification.VerifyRankTable(); err != nil {
		return nil, fmt.Errorf("rank table: %w", err)
	}
	if err := gamification.VerifyCatalog(); err != nil {
		return nil, fmt.Errorf("achievement catalog: %w", err)
	}

	dir := cfg.Storage.Dir
	if dir == "" {
		dir = lifeosHome()
	}
	db, err := sqlite.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// The profile's stored day-start hour wins over config so imported
	// backups keep their boundary.
	clock := domain.NewClock(cfg.Day.StartHour)
	if p, err := db.Profile(); err == nil && p.DayStartHour >= 0 && p.DayStartHour <= 23 {
		clock = domain.NewClock(p.DayStartHour)
	}

	reviews := review.NewService(db, clock)

	srv := api.NewServer(db, reviews, clock)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	return &Daemon{
		Config:  cfg,
		DB:      db,
		Clock:   clock,
		Reviews: reviews,
		Server:  srv,
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	log.Printf("[daemon] serving on http://%s (logical day starts at %02d:00)", addr, d.Clock.DayStartHour)
	if d.Config.Telemetry.Prometheus {
		log.Printf("[daemon] metrics: http://%s/metrics", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
