package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"doggy-daycare/internal/adapters/storage/sqlstore"
	"doggy-daycare/internal/config"
	"doggy-daycare/internal/devdata"
	"doggy-daycare/internal/platform/logger"
	"doggy-daycare/internal/platform/metrics"
	"doggy-daycare/internal/router"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// @title                      Doggy Daycare API
// @version                    1.0
// @description                Usuarios, perros, reservas y asistencia diaria/semanal de la guardería.
// @BasePath                   /api/v1
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	def := config.DefaultPath
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		def = v
	}
	configPath := flag.String("config", def, "path to config.yaml (env CONFIG_PATH)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "doggy-daycare: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, closer, err := logger.New(cfg.Logging, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer closer.Close()

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := router.Options{Config: cfg, Logger: *log}

	if cfg.Database.Driver != "memory" {
		db, err := sqlstore.Open(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		opts.DB = db
		log.Info().Str("driver", cfg.Database.Driver).Msg("database ready")
	} else {
		log.Warn().Msg("using in-memory storage, data is lost on restart")
	}

	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		opts.Redis = rdb
		log.Info().Str("addr", cfg.Redis.Address).Msg("redis ready")
	}

	app := router.Build(opts)

	if cfg.App.IsDev() {
		seeder := devdata.Seeder{
			Users:       app.Users,
			Dogs:        app.Dogs,
			Bookings:    app.Bookings,
			BookingRepo: app.BookingRepo,
			Log:         logger.Component(*log, "devdata"),
		}
		if _, _, err := seeder.Seed(ctx); err != nil {
			return fmt.Errorf("seed dev data: %w", err)
		}
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      app.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().
			Str("addr", srv.Addr).
			Str("env", cfg.App.Environment).
			Bool("auth", cfg.Auth.Enabled).
			Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	if cfg.Bookings.NoShowJobEnabled {
		g.Go(func() error {
			app.Bookings.RunNoShowJob(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return shutdown(srv, cfg.HTTP.ShutdownTimeout, *log)
	})

	return g.Wait()
}

func shutdown(srv *http.Server, timeout time.Duration, log zerolog.Logger) error {
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
