// Command staff-auth serves the clinic staff login and session API.
//
//	@title						Staff Auth API
//	@version					1.0
//	@description				Credential verification and session tokens for clinic staff.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/vetcare/staff-auth/internal/api"
	"github.com/vetcare/staff-auth/internal/api/handler"
	"github.com/vetcare/staff-auth/internal/core/ports"
	"github.com/vetcare/staff-auth/internal/core/service"
	mongostore "github.com/vetcare/staff-auth/internal/infrastructure/db/mongo"
	mysqlstore "github.com/vetcare/staff-auth/internal/infrastructure/db/mysql"
	redisstore "github.com/vetcare/staff-auth/internal/infrastructure/db/redis"
	"github.com/vetcare/staff-auth/internal/pkg/config"
	"github.com/vetcare/staff-auth/internal/pkg/telemetry"
	"github.com/vetcare/staff-auth/pkg/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	startupTimeout  = 15 * time.Second
	shutdownTimeout = 10 * time.Second
)

// staffStore is what every store driver provides.
type staffStore interface {
	ports.IdentityRepository
	ports.ProfileRepository
	Ping(ctx context.Context) error
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "staff-auth",
		Env:     cfg.Env,
		Version: version,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("staff-auth stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	tp, err := telemetry.NewTracerProvider(startCtx, telemetry.Config{
		ServiceName:  "staff-auth",
		Version:      version,
		Env:          cfg.Env,
		Exporter:     cfg.Tracing.Exporter,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		OTLPInsecure: cfg.Tracing.OTLPInsecure,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer flushCancel()
		if err := tp.Shutdown(flushCtx); err != nil {
			log.Warn().Err(err).Msg("tracer provider shutdown")
		}
	}()
	log.Info().Str("exporter", cfg.Tracing.Exporter).Float64("sample_ratio", cfg.Tracing.SampleRatio).Msg("tracing configured")

	store, closeStore, err := openStore(startCtx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	log.Info().Str("driver", cfg.StoreDriver).Msg("store connected")

	checks := map[string]handler.CheckFunc{cfg.StoreDriver: store.Ping}

	var revocations ports.RevocationStore
	if cfg.Redis.RevocationEnabled {
		rdb, err := redisstore.Connect(startCtx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Timeout:  cfg.StoreTimeout,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		revocations = redisstore.NewRevocationList(rdb)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info().Str("addr", cfg.Redis.Addr).Msg("token revocation enabled")
	}

	var codecOpts []service.CodecOption
	if cfg.Auth.JWTIssuer != "" {
		codecOpts = append(codecOpts, service.WithIssuer(cfg.Auth.JWTIssuer))
	}
	codec, err := service.NewJWTCodec([]byte(cfg.Auth.JWTSecret), cfg.Auth.JWTAlgorithm, codecOpts...)
	if err != nil {
		return err
	}

	hasher := service.NewBcryptHasher(cfg.Auth.BcryptCost)
	resolver := service.NewProfileResolver(store, logger.Component("profile"), service.WithResolverTracing(tp))

	authOpts := []service.AuthOption{service.WithAuthTracing(tp)}
	if revocations != nil {
		authOpts = append(authOpts, service.WithRevocationStore(revocations))
	}
	authService, err := service.NewAuthService(store, hasher, resolver, codec, cfg.TokenTTL(), logger.Component("auth"), authOpts...)
	if err != nil {
		return err
	}
	guard := service.NewSessionGuard(codec, store, revocations, logger.Component("session"), service.WithGuardTracing(tp))

	e := api.NewRouter(api.Dependencies{
		Auth:        authService,
		Guard:       guard,
		Checks:      checks,
		Logger:      logger.Component("http"),
		CORSOrigins: cfg.CORSAllowedOrigins,
	})
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// openStore connects the configured identity store and returns a closer.
func openStore(ctx context.Context, cfg *config.Config) (staffStore, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.StoreTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		closer := func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = client.Disconnect(ctx)
		}
		return mongostore.NewStaffRepository(db, cfg.StoreTimeout), closer, nil
	default:
		db, err := mysqlstore.Connect(ctx, mysqlstore.Config{
			Host:     cfg.MySQL.Host,
			Port:     cfg.MySQL.Port,
			User:     cfg.MySQL.User,
			Password: cfg.MySQL.Password,
			Database: cfg.MySQL.Database,
			Timeout:  cfg.StoreTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return mysqlstore.NewStaffRepository(db, cfg.StoreTimeout), closeQuietly(db), nil
	}
}

func closeQuietly(c io.Closer) func() {
	return func() { _ = c.Close() }
}
