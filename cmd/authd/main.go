package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	auth "github.com/goliatone/go-login"
	"github.com/goliatone/go-login/metrics"
	"github.com/goliatone/go-print"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "authd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := newSlogLogger(os.Stdout, cfg.Debug)
	if cfg.Debug {
		logger.Debug("config: %s", print.MaybePrettyJSON(cfg.Redacted()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg.StoreDSN, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("close store: %v", err)
		}
	}()

	recorder := metrics.NewActivityRecorder()

	app, err := newApp(cfg, store, logger, recorder)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening on %s", cfg.Addr)
		errCh <- app.Listen(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return app.ShutdownWithContext(shutdownCtx)
}

// newApp wires the auth components into a fiber application
func newApp(cfg Config, store auth.CredentialStore, logger auth.Logger, recorder *metrics.ActivityRecorder) (*fiber.App, error) {
	opts := cfg.Options()

	tokenService, err := auth.NewTokenServiceFromConfig(opts, logger)
	if err != nil {
		return nil, err
	}

	auther := auth.NewAuthenticator(store, newHasher(cfg), tokenService, opts).
		WithLogger(logger)

	sinks := auth.MultiActivitySink{activityLogger(logger)}
	if recorder != nil {
		sinks = append(sinks, recorder)
	}
	auther.WithActivitySink(sinks)

	app := fiber.New(fiber.Config{
		AppName:               "authd",
		DisableStartupMessage: true,
		ErrorHandler:          auth.ErrorHandler(logger),
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
	})

	app.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	if recorder != nil {
		app.Get("/metrics", adaptor.HTTPHandler(recorder.Handler()))
	}

	controller := auth.NewAuthController(auther, opts,
		auth.WithControllerLogger(logger),
		auth.WithControllerDebug(cfg.Debug),
	)
	auth.RegisterAuthRoutes(app, controller)

	return app, nil
}

func newHasher(cfg Config) auth.PasswordHasher {
	var hasher auth.PasswordHasher
	switch cfg.Hasher {
	case hasherArgon2id:
		hasher = auth.NewArgon2idHasher(auth.DefaultArgon2idParams())
	default:
		hasher = auth.NewBcryptHasher(cfg.BcryptCost)
	}
	return auth.NewPooledHasher(hasher, cfg.HashWorkers)
}

func corsConfig(origins []string) cors.Config {
	allowCredentials := true
	for _, origin := range origins {
		if strings.TrimSpace(origin) == "*" {
			allowCredentials = false
		}
	}

	return cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     strings.Join([]string{fiber.MethodGet, fiber.MethodPost, fiber.MethodOptions}, ","),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: allowCredentials,
	}
}
