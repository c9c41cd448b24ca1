package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sankatmochan/rx/internal/config"
	"github.com/sankatmochan/rx/internal/domain/prescription"
	"github.com/sankatmochan/rx/internal/domain/prescription/document"
	"github.com/sankatmochan/rx/internal/platform/auth"
	"github.com/sankatmochan/rx/internal/platform/cache"
	"github.com/sankatmochan/rx/internal/platform/db"
	"github.com/sankatmochan/rx/internal/platform/middleware"
)

// pdfCacheNamespace prefixes rendered-document keys in the shared cache.
const pdfCacheNamespace = "rx:pdf:"

// cacheSweepInterval is how often the in-process document cache drops
// expired PDFs.
const cacheSweepInterval = 5 * time.Minute

func main() {
	rootCmd := &cobra.Command{
		Use:          "rx-server",
		Short:        "Prescription record and PDF service",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(renderCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the prescription API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func newLogger(env string) zerolog.Logger {
	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// store bundles the record repository with the health check of the same
// connection pool.
type store struct {
	repo   prescription.Repository
	health db.Checker
	close  func()
}

func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	switch cfg.DBDriver {
	case config.DriverMySQL:
		conn, err := db.OpenMySQL(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, err
		}
		return &store{
			repo:   prescription.NewRepoMySQL(conn),
			health: db.MySQLChecker(conn),
			close:  func() { conn.Close() },
		}, nil
	default:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, err
		}
		return &store{
			repo:   prescription.NewRepoPG(pool),
			health: db.PostgresChecker(pool),
			close:  pool.Close,
		}, nil
	}
}

// openDocumentCache uses redis when REDIS_URL is set and a process-local map
// otherwise. A zero TTL disables caching. The local map is swept until ctx is
// cancelled.
func openDocumentCache(ctx context.Context, cfg *config.Config) (cache.Store, error) {
	if cfg.PDFCacheTTL == 0 {
		return cache.Nop{}, nil
	}
	if cfg.RedisURL == "" {
		m := cache.NewMemory()
		m.StartCleanup(ctx, cacheSweepInterval)
		return m, nil
	}
	return cache.NewRedis(ctx, cfg.RedisURL)
}

// newRenderer builds the renderer both serve and render use. opts are applied
// after the configured theme, branding and fonts.
func newRenderer(cfg *config.Config, opts ...document.Option) (*document.Renderer, error) {
	theme, err := document.ThemeByName(cfg.PDFTheme)
	if err != nil {
		return nil, err
	}
	fonts, err := document.LoadFonts(cfg.FontRegular, cfg.FontBold, cfg.FontItalic)
	if err != nil {
		return nil, err
	}
	base := []document.Option{
		document.WithBranding(document.Branding{
			ClinicName:    cfg.ClinicName,
			ClinicAddress: cfg.ClinicAddress,
			Contact:       cfg.ClinicContact,
			PlatformLabel: cfg.PlatformLabel,
		}),
		document.WithFonts(fonts),
	}
	return document.NewRenderer(theme, append(base, opts...)...), nil
}

func authMiddleware(ctx context.Context, cfg *config.Config) (echo.MiddlewareFunc, error) {
	jwtCfg := auth.JWTConfig{
		Issuer:     cfg.AuthIssuer,
		Audience:   cfg.AuthAudience,
		JWKSURL:    cfg.AuthJWKSURL,
		SigningKey: []byte(cfg.AuthSigningKey),
		Skipper:    auth.AuthSkipper,
	}
	if cfg.ResolvedAuthMode() == config.AuthModeDevelopment {
		return auth.DevAuthMiddleware(jwtCfg), nil
	}
	url, err := auth.ResolveJWKSURL(ctx, jwtCfg)
	if err != nil {
		return nil, fmt.Errorf("resolve jwks url: %w", err)
	}
	jwtCfg.JWKSURL = url
	return auth.JWTMiddleware(jwtCfg), nil
}

// newServer assembles the router. It performs no I/O so that tests can drive
// it with in-memory collaborators.
func newServer(cfg *config.Config, logger zerolog.Logger, svc *prescription.Service, health db.Checker, authMW echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost},
		AllowHeaders:  []string{echo.HeaderAuthorization, echo.HeaderContentType, middleware.RequestIDHeader},
		ExposeHeaders: []string{echo.HeaderContentDisposition, middleware.RequestIDHeader},
	}))
	e.Use(authMW)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/health/db", db.HealthHandler(health))

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1 := e.Group("/api/v1", middleware.RateLimit(rateLimitCfg), middleware.RequestTimeout(30*time.Second))

	prescription.NewHandler(svc).RegisterRoutes(apiV1)
	return e
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Env)
	if err := cfg.Validate(); err != nil {
		logger.Error().Err(err).Msg("invalid configuration")
		return err
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Str("driver", cfg.DBDriver).Msg("failed to connect to database")
		return err
	}
	defer st.close()
	logger.Info().Str("driver", cfg.DBDriver).Msg("connected to database")

	docs, err := openDocumentCache(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to document cache")
		return err
	}
	defer docs.Close()

	renderer, err := newRenderer(cfg)
	if err != nil {
		return err
	}

	authMW, err := authMiddleware(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("failed to configure authentication")
		return err
	}

	svc := prescription.NewService(st.repo, prescription.NewRandomIDGenerator(cfg.IDPrefix), renderer, logger)
	svc.SetDocumentCache(docs, cfg.PDFCacheTTL, pdfCacheNamespace)

	e := newServer(cfg, logger, svc, st.health, authMW)

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("theme", renderer.Theme().Name).Msg("starting server")
		var err error
		if cfg.TLSEnabled {
			err = e.StartTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = e.Start(addr)
		}
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
		return err
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
