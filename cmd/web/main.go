package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"speedwaymoto.fr/storefront-web/internal/catalog"
	"speedwaymoto.fr/storefront-web/internal/cms"
	"speedwaymoto.fr/storefront-web/internal/config"
	handlersPkg "speedwaymoto.fr/storefront-web/internal/handlers"
	"speedwaymoto.fr/storefront-web/internal/i18n"
	"speedwaymoto.fr/storefront-web/internal/logging"
	mw "speedwaymoto.fr/storefront-web/internal/middleware"
)

var (
	templatesDir = "templates"
	publicDir    = "public"
	// devMode reparses templates on every request
	devMode   bool
	tmplCache *templateSet

	i18nBundle   *i18n.Bundle
	catalogStore *catalog.Store
	contentPages *cms.Pages
	analytics    handlersPkg.Analytics
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		boot := logging.New("info", "json", os.Stderr)
		boot.Fatal().Err(err).Msg("load config")
	}

	// Flags override the environment
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	flag.StringVar(&cfg.TemplatesDir, "templates", cfg.TemplatesDir, "templates directory")
	flag.StringVar(&cfg.PublicDir, "public", cfg.PublicDir, "public assets directory")
	flag.Parse()

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	templatesDir = cfg.TemplatesDir
	publicDir = cfg.PublicDir
	devMode = cfg.Dev

	if !devMode {
		// Parse templates once in production
		tc, err := parseTemplates()
		if err != nil {
			logger.Fatal().Err(err).Msg("parse templates")
		}
		tmplCache = tc
	}

	i18nBundle, err = i18n.Load(cfg.LocalesDir, cfg.DefaultLang, []string{"fr", "en"})
	if err != nil {
		logger.Fatal().Err(err).Msg("load locales")
	}

	registry, err := catalog.LoadManifest(cfg.CatalogManifest)
	if err != nil {
		logger.Fatal().Err(err).Msg("load catalog manifest")
	}
	assets, err := catalog.LoadAssetManifest(publicDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("scan product images")
	}
	client := catalog.NewClient(registry, cfg.CatalogBaseURL, cfg.CatalogDir,
		catalog.WithTimeout(cfg.CatalogTimeout),
		catalog.WithLogger(logger),
		catalog.WithTelemetry(catalog.NewTelemetry(nil, nil)),
	)
	catalogStore = catalog.NewStore(client, registry, assets, cfg.CatalogSnapshotTTL)
	contentPages = cms.NewPages(cfg.ContentDir, cfg.DefaultLang, "fr", "en")
	analytics = handlersPkg.LoadAnalyticsFromEnv()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP. Ensure only trusted proxies
	// can set these headers in production environments.
	r.Use(middleware.RealIP)
	r.Use(mw.HTMX)
	r.Use(mw.Session)
	r.Use(mw.Locale(i18nBundle))
	r.Use(mw.CSRF)
	r.Use(mw.VaryLocale)
	r.Use(mw.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(middleware.Timeout(30 * time.Second))
	mountRoutes(r)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	logger.Info().
		Str("addr", cfg.Addr).
		Bool("dev", devMode).
		Bool("remote_catalog", cfg.RemoteCatalog()).
		Int("images", assets.Len()).
		Msg("web listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("listen")
	}
}

// mountRoutes registers every storefront route on r.
func mountRoutes(r chi.Router) {
	r.NotFound(NotFoundHandler)

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})

	// Static assets and the raw catalog documents
	r.Handle("/assets/*", http.StripPrefix("/assets", mw.AssetsWithCache(filepath.Join(publicDir, "assets"), 7*24*time.Hour)))
	r.Handle("/Product-details/*", http.StripPrefix("/Product-details", mw.AssetsWithCache(filepath.Join(publicDir, "Product-details"), 5*time.Minute)))

	// Catalog pages report fetch timings
	r.Group(func(r chi.Router) {
		r.Use(mw.ServerTiming)
		r.Get("/", HomeHandler)
		for _, def := range catalogStore.Registry().All() {
			r.Get(def.Path, categoryPage(def, true))
			r.Get(def.Path+"/grid", categoryGrid(def, true))
		}
		r.Get("/category/{slug}", CategoryHandler)
		r.Get("/category/{slug}/grid", CategoryGridHandler)
		r.Get("/api/catalog/{slug}", CatalogAPIHandler)
		r.Get("/product", ProductMissingHandler)
		r.Get("/product/{slug}/{id}", ProductHandler)
	})

	r.Get("/contact", ContactHandler)
	r.Post("/contact", ContactSubmitHandler)
	r.Get("/pages/{slug}", ContentPageHandler)
}
