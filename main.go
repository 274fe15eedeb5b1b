// file: main.go
package main

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"go-refdata/config"
	"go-refdata/controllers"
	"go-refdata/database"
	"go-refdata/logger"
	"go-refdata/metrics"
	"go-refdata/middleware"
	"go-refdata/repository"
	"go-refdata/services"
	"go-refdata/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// SetupRouter builds the engine: recovery, request logging, security headers,
// gzip, sessions, templates and every route.
func SetupRouter(store sessions.Store, deps controllers.Deps) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.RequestID(), middleware.SecurityHeaders())
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/health"})))
	router.Use(sessions.Sessions(session.CookieName, store))

	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	controllers.RegisterRoutes(router, deps)
	return router, nil
}

func main() {
	if err := run(); err != nil {
		logger.Errorf("[main] %v", err)
		logger.CloseLogger()
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.InitLogger(cfg.LogDir, logger.LevelFor(cfg.Env)); err != nil {
		return err
	}
	defer logger.CloseLogger()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg.DatabaseURL, !cfg.IsProduction())
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	pub, err := metrics.New(cfg.MetricsEnabled, cfg.AWSRegion, cfg.MetricsNamespace)
	if err != nil {
		return err
	}

	users := repository.NewUserRepository(db.Gorm)
	records := repository.NewRecordRepository(db.SQL)
	auth := services.NewAuthService(users, services.BcryptHasher{Cost: bcrypt.DefaultCost}, pub)

	if err := auth.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return err
	}

	store, err := session.NewStore(cfg)
	if err != nil {
		return err
	}

	router, err := SetupRouter(store, controllers.Deps{
		Auth:    auth,
		Records: services.NewRecordService(records, users, pub),
		Metrics: pub,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("[main] listening on %s (%s)", srv.Addr, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("[main] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
