package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Glenne01/sneakers-sub000/cmd"
	"github.com/Glenne01/sneakers-sub000/internal/config"
	"github.com/Glenne01/sneakers-sub000/internal/container"
	"github.com/Glenne01/sneakers-sub000/internal/database"
	"github.com/Glenne01/sneakers-sub000/internal/database/migration"
	"github.com/Glenne01/sneakers-sub000/internal/logger"
	"github.com/Glenne01/sneakers-sub000/internal/middleware"
	"github.com/Glenne01/sneakers-sub000/internal/routes"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Subcommands (migrate) run and exit; the bare binary serves HTTP.
	if len(os.Args) > 1 {
		cmd.Execute()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	zapLogger := logger.NewLogger()
	defer zapLogger.Sync()

	db, err := database.NewPostgresConnection(cfg.Database.URL)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migration.Migrate(cfg.Database.URL, cfg.Database.MigrationsDir, zapLogger); err != nil {
		zapLogger.Fatal("failed to run migrations", zap.Error(err))
	}

	appContainer := container.NewAppContainer(db, cfg, zapLogger)
	if appContainer.Outbox != nil {
		defer appContainer.Outbox.Close()
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RecoveryMiddleware(zapLogger))

	routes.RegisterUtilityRoutes(router)
	routes.RegisterPublicRoutes(router, appContainer)
	routes.RegisterProtectedRoutes(router, appContainer)

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		zapLogger.Info("starting server", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zapLogger.Error("forced shutdown", zap.Error(err))
	}
}
