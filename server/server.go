package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/superpiccell/spen-minter/config"
	"github.com/superpiccell/spen-minter/middleware"
	"github.com/superpiccell/spen-minter/service/logger"
)

const shutdownTimeout = 10 * time.Second

// CoreInit builds the router for the app. This is abstracted so tests can build the router
// around fake pages.
func CoreInit(cfg *config.Config, h Handlers) *gin.Engine {
	logger.For(context.Background()).Info("initializing server...")

	if cfg.AppEnv != "production" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(
		middleware.Sentry(true),
		middleware.RequestID(),
		middleware.HandleCORS(cfg.AllowedOrigins),
		middleware.GinContextToContext(),
		middleware.ErrLogger(),
	)

	return handlersInit(router, cfg, h)
}

// Serve runs the HTTP API until ctx is cancelled, then shuts it down gracefully
func Serve(ctx context.Context, app *App) error {
	stop := app.MintPage.Start(ctx)
	defer stop()

	router := CoreInit(app.Config, Handlers{
		MintPage: app.MintPage,
		NFTList:  app.NFTList,
		Burner:   app.Burner,
		Session:  app.Session,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", app.Config.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.For(ctx).Infof("listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.For(ctx).Info("shutting down server")
	return srv.Shutdown(shutdownCtx)
}
