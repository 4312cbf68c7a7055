// Package httpapi is the HTTP façade over the demo core: wallet, marketplace,
// chat, and streaming endpoints consumed by the Bloompad front-end.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DrDeranged/bloompad-final3/internal/catalog"
	"github.com/DrDeranged/bloompad-final3/internal/chat"
	"github.com/DrDeranged/bloompad-final3/internal/eventbus"
	"github.com/DrDeranged/bloompad-final3/internal/session"
	"github.com/DrDeranged/bloompad-final3/internal/streaming"
	"github.com/DrDeranged/bloompad-final3/pkg/wallet"
)

// Dependencies carries the wired core components the façade serves.
type Dependencies struct {
	Logger    *zap.Logger
	Wallet    *wallet.Service
	Catalog   *catalog.Service
	Assistant *chat.Assistant
	Streams   streaming.Provider
	Sessions  *session.Manager
	Bus       *eventbus.Bus
}

func (deps Dependencies) validate() error {
	if deps.Logger == nil {
		return fmt.Errorf("httpapi: logger dependency is nil")
	}
	if deps.Wallet == nil {
		return fmt.Errorf("httpapi: wallet dependency is nil")
	}
	if deps.Catalog == nil {
		return fmt.Errorf("httpapi: catalog dependency is nil")
	}
	if deps.Assistant == nil {
		return fmt.Errorf("httpapi: assistant dependency is nil")
	}
	if deps.Streams == nil {
		return fmt.Errorf("httpapi: stream provider dependency is nil")
	}
	if deps.Sessions == nil {
		return fmt.Errorf("httpapi: session manager dependency is nil")
	}
	if deps.Bus == nil {
		return fmt.Errorf("httpapi: command bus dependency is nil")
	}
	return nil
}

// Run boots the HTTP façade and blocks until the context is canceled or the
// listener fails.
func Run(ctx context.Context, cfg Config, deps Dependencies) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := deps.validate(); err != nil {
		return err
	}

	handler := &httpHandler{
		logger:    deps.Logger,
		wallet:    deps.Wallet,
		catalog:   deps.Catalog,
		assistant: deps.Assistant,
		streams:   deps.Streams,
		sessions:  deps.Sessions,
		bus:       deps.Bus,
	}

	router := setupRouter(cfg, handler)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		deps.Logger.Info("bloompad api listening", zap.String("addr", cfg.ListenAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
			deps.Logger.Warn("server shutdown error", zap.Error(shutdownErr))
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func setupRouter(cfg Config, handler *httpHandler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Origin", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	api.GET("/tokens", handler.handleTokens)
	api.POST("/tokens", handler.handleCreateToken)
	api.GET("/wallet", handler.handleWallet)
	api.POST("/wallet/connect", handler.handleConnect)
	api.POST("/wallet/disconnect", handler.handleDisconnect)
	api.POST("/wallet/purchases", handler.handlePurchase)
	api.POST("/events", handler.handleEvent)
	api.POST("/chat", handler.handleChat)
	api.GET("/chat/:session", handler.handleChatHistory)
	api.GET("/streams", handler.handleStreams)
	api.POST("/streams", handler.handleCreateStream)

	return router
}
