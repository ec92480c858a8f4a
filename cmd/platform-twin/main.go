package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/AnshRaj112/innerbloom-companion/internal/config"
	"github.com/AnshRaj112/innerbloom-companion/internal/middleware"
	"github.com/AnshRaj112/innerbloom-companion/internal/platformtwin"
)

func main() {
	godotenv.Load()
	cfg := config.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		logger = zap.NewNop()
	}
	defer logger.Sync()

	seed := time.Now().UnixNano()
	if s, err := strconv.ParseInt(os.Getenv("TWIN_SEED"), 10, 64); err == nil {
		seed = s
	}
	store := platformtwin.NewStore(seed)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	platformtwin.NewHandler(store, logger).Routes(r)

	srv := &http.Server{Addr: ":" + cfg.TwinPort, Handler: r, ReadHeaderTimeout: 10 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		logger.Info("platform twin running", zap.String("addr", srv.Addr), zap.Int64("seed", seed))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("twin failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}
