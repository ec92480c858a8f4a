package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/AnshRaj112/innerbloom-companion/internal/config"
	"github.com/AnshRaj112/innerbloom-companion/internal/database"
	"github.com/AnshRaj112/innerbloom-companion/internal/feeds"
	"github.com/AnshRaj112/innerbloom-companion/internal/flags"
	"github.com/AnshRaj112/innerbloom-companion/internal/gateway"
	"github.com/AnshRaj112/innerbloom-companion/internal/handlers"
	"github.com/AnshRaj112/innerbloom-companion/internal/middleware"
	"github.com/AnshRaj112/innerbloom-companion/internal/models"
	"github.com/AnshRaj112/innerbloom-companion/internal/rewards"
	"github.com/AnshRaj112/innerbloom-companion/internal/routes"
	"github.com/AnshRaj112/innerbloom-companion/internal/services"
	"github.com/AnshRaj112/innerbloom-companion/internal/session"
	"github.com/AnshRaj112/innerbloom-companion/pkg/utils"
)

func newLogger(production bool) *zap.Logger {
	var logger *zap.Logger
	var err error
	if production {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()
	logger := newLogger(cfg.IsProduction())
	defer logger.Sync()
	if envErr != nil {
		logger.Info("no .env file found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sealer := snapshotSealer(cfg, logger)
	store := flagsStore(ctx, cfg, logger)
	defer database.DisconnectRedis()
	defer database.DisconnectPostgres()
	fl := flags.New(store, nil, sealer, logger)

	ledger := activityLedger(cfg, logger)
	defer database.Disconnect()

	client := gateway.New(cfg.PlatformAPIBase, cfg.PlatformTimeout, logger)
	sess := session.New(session.Config{Flags: fl, Remote: client, Ledger: ledger, Logger: logger})
	defer sess.Close()

	// The event relay reuses the Redis connection when one is open.
	hub := services.NewEventHub(database.RedisClient, logger)
	publish := func(e services.Event) { hub.Publish(context.Background(), e) }

	engineCfg := rewards.Config{Session: sess, Flags: fl, Logger: logger}
	if cfg.RewardMode == "remote" {
		engineCfg.Remote = client
	}
	engine := rewards.New(engineCfg)
	engine.OnRandom(func(o models.RewardOffer) {
		publish(services.Event{Type: services.EventRandomReward, Screen: feeds.ScreenRewards, Data: o})
	})
	sess.Subscribe(func(u *models.User) {
		publish(services.Event{Type: services.EventUserUpdated, Data: u})
	})

	opts := feeds.Options{
		Logger: logger,
		Notify: func(screen, feed string) {
			typ := services.EventFeedUpdated
			if feed == feeds.FeedOfferExpired {
				typ = services.EventOfferExpired
			}
			publish(services.Event{Type: typ, Screen: screen, Feed: feed})
		},
	}
	screens := feeds.NewRegistry(
		feeds.NewSocialProof(client, opts),
		feeds.NewRewardsScreen(client, engine, opts),
		feeds.NewProfileScreen(client, sess, opts),
	)
	defer screens.UnmountAll()
	defer engine.StopRandom()

	var cache services.Cache = services.NewMemoryCache(nil)
	if database.RedisClient != nil {
		cache = services.NewRedisCache(database.RedisClient)
	}
	stats := services.NewStatsService(client, cache, logger)

	var archive services.GuideArchive
	if cfg.CloudinaryEnabled() {
		cld, err := services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		if err != nil {
			logger.Warn("cloudinary unavailable, guides will not be archived", zap.Error(err))
		} else {
			archive = cld
			logger.Info("cloudinary guide archive enabled", zap.String("folder", cfg.CloudinaryFolder))
		}
	}

	// Session start: restore the user, open the daily gate, warm the stats.
	startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if u := sess.Restore(startCtx); u != nil {
		logger.Info("session restored", zap.String("user_id", u.ID), zap.Int("points", u.Points))
	}
	if available, err := engine.CheckDaily(startCtx); err != nil {
		logger.Warn("daily reward check failed", zap.Error(err))
	} else {
		logger.Info("daily reward checked", zap.Bool("available", available))
	}
	if _, err := stats.Stats(startCtx, false); err != nil {
		logger.Warn("loading platform stats failed", zap.Error(err))
	}
	cancel()

	hub.StartRelay(ctx)
	limiters := middleware.NewLimiters()
	go limiters.Global.RunCleanup(ctx)
	go limiters.Login.RunCleanup(ctx)
	go limiters.Chat.RunCleanup(ctx)

	h := &handlers.Handler{
		Session:     sess,
		Ledger:      ledger,
		Onboarding:  services.NewOnboarding(fl, sess),
		Affirmation: services.NewDailyAffirmation(fl, client, sess, logger),
		Stats:       stats,
		Companion:   services.NewCompanion(client, sess, archive, logger),
		Rewards:     engine,
		Screens:     screens,
		Hub:         hub,
		Logger:      logger,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity(cfg.AllowedHost, limiters) {
			r.Use(mw)
		}
		logger.Info("production security enabled")
	}
	r.Use(middleware.Limit(limiters.Chat, middleware.IsChat, "You're chatting fast, sister. Take a breath."))
	routes.SetupRoutes(r, h)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("inner bloom companion running",
			zap.String("addr", srv.Addr),
			zap.String("platform", cfg.PlatformAPIBase),
			zap.String("flags_backend", cfg.FlagsBackend),
			zap.String("ledger_backend", cfg.LedgerBackend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}

func snapshotSealer(cfg *config.Config, logger *zap.Logger) *utils.Sealer {
	if cfg.EncryptionKey == "" {
		logger.Warn("ENCRYPTION_KEY not set, user snapshots are stored unsealed")
		return nil
	}
	master, err := utils.ParseEncryptionKey(cfg.EncryptionKey)
	if err != nil {
		logger.Warn("ENCRYPTION_KEY is invalid, user snapshots are stored unsealed", zap.Error(err))
		return nil
	}
	sealer, err := utils.NewSealer(master, "user-snapshot")
	if err != nil {
		logger.Warn("creating snapshot sealer failed", zap.Error(err))
		return nil
	}
	return sealer
}

// flagsStore opens the configured backend and falls back to memory when it is
// unreachable.
func flagsStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) flags.Store {
	switch cfg.FlagsBackend {
	case config.BackendRedis:
		if err := database.ConnectRedis(cfg.RedisURI, logger); err != nil {
			logger.Warn("redis unavailable, flags kept in memory", zap.Error(err))
			return flags.NewMemoryStore()
		}
		return flags.NewRedisStore(database.RedisClient)
	case config.BackendPostgres:
		if err := database.ConnectPostgres(cfg.PostgresURI, logger); err != nil {
			logger.Warn("postgres unavailable, flags kept in memory", zap.Error(err))
			return flags.NewMemoryStore()
		}
		if err := database.InitPostgresTables(ctx, logger); err != nil {
			logger.Warn("creating flags table failed, flags kept in memory", zap.Error(err))
			return flags.NewMemoryStore()
		}
		return flags.NewPostgresStore(database.PostgresDB)
	default:
		return flags.NewMemoryStore()
	}
}

func activityLedger(cfg *config.Config, logger *zap.Logger) services.ActivityLedger {
	if cfg.LedgerBackend != config.BackendMongo {
		return services.NewMemoryLedger()
	}
	if err := database.Connect(cfg.MongoURI, logger); err != nil {
		logger.Warn("mongodb unavailable, activity ledger kept in memory", zap.Error(err))
		return services.NewMemoryLedger()
	}
	return services.NewMongoLedger(database.DB)
}
