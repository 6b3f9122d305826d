package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yukikurage/kanban-api/internal/auth"
	"github.com/yukikurage/kanban-api/internal/authz"
	"github.com/yukikurage/kanban-api/internal/config"
	"github.com/yukikurage/kanban-api/internal/database"
	"github.com/yukikurage/kanban-api/internal/notify"
	"github.com/yukikurage/kanban-api/internal/repository"
	"github.com/yukikurage/kanban-api/internal/router"
	"github.com/yukikurage/kanban-api/internal/services"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kanban",
		Short:         "Multi-tenant Kanban board API",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			_, err = openDatabase(cfg, logger)
			return err
		},
	})

	return root
}

// bootstrap loads .env, the configuration and the logger.
func bootstrap() (*config.Config, *logrus.Logger, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("failed to load .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger := logrus.StandardLogger()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if cfg.IsProduction() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return cfg, logger, nil
}

func openDatabase(cfg *config.Config, logger *logrus.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	logger.Info("database ready")
	return db, nil
}

func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	if cfg.SessionStore == "cookie" {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	} else {
		rs, err := redisStore.NewStore(
			10,
			"tcp",
			cfg.RedisAddr(),
			"",
			cfg.RedisPassword,
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis session store: %w", err)
		}
		store = rs
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

func runServe(ctx context.Context) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	gin.SetMode(cfg.GinMode)

	db, err := openDatabase(cfg, logger)
	if err != nil {
		return err
	}
	store := repository.NewStore(db, repository.WithMaxAttempts(cfg.TxMaxAttempts))

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()

	sessionStore, err := newSessionStore(cfg)
	if err != nil {
		return err
	}

	dispatcher := notify.NewDispatcher(notify.Config{
		Workers:     cfg.NotifyWorkers,
		Buffer:      cfg.NotifyBuffer,
		MaxAttempts: cfg.NotifyMaxAttempts,
	}, logger,
		notify.NewStoreSink(store),
		notify.NewRedisSink(redisClient, cfg.NotifyChannelPrefix),
	)

	issuer, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return err
	}

	var generator services.TaskGenerator
	if cfg.OpenAIAPIKey != "" {
		generator = services.NewAIService(cfg.OpenAIAPIKey)
	} else {
		logger.Warn("OPENAI_API_KEY is not set, task generation is disabled")
	}

	engine := router.New(router.Deps{
		Logger:        logger,
		SessionStore:  sessionStore,
		Issuer:        issuer,
		Authority:     authz.NewAuthority(store),
		Origins:       cfg.Origins(),
		Auth:          services.NewAuthService(store.Users),
		Boards:        services.NewBoardService(store, dispatcher),
		Columns:       services.NewColumnService(store),
		Tasks:         services.NewTaskService(store, generator),
		Tags:          services.NewTagService(store),
		Notifications: services.NewNotificationService(store),
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.Handler(engine),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.WithField("addr", srv.Addr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	dispatcher.Close()
	stats := dispatcher.Stats()
	logger.WithFields(logrus.Fields{
		"delivered": stats.Delivered,
		"failed":    stats.Failed,
		"dropped":   stats.Dropped,
	}).Info("notification dispatcher stopped")
	return err
}
