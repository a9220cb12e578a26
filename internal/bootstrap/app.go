package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"ponder/internal/config"
	"ponder/internal/model"
	"ponder/internal/platform/logger"
	redisClient "ponder/internal/platform/redis"
	sqliteClient "ponder/internal/platform/sqlite"
	"ponder/internal/seed"
)

type App struct {
	Config *config.Config
	Log    zerolog.Logger
	DB     *gorm.DB
	// Redis is nil when no addr is configured; the catalog cache is then
	// disabled and every read goes to SQLite.
	Redis *redis.Client

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	log := logger.New(cfg.App.Name, cfg.App.Env)

	db, err := sqliteClient.New(ctx, cfg.SQLite.Path)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Question{},
		&model.ThoughtEntry{},
		&model.QuestionSeries{},
		&model.SeriesQuestion{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}
	if err := seed.Run(db); err != nil {
		return nil, fmt.Errorf("seed database failed: %w", err)
	}

	var redisCli *redis.Client
	if cfg.Redis.Addr != "" {
		redisCli, err = redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("catalog cache enabled")
	} else {
		log.Info().Msg("catalog cache disabled, no redis addr configured")
	}

	return &App{
		Config:    cfg,
		Log:       log,
		DB:        db,
		Redis:     redisCli,
		StartedAt: time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
