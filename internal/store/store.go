// Package store opens the configured backend and hands out its
// repositories behind the repo interfaces.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/geocoder89/worklog/internal/config"
	"github.com/geocoder89/worklog/internal/db"
	"github.com/geocoder89/worklog/internal/domain/user"
	"github.com/geocoder89/worklog/internal/observability"
	"github.com/geocoder89/worklog/internal/repo"
	"github.com/geocoder89/worklog/internal/repo/memory"
	"github.com/geocoder89/worklog/internal/repo/mongodb"
	"github.com/geocoder89/worklog/internal/repo/postgres"
)

type Store struct {
	Driver    string
	Users     repo.Users
	Workouts  repo.Workouts
	Templates repo.Templates

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

func Open(ctx context.Context, cfg config.Config, prom *observability.Prom, log *slog.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, prom, log)
	case config.DriverMongo:
		return openMongo(ctx, cfg, prom, log)
	case config.DriverMemory:
		log.Warn("using in-memory store, data is lost on restart")
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, cfg.StoreDriver)
	}
}

func NewMemory() *Store {
	return &Store{
		Driver:    config.DriverMemory,
		Users:     memory.NewUsersRepo(),
		Workouts:  memory.NewWorkoutsRepo(),
		Templates: memory.NewTemplatesRepo(),
	}
}

func openPostgres(ctx context.Context, cfg config.Config, prom *observability.Prom, log *slog.Logger) (*Store, error) {
	pool, err := db.NewPool(ctx, cfg.DBURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := db.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}
	log.Info("postgres ready")

	return &Store{
		Driver:    config.DriverPostgres,
		Users:     postgres.NewUsersRepo(pool, prom),
		Workouts:  postgres.NewWorkoutsRepo(pool, prom),
		Templates: postgres.NewTemplatesRepo(pool, prom),
		ping:      pool.Ping,
		close: func(context.Context) error {
			pool.Close()
			return nil
		},
	}, nil
}

func openMongo(ctx context.Context, cfg config.Config, prom *observability.Prom, log *slog.Logger) (*Store, error) {
	client, err := mongodb.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	database := client.Database(cfg.MongoDB)
	if err := mongodb.EnsureIndexes(ctx, database); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo indexes: %w", err)
	}
	log.Info("mongo ready", "db", cfg.MongoDB)

	return &Store{
		Driver:    config.DriverMongo,
		Users:     mongodb.NewUsersRepo(database, prom),
		Workouts:  mongodb.NewWorkoutsRepo(database, prom),
		Templates: mongodb.NewTemplatesRepo(database, prom),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		close: client.Disconnect,
	}, nil
}

// Ping reports backend health; the memory store is always up.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

type hasher interface {
	Hash(plain string) (string, error)
}

// EnsureSeedUser creates the development account when both values are set.
// An existing account with that email is left alone.
func EnsureSeedUser(ctx context.Context, users repo.Users, h hasher, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}

	hash, err := h.Hash(password)
	if err != nil {
		return false, err
	}

	if _, err := users.Create(ctx, email, hash); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
