package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adanyl0v/taskflow/internal/config"
	mongostorage "github.com/adanyl0v/taskflow/internal/storage/mongo"
	"github.com/adanyl0v/taskflow/internal/storage/postgres"
)

func (a *App) MustConnectStorage() {
	switch a.cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		a.mustConnectPostgres()
	case config.StorageDriverMongo:
		a.mustConnectMongo()
	default:
		panic(fmt.Errorf("unknown storage driver: %s", a.cfg.Storage.Driver))
	}
}

func (a *App) mustConnectPostgres() {
	cfg := a.cfg.Postgres
	connURL := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Username, cfg.Password, cfg.Host,
		cfg.Port, cfg.Database, cfg.SSLMode)

	poolCfg, err := pgxpool.ParseConfig(connURL)
	if err != nil {
		a.logger.Error().
			Err(err).
			Msg("failed to parse postgres config")
		panic(err)
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		a.logger.Error().
			Err(err).
			Msg("failed to connect to postgres")
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	err = pool.Ping(ctx)
	if err != nil {
		a.logger.Error().
			Err(err).
			Msg("failed to ping postgres")
		panic(err)
	}
	a.logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Msg("connected to postgres")

	store := postgres.New(a.logger, pool)
	err = store.Migrate(ctx)
	if err != nil {
		a.logger.Error().
			Err(err).
			Msg("failed to migrate postgres schema")
		panic(err)
	}
	a.storage = store
}

func (a *App) mustConnectMongo() {
	cfg := a.cfg.Mongo

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout))
	if err != nil {
		a.logger.Error().
			Err(err).
			Msg("failed to connect to mongo")
		panic(err)
	}

	store := mongostorage.New(a.logger, client, cfg.Database)
	err = store.Ping(ctx)
	if err != nil {
		a.logger.Error().
			Err(err).
			Msg("failed to ping mongo")
		panic(err)
	}
	a.logger.Info().
		Str("database", cfg.Database).
		Msg("connected to mongo")

	err = store.EnsureIndexes(ctx)
	if err != nil {
		a.logger.Error().
			Err(err).
			Msg("failed to create mongo indexes")
		panic(err)
	}
	a.storage = store
}

func (a *App) CloseStorage() {
	if a.storage == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
	defer cancel()

	err := a.storage.Close(ctx)
	if err != nil {
		a.logger.Error().
			Err(err).
			Msg("failed to close storage")
		return
	}
	a.logger.Info().Msg("closed storage")
}
