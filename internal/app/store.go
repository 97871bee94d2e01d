package app

import (
	"context"
	"fmt"

	"storefront/internal/config"
	"storefront/internal/repositories"

	"go.uber.org/zap"
)

// OpenRepositories connects the storage backend named by cfg.DBDriver.
func OpenRepositories(ctx context.Context, cfg *config.Config, log *zap.Logger) (*repositories.Repositories, error) {
	switch cfg.DBDriver {
	case "memory":
		log.Info("using in-memory storage")
		return repositories.NewMemoryRepositories(), nil
	case "sqlite", "postgres", "mysql":
		db, err := repositories.OpenGORM(cfg.DBDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		log.Info("connected to relational database", zap.String("driver", cfg.DBDriver))
		return repositories.NewGORMRepositories(db), nil
	case "mongo":
		client, db, err := repositories.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := repositories.EnsureMongoIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info("connected to MongoDB", zap.String("database", cfg.MongoDatabase))
		return repositories.NewMongoRepositories(client, db), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
}
