// Package storage opens the repositories selected by the configuration.
package storage

import (
	"context"
	"fmt"

	"github.com/ArowuTest/draws-backend/internal/config"
	"github.com/ArowuTest/draws-backend/internal/repositories"
	"github.com/ArowuTest/draws-backend/internal/repositories/memory"
	mongorepo "github.com/ArowuTest/draws-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/draws-backend/pkg/mongodb"
	"golang.org/x/exp/slog"
)

// Repositories groups every repository the services need
type Repositories struct {
	Draws        repositories.DrawRepository
	Results      repositories.ResultRepository
	SecretSantas repositories.SecretSantaRepository

	close func(ctx context.Context) error
}

// Close releases the underlying connection, if any
func (r *Repositories) Close(ctx context.Context) error {
	if r.close == nil {
		return nil
	}
	return r.close(ctx)
}

// Open builds the repositories for cfg.Storage.Driver. MongoDB indexes are
// created on the way.
func Open(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		slog.Warn("Using in-memory storage, data is lost on restart")
		return &Repositories{
			Draws:        memory.NewDrawRepository(),
			Results:      memory.NewResultRepository(),
			SecretSantas: memory.NewSecretSantaRepository(),
		}, nil
	case config.DriverMongoDB:
		client, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDB.Database)
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &Repositories{
			Draws:        mongorepo.NewDrawRepository(db),
			Results:      mongorepo.NewResultRepository(db),
			SecretSantas: mongorepo.NewSecretSantaRepository(db),
			close:        client.Disconnect,
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
