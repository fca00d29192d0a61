package cmd

import (
	"context"
	"fmt"

	"github.com/kozaktomas/faceid/internal/config"
	"github.com/kozaktomas/faceid/internal/inference"
	"github.com/kozaktomas/faceid/internal/recognition"
	"github.com/kozaktomas/faceid/internal/store"
	"github.com/kozaktomas/faceid/internal/store/postgres"
)

// newService wires the inference gateway, the embedding store and the
// recognition workflows from config. The model server must be reachable
// and agree on the embedding dimension; anything else is a startup error.
// The returned cleanup releases the store backend.
func newService(ctx context.Context, cfg *config.Config) (*recognition.Service, func(), error) {
	client := inference.NewClient(cfg.Model.URL, cfg.Model.Name)
	if err := client.Ping(ctx, cfg.Model.Dim); err != nil {
		return nil, nil, fmt.Errorf("model server at %s is not usable: %w", cfg.Model.URL, err)
	}

	session, err := inference.NewSession(client, client, cfg.Model.Dim)
	if err != nil {
		return nil, nil, fmt.Errorf("creating inference session: %w", err)
	}

	st, cleanup, err := newStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	var archive *recognition.CropArchive
	if cfg.Store.ArchiveCrops {
		archive, err = recognition.NewCropArchive(cfg.Store.UploadsDir)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("creating crop archive: %w", err)
		}
	}

	svc := recognition.NewService(session, st, cfg.Model.ImageSize, cfg.Model.Threshold, archive)
	return svc, cleanup, nil
}

// newStore selects the store backend: pgvector-backed PostgreSQL when
// DATABASE_URL is set, the directory store otherwise.
func newStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	if cfg.Database.URL != "" {
		pool, err := postgres.NewPool(&cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to PostgreSQL: %w", err)
		}
		if err := pool.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		fmt.Println("Using PostgreSQL embedding store")
		return postgres.NewRepository(pool, cfg.Model.Dim), func() { pool.Close() }, nil
	}

	st, err := store.NewDirStore(cfg.Store.Dir, cfg.Model.Dim)
	if err != nil {
		return nil, nil, fmt.Errorf("opening embeddings directory: %w", err)
	}
	return st, func() {}, nil
}
