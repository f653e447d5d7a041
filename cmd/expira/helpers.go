package main

import (
	"context"
	"fmt"

	"github.com/Duckhouse1/expira/internal/backend"
	"github.com/Duckhouse1/expira/internal/config"
	"github.com/Duckhouse1/expira/internal/service"
	"github.com/Duckhouse1/expira/internal/storage"
	"github.com/Duckhouse1/expira/internal/vault"
)

// initStorage opens the local database and runs pending migrations.
func initStorage(ctx context.Context) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initVault wires the backend client, session store and snapshot cache
// into a vault service.
func initVault(cache service.Storage) (*vault.Service, *backend.Client, error) {
	backendCfg, err := config.LoadBackendConfig()
	if err != nil {
		return nil, nil, err
	}

	client, err := backend.NewClient(backendCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create backend client: %w", err)
	}

	return vault.NewService(client, vault.NewStore(), cache), client, nil
}
