// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tomtom215/shortlist/internal/profile"
)

const (
	// DefaultPostgresImage is the PostgreSQL image used for profile tests.
	DefaultPostgresImage = "postgres:16-alpine"

	postgresPort     = "5432/tcp"
	postgresUser     = "shortlist"
	postgresPassword = "shortlist"
	postgresDB       = "shortlist"
)

// PostgresContainer is a running PostgreSQL server with profile.Schema
// applied.
type PostgresContainer struct {
	testcontainers.Container

	// DSN is a postgres:// URL accepted by profile.OpenPostgres.
	DSN string
}

// PostgresOption configures the PostgreSQL container.
type PostgresOption func(*postgresConfig)

type postgresConfig struct {
	image        string
	startTimeout time.Duration
}

// WithPostgresImage overrides DefaultPostgresImage.
func WithPostgresImage(image string) PostgresOption {
	return func(c *postgresConfig) {
		c.image = image
	}
}

// NewPostgresContainer starts PostgreSQL and creates the user_profiles table.
func NewPostgresContainer(ctx context.Context, opts ...PostgresOption) (*PostgresContainer, error) {
	cfg := &postgresConfig{image: DefaultPostgresImage, startTimeout: 90 * time.Second}
	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{postgresPort},
		Env: map[string]string{
			"POSTGRES_USER":     postgresUser,
			"POSTGRES_PASSWORD": postgresPassword,
			"POSTGRES_DB":       postgresDB,
		},
		// The entrypoint restarts the server once after init; the second
		// ready line is the real one.
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort(postgresPort),
		).WithStartupTimeout(cfg.startTimeout),
	}

	container, addr, err := startContainer(ctx, req, postgresPort)
	if err != nil {
		return nil, fmt.Errorf("start postgres container: %w", err)
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable", postgresUser, postgresPassword, addr, postgresDB)
	if err := applySchema(ctx, dsn); err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, err
	}
	return &PostgresContainer{Container: container, DSN: dsn}, nil
}

func applySchema(ctx context.Context, dsn string) error {
	db, err := profile.OpenPostgres(ctx, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, profile.Schema); err != nil {
		return fmt.Errorf("apply profile schema: %w", err)
	}
	return nil
}
