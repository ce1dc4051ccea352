package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunMigrations creates the marketplace model catalog table
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS "CARSCOM_MODEL" (
			"ID" SERIAL PRIMARY KEY,
			"MakeName" VARCHAR(100) NOT NULL,
			"ModelName" VARCHAR(150) NOT NULL DEFAULT '',
			"Slug" VARCHAR(200) NOT NULL,
			"CreatedAt" TIMESTAMP NOT NULL DEFAULT NOW(),
			"UpdatedAt" TIMESTAMP NOT NULL DEFAULT NOW(),
			CONSTRAINT "uq_carscom_model_slug" UNIQUE ("Slug")
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create CARSCOM_MODEL table: %w", err)
	}

	_, err = pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS "idx_carscom_model_make"
		ON "CARSCOM_MODEL"(LOWER("MakeName"))
	`)
	if err != nil {
		return fmt.Errorf("failed to create idx_carscom_model_make: %w", err)
	}

	return nil
}
