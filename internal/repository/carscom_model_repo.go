package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vehicle-price-api/internal/catalog"
)

type CarsModelRepo struct {
	db *pgxpool.Pool
}

func NewCarsModelRepo(db *pgxpool.Pool) *CarsModelRepo {
	return &CarsModelRepo{db: db}
}

// ListModels returns every catalog entry ordered by make, then insertion
func (r *CarsModelRepo) ListModels(ctx context.Context) ([]catalog.Entry, error) {
	query := `
		SELECT "MakeName", "ModelName", "Slug"
		FROM "CARSCOM_MODEL"
		ORDER BY LOWER("MakeName"), "ID"
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []catalog.Entry
	for rows.Next() {
		var e catalog.Entry
		if err := rows.Scan(&e.MakeName, &e.Name, &e.Slug); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// UpsertMany inserts entries in one batch, updating make/name of slugs
// that already exist. It returns the number of rows written.
func (r *CarsModelRepo) UpsertMany(ctx context.Context, entries []catalog.Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO "CARSCOM_MODEL" ("MakeName", "ModelName", "Slug")
		VALUES ($1, $2, $3)
		ON CONFLICT ("Slug") DO UPDATE SET
			"MakeName" = EXCLUDED."MakeName",
			"ModelName" = EXCLUDED."ModelName",
			"UpdatedAt" = NOW()
	`

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(query, e.MakeName, e.Name, e.Slug)
	}

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	written := 0
	for _, e := range entries {
		tag, err := br.Exec()
		if err != nil {
			return written, fmt.Errorf("failed to upsert slug %s: %w", e.Slug, err)
		}
		written += int(tag.RowsAffected())
	}

	return written, nil
}

// Count returns the number of catalog rows
func (r *CarsModelRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM "CARSCOM_MODEL"`).Scan(&n)
	return n, err
}
