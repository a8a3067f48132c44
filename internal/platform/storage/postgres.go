// Package storage persists brands, catalogs, categories, products, product
// images and sync runs in Postgres.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doorland/catalog-sync/internal/platform/models"
)

const defaultBatchSize = 200

// Postgres is the storage for the whole catalog schema.
type Postgres struct {
	db        *sql.DB
	batchSize uint
}

// NewPostgres returns a new Postgres storage.
func NewPostgres(db *sql.DB) Postgres {
	return Postgres{
		db:        db,
		batchSize: defaultBatchSize,
	}
}

// FindOrCreateBrand finds a brand by slug or creates it. The stored name is
// corrected in place when it drifted from the vendor's.
func (p Postgres) FindOrCreateBrand(ctx context.Context, name, slug string) (*models.Brand, error) {
	brand := models.Brand{Name: name, Slug: slug}

	err := p.db.QueryRowContext(ctx, `
		INSERT INTO brand (name, slug)
		VALUES ($1, $2)
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`,
		name, slug,
	).Scan(&brand.ID)
	if err != nil {
		return nil, fmt.Errorf("can't upsert brand: %w", err)
	}

	return &brand, nil
}

// FindOrCreateCatalog finds a catalog by slug or creates it. On repeat runs
// the name and brand are corrected in place while the slug stays a stable
// identity; the default category and representative image are kept.
func (p Postgres) FindOrCreateCatalog(ctx context.Context, catalog models.Catalog) (*models.Catalog, error) {
	stored := catalog

	err := p.db.QueryRowContext(ctx, `
		INSERT INTO catalog (brand_id, category_id, name, slug)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, brand_id = EXCLUDED.brand_id
		RETURNING id, category_id, image_url`,
		catalog.BrandID, catalog.CategoryID, catalog.Name, catalog.Slug,
	).Scan(&stored.ID, &stored.CategoryID, &stored.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("can't upsert catalog: %w", err)
	}

	return &stored, nil
}

// SetCatalogImage sets the catalog's representative image unless one is
// already stored.
func (p Postgres) SetCatalogImage(ctx context.Context, catalogID int, imageURL string) error {
	_, err := p.db.ExecContext(ctx, `
		UPDATE catalog SET image_url = $2 WHERE id = $1 AND image_url IS NULL`,
		catalogID, imageURL,
	)
	if err != nil {
		return fmt.Errorf("can't set catalog image: %w", err)
	}
	return nil
}

// runInTransaction executes fn inside a transaction, rolling back on error.
func runInTransaction(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	var (
		tx  *sql.Tx
		err error
	)

	if tx, err = db.BeginTx(ctx, nil); err != nil {
		return fmt.Errorf("can't begin transaction: %w", err)
	}

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("can't rollback transaction: %w (rollback reason: %w)", rbErr, err)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("can't commit transaction: %w", err)
	}

	return nil
}

func noRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
