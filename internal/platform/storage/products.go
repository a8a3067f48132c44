package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"github.com/doorland/catalog-sync/internal/platform/models"
)

// FindProduct returns the catalog's product matched by slug or by
// case-insensitive name, or nil when no such product exists.
func (p Postgres) FindProduct(ctx context.Context, catalogID int, slug, name string) (*models.Product, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT id, catalog_id, brand_id, name, slug, description, characteristics,
		       price, discount_price, is_active, created_at, updated_at
		FROM product
		WHERE catalog_id = $1 AND (slug = $2 OR LOWER(name) = LOWER($3))
		ORDER BY id
		LIMIT 1`,
		catalogID, slug, name,
	)

	product, err := scanProduct(row)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("can't get product: %w", err)
	}

	return product, nil
}

// SlugExists reports whether any product already uses slug.
func (p Postgres) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := p.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM product WHERE slug = $1)`, slug,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("can't check product slug: %w", err)
	}
	return exists, nil
}

// CreateProduct inserts product and returns its id.
func (p Postgres) CreateProduct(ctx context.Context, product *models.Product) (int, error) {
	chars, err := toDBCharacteristics(product.Characteristics)
	if err != nil {
		return 0, err
	}

	var id int
	err = p.db.QueryRowContext(ctx, `
		INSERT INTO product
			(catalog_id, brand_id, name, slug, description, characteristics,
			 price, discount_price, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		product.CatalogID, product.BrandID, product.Name, product.Slug,
		product.Description, chars, product.Price, product.DiscountPrice, product.IsActive,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("can't insert product: %w", err)
	}

	return id, nil
}

// UpdateProduct overwrites all mutable fields of the stored product matched
// by id. The slug is left untouched, it is a stable identity.
func (p Postgres) UpdateProduct(ctx context.Context, product *models.Product) error {
	chars, err := toDBCharacteristics(product.Characteristics)
	if err != nil {
		return err
	}

	result, err := p.db.ExecContext(ctx, `
		UPDATE product SET
			catalog_id = $2, brand_id = $3, name = $4, description = $5,
			characteristics = $6, price = $7, discount_price = $8,
			is_active = $9, updated_at = NOW()
		WHERE id = $1`,
		product.ID, product.CatalogID, product.BrandID, product.Name,
		product.Description, chars, product.Price, product.DiscountPrice, product.IsActive,
	)
	if err != nil {
		return fmt.Errorf("can't update product: %w", err)
	}

	if rowsAffected, err := result.RowsAffected(); rowsAffected == 0 || err != nil {
		return fmt.Errorf("can't update product %d: no rows affected", product.ID)
	}

	return nil
}

// ReplaceProductImages removes all stored image rows of the product and
// inserts the new set. Images are fully replaced on each resync, never
// incrementally patched.
func (p Postgres) ReplaceProductImages(ctx context.Context, productID int, imgs []models.ProductImage) error {
	return runInTransaction(ctx, p.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM product_image WHERE product_id = $1`, productID,
		); err != nil {
			return fmt.Errorf("can't delete outdated product images: %w", err)
		}

		for ix := range imgs {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO product_image
					(product_id, url, original_url, is_local, is_main, file_size, download_error)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				productID, imgs[ix].URL, imgs[ix].OriginalURL, imgs[ix].IsLocal,
				imgs[ix].IsMain, imgs[ix].FileSize, imgs[ix].DownloadError,
			)
			if err != nil {
				return fmt.Errorf("can't insert product image: %w", err)
			}
		}

		return nil
	})
}

// ProductImages returns the stored image rows of the product in insertion order.
func (p Postgres) ProductImages(ctx context.Context, productID int) ([]models.ProductImage, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, product_id, url, original_url, is_local, is_main, file_size, download_error
		FROM product_image
		WHERE product_id = $1
		ORDER BY id`,
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("can't get product images: %w", err)
	}
	defer rows.Close()

	var imgs []models.ProductImage
	for rows.Next() {
		var img models.ProductImage
		err := rows.Scan(&img.ID, &img.ProductID, &img.URL, &img.OriginalURL,
			&img.IsLocal, &img.IsMain, &img.FileSize, &img.DownloadError)
		if err != nil {
			return nil, fmt.Errorf("can't scan product image: %w", err)
		}
		imgs = append(imgs, img)
	}

	return imgs, rows.Err()
}

// DeactivateMissing flags every active product of the catalog whose slug was
// not seen this run as inactive. Rows are streamed in batches so a large
// catalog doesn't pin its whole product set in memory. Returns the number of
// deactivated products. Deactivation never deletes rows, a future scrape
// that re-observes the slug reactivates the product.
func (p Postgres) DeactivateMissing(ctx context.Context, catalogID int, seenSlugs []string) (int32, error) {
	seen := make(map[string]bool, len(seenSlugs))
	for _, slug := range seenSlugs {
		seen[slug] = true
	}

	toDeactivate := make(chan []int)
	deactivated := int32(0)

	errGroup, egCtx := errgroup.WithContext(ctx)

	errGroup.Go(func() error {
		return p.streamMissingActive(egCtx, catalogID, seen, toDeactivate)
	})

	errGroup.Go(func() error {
		for batch := range toDeactivate {
			result, err := p.db.ExecContext(egCtx, `
				UPDATE product SET is_active = FALSE, updated_at = NOW()
				WHERE id = ANY($1)`,
				pq.Array(batch),
			)
			if err != nil {
				return fmt.Errorf("can't deactivate products: %w", err)
			}
			count, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("can't count deactivated products: %w", err)
			}
			deactivated += int32(count)
		}
		return nil
	})

	if err := errGroup.Wait(); err != nil {
		return deactivated, err
	}

	return deactivated, nil
}

// streamMissingActive pushes batches of active product ids whose slug is not
// in seen, paginated by id to keep result sets bounded.
func (p Postgres) streamMissingActive(
	ctx context.Context,
	catalogID int,
	seen map[string]bool,
	toDeactivate chan<- []int,
) error {
	defer close(toDeactivate)

	previousID := 0
	for {
		rows, err := p.db.QueryContext(ctx, `
			SELECT id, slug FROM product
			WHERE catalog_id = $1 AND is_active = TRUE AND id > $2
			ORDER BY id
			LIMIT $3`,
			catalogID, previousID, p.batchSize,
		)
		if err != nil {
			return fmt.Errorf("can't get active products: %w", err)
		}

		var (
			batch []int
			count int
		)
		for rows.Next() {
			var (
				id   int
				slug string
			)
			if err := rows.Scan(&id, &slug); err != nil {
				rows.Close()
				return fmt.Errorf("can't scan active product: %w", err)
			}
			count++
			previousID = id
			if !seen[slug] {
				batch = append(batch, id)
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		if len(batch) > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case toDeactivate <- batch:
			}
		}

		if count < int(p.batchSize) {
			return nil
		}
	}
}

func scanProduct(row *sql.Row) (*models.Product, error) {
	var (
		product   models.Product
		chars     []byte
		updatedAt sql.NullTime
	)

	err := row.Scan(
		&product.ID, &product.CatalogID, &product.BrandID, &product.Name,
		&product.Slug, &product.Description, &chars, &product.Price,
		&product.DiscountPrice, &product.IsActive, &product.CreatedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if product.Characteristics, err = fromDBCharacteristics(chars); err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		product.UpdatedAt = &t
	}

	return &product, nil
}
