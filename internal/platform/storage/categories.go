package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doorland/catalog-sync/internal/platform/models"
)

// Categories returns all categories of the brand in insertion order.
func (p Postgres) Categories(ctx context.Context, brandID int) ([]models.Category, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, brand_id, name, slug, keywords
		FROM category
		WHERE brand_id = $1
		ORDER BY id`,
		brandID,
	)
	if err != nil {
		return nil, fmt.Errorf("can't get categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		err := rows.Scan(&category.ID, &category.BrandID, &category.Name,
			&category.Slug, &category.Keywords)
		if err != nil {
			return nil, fmt.Errorf("can't scan category: %w", err)
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}

// ReplaceProductCategories clears all category links of the product and
// inserts the new set. The primary category link is flagged. Assignment is
// a full replace, not an incremental diff.
func (p Postgres) ReplaceProductCategories(ctx context.Context, productID, primaryID int, categoryIDs []int) error {
	return runInTransaction(ctx, p.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM product_category WHERE product_id = $1`, productID,
		); err != nil {
			return fmt.Errorf("can't delete product category links: %w", err)
		}

		insert := func(categoryID int, primary bool) error {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO product_category (product_id, category_id, is_primary)
				VALUES ($1, $2, $3)
				ON CONFLICT (product_id, category_id) DO NOTHING`,
				productID, categoryID, primary,
			)
			return err
		}

		if err := insert(primaryID, true); err != nil {
			return fmt.Errorf("can't insert primary category link: %w", err)
		}

		for _, categoryID := range categoryIDs {
			if categoryID == primaryID {
				continue
			}
			if err := insert(categoryID, false); err != nil {
				return fmt.Errorf("can't insert category link: %w", err)
			}
		}

		return nil
	})
}
