// Package storagetesting holds helpers for storage integration tests
// running against a real Postgres pointed at by DATABASE_URL.
package storagetesting

import (
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	_ "github.com/lib/pq"
)

// BrandRow mirrors one brand table row.
type BrandRow struct {
	ID   int
	Name string
	Slug string
}

// CategoryRow mirrors one category table row.
type CategoryRow struct {
	ID       int
	BrandID  int
	Name     string
	Slug     string
	Keywords *string
}

// CatalogRow mirrors one catalog table row.
type CatalogRow struct {
	ID         int
	BrandID    int
	CategoryID int
	Name       string
	Slug       string
	ImageURL   *string
}

// ProductRow mirrors one product table row.
type ProductRow struct {
	ID            int
	CatalogID     int
	BrandID       int
	Name          string
	Slug          string
	Price         decimal.Decimal
	DiscountPrice decimal.Decimal
	IsActive      bool
}

// RunRow mirrors one sync_run table row.
type RunRow struct {
	ID         int
	TaskID     string
	FinishedAt *time.Time
	IsSuccess  *bool
}

// Open opens connection to DB. Tests are skipped when no database is
// configured.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("please provide database URL via DATABASE_URL environment variable")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		t.Fatalf("can't open connection to %q: %s", dbURL, err)
	}

	return db
}

// CleanupData removes all rows from the sync schema tables.
func CleanupData(t *testing.T, db *sql.DB) {
	t.Helper()

	for _, table := range []string{
		"product_category", "product_image", "product", "sync_run", "catalog", "category", "brand",
	} {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("can't delete %s data: %s", table, err)
		}
	}
}

// InsertBrands is a helper test function to insert brands.
func InsertBrands(t *testing.T, db *sql.DB, brands ...BrandRow) {
	t.Helper()

	for _, brand := range brands {
		_, err := db.Exec(
			`INSERT INTO brand (id, name, slug) VALUES ($1, $2, $3)`,
			brand.ID, brand.Name, brand.Slug,
		)
		if err != nil {
			t.Fatal("can't insert brands", err)
		}
	}
}

// InsertCategories is a helper test function to insert categories.
func InsertCategories(t *testing.T, db *sql.DB, categories ...CategoryRow) {
	t.Helper()

	for _, category := range categories {
		_, err := db.Exec(
			`INSERT INTO category (id, brand_id, name, slug, keywords) VALUES ($1, $2, $3, $4, $5)`,
			category.ID, category.BrandID, category.Name, category.Slug, category.Keywords,
		)
		if err != nil {
			t.Fatal("can't insert categories", err)
		}
	}
}

// InsertCatalogs is a helper test function to insert catalogs.
func InsertCatalogs(t *testing.T, db *sql.DB, catalogs ...CatalogRow) {
	t.Helper()

	for _, catalog := range catalogs {
		_, err := db.Exec(
			`INSERT INTO catalog (id, brand_id, category_id, name, slug, image_url)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			catalog.ID, catalog.BrandID, catalog.CategoryID, catalog.Name, catalog.Slug, catalog.ImageURL,
		)
		if err != nil {
			t.Fatal("can't insert catalogs", err)
		}
	}
}

// InsertProducts is a helper test function to insert products.
func InsertProducts(t *testing.T, db *sql.DB, products ...ProductRow) {
	t.Helper()

	for _, product := range products {
		_, err := db.Exec(
			`INSERT INTO product (id, catalog_id, brand_id, name, slug, price, discount_price, is_active)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			product.ID, product.CatalogID, product.BrandID, product.Name, product.Slug,
			product.Price, product.DiscountPrice, product.IsActive,
		)
		if err != nil {
			t.Fatal("can't insert products", err)
		}
	}
}

// InsertRuns is a helper test function to insert sync runs.
func InsertRuns(t *testing.T, db *sql.DB, runs ...RunRow) {
	t.Helper()

	for _, run := range runs {
		_, err := db.Exec(
			`INSERT INTO sync_run (id, task_id, finished_at, is_success) VALUES ($1, $2, $3, $4)`,
			run.ID, run.TaskID, run.FinishedAt, run.IsSuccess,
		)
		if err != nil {
			t.Fatal("can't insert runs", err)
		}
	}
}

// GetProducts is a helper test function to get all products ordered by id.
func GetProducts(t *testing.T, db *sql.DB) []ProductRow {
	t.Helper()

	rows, err := db.Query(
		`SELECT id, catalog_id, brand_id, name, slug, price, discount_price, is_active
		 FROM product ORDER BY id`,
	)
	if err != nil {
		t.Fatal("can't get products", err)
	}
	defer rows.Close()

	var products []ProductRow
	for rows.Next() {
		var product ProductRow
		err := rows.Scan(
			&product.ID, &product.CatalogID, &product.BrandID, &product.Name,
			&product.Slug, &product.Price, &product.DiscountPrice, &product.IsActive,
		)
		if err != nil {
			t.Fatal("can't scan product", err)
		}
		products = append(products, product)
	}

	return products
}

// GetRuns is a helper test function to get all sync runs ordered by id.
func GetRuns(t *testing.T, db *sql.DB) []RunRow {
	t.Helper()

	rows, err := db.Query(`SELECT id, task_id, finished_at, is_success FROM sync_run ORDER BY id`)
	if err != nil {
		t.Fatal("can't get runs", err)
	}
	defer rows.Close()

	var runs []RunRow
	for rows.Next() {
		var run RunRow
		if err := rows.Scan(&run.ID, &run.TaskID, &run.FinishedAt, &run.IsSuccess); err != nil {
			t.Fatal("can't scan run", err)
		}
		runs = append(runs, run)
	}

	return runs
}
