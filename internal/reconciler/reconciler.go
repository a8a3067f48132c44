// Package reconciler turns scraped raw records into durable product rows:
// upsert by slug or case-insensitive name, full image resync, deactivation
// of vendor-missing products.
package reconciler

import (
	"context"
	"fmt"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/doorland/catalog-sync/internal/images"
	"github.com/doorland/catalog-sync/internal/platform/models"
	"github.com/doorland/catalog-sync/internal/pricing"
	"github.com/doorland/catalog-sync/metrics"
)

//go:generate mockery --name Storage --filename storage.go
//go:generate mockery --name ImagePipeline --filename imagepipeline.go

// Storage is the product persistence used by the reconciler. Each mutating
// call is transactional on its own, so a failure on one product never
// poisons the rest of the batch.
type Storage interface {
	// FindProduct returns the catalog's product matched by slug or
	// case-insensitive name, or nil when absent.
	FindProduct(ctx context.Context, catalogID int, slug, name string) (*models.Product, error)
	// SlugExists reports whether any product already uses slug.
	SlugExists(ctx context.Context, slug string) (bool, error)
	// CreateProduct inserts a product and returns its id.
	CreateProduct(ctx context.Context, product *models.Product) (int, error)
	// UpdateProduct overwrites all mutable fields of a stored product.
	UpdateProduct(ctx context.Context, product *models.Product) error
	// ReplaceProductImages replaces all image rows of a product.
	ReplaceProductImages(ctx context.Context, productID int, imgs []models.ProductImage) error
	// DeactivateMissing deactivates active catalog products whose slug was not seen.
	DeactivateMissing(ctx context.Context, catalogID int, seenSlugs []string) (int32, error)
}

// ImagePipeline downloads and stores product images locally.
type ImagePipeline interface {
	DownloadAndStore(ctx context.Context, url string, productID, imageIndex int, isMain bool) (*images.Stored, error)
	DeleteProductImages(productID int) error
}

// Stats is the outcome of reconciling one catalog's records.
type Stats struct {
	Created   int32
	Updated   int32
	Failed    int32
	SeenSlugs []string
	// Products are the durable products touched this run, in vendor order,
	// with their stored image rows. The orchestrator classifies them after
	// the catalog is committed.
	Products []models.Product
}

// Reconciler reconciles raw scrape batches against stored products.
type Reconciler struct {
	storage Storage
	images  ImagePipeline
	logger  *zerolog.Logger
}

// New returns a new Reconciler.
func New(storage Storage, images ImagePipeline, logger *zerolog.Logger) *Reconciler {
	return &Reconciler{
		storage: storage,
		images:  images,
		logger:  logger,
	}
}

// Reconcile upserts every record into the catalog, resyncing images, and
// returns batch statistics with the set of slugs seen this run. A failure
// on a single record is logged and counted, the loop continues.
func (r *Reconciler) Reconcile(ctx context.Context, catalog *models.Catalog, records []models.RawProduct) (*Stats, error) {
	stats := &Stats{}

	for ix := range records {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		product, created, err := r.upsertRecord(ctx, catalog, &records[ix])
		if err != nil {
			stats.Failed++
			r.logger.Warn().
				Err(err).
				Str("productName", records[ix].Name).
				Int("catalogId", catalog.ID).
				Msg("product skipped")
			continue
		}

		if created {
			stats.Created++
		} else {
			stats.Updated++
		}
		stats.SeenSlugs = append(stats.SeenSlugs, product.Slug)
		stats.Products = append(stats.Products, *product)
	}

	return stats, nil
}

// Deactivate flags active catalog products not seen this run as inactive.
func (r *Reconciler) Deactivate(ctx context.Context, catalogID int, seenSlugs []string) (int32, error) {
	return r.storage.DeactivateMissing(ctx, catalogID, seenSlugs)
}

// upsertRecord creates or updates one product and resyncs its images.
// Matching is by slug first, case-insensitive name second; all mutable
// fields are overwritten, prices re-derived so repeated runs are idempotent.
func (r *Reconciler) upsertRecord(
	ctx context.Context,
	catalog *models.Catalog,
	record *models.RawProduct,
) (*models.Product, bool, error) {
	baseSlug := slugOf(record)

	existing, err := r.storage.FindProduct(ctx, catalog.ID, baseSlug, record.Name)
	if err != nil {
		return nil, false, err
	}

	price, discountPrice := pricing.Calculate(record.Price)
	product := &models.Product{
		CatalogID:       catalog.ID,
		BrandID:         catalog.BrandID,
		Name:            record.Name,
		Description:     record.Description,
		Characteristics: record.Characteristics,
		Price:           price,
		DiscountPrice:   discountPrice,
		IsActive:        true,
	}

	created := existing == nil
	if created {
		if product.Slug, err = r.uniqueSlug(ctx, baseSlug); err != nil {
			return nil, false, err
		}
		if product.ID, err = r.storage.CreateProduct(ctx, product); err != nil {
			return nil, false, err
		}
	} else {
		product.ID = existing.ID
		product.Slug = existing.Slug
		if err = r.storage.UpdateProduct(ctx, product); err != nil {
			return nil, false, err
		}
	}

	if product.Images, err = r.resyncImages(ctx, product.ID, record.ImageURLs); err != nil {
		return nil, false, err
	}

	return product, created, nil
}

// resyncImages fully replaces the product's images: stored rows and local
// files are dropped, then the new set is downloaded in vendor order. The
// first successfully stored image becomes main. A failed download still
// yields a row pointing at the original remote URL with the error recorded,
// so the product is never left without image references.
func (r *Reconciler) resyncImages(ctx context.Context, productID int, urls []string) ([]models.ProductImage, error) {
	if err := r.images.DeleteProductImages(productID); err != nil {
		return nil, err
	}

	imgs := make([]models.ProductImage, 0, len(urls))
	mainAssigned := false

	for ix, url := range urls {
		stored, err := r.images.DownloadAndStore(ctx, url, productID, ix, !mainAssigned)
		if err != nil {
			r.logger.Warn().
				Err(err).
				Int("productId", productID).
				Str("imageUrl", url).
				Msg("image download failed, serving remote url")

			imgs = append(imgs, models.ProductImage{
				ProductID:     productID,
				URL:           url,
				OriginalURL:   url,
				DownloadError: lo.ToPtr(err.Error()),
			})
			metrics.RecordImage(false)
			continue
		}

		imgs = append(imgs, models.ProductImage{
			ProductID:   productID,
			URL:         stored.LocalURL,
			OriginalURL: url,
			IsLocal:     true,
			IsMain:      !mainAssigned,
			FileSize:    stored.FileSize,
		})
		mainAssigned = true
		metrics.RecordImage(true)
	}

	if err := r.storage.ReplaceProductImages(ctx, productID, imgs); err != nil {
		return nil, err
	}

	return imgs, nil
}

// uniqueSlug disambiguates colliding slugs with a numeric suffix.
func (r *Reconciler) uniqueSlug(ctx context.Context, base string) (string, error) {
	candidate := base
	for suffix := 1; ; suffix++ {
		exists, err := r.storage.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, suffix)
	}
}

// slugOf returns the record's own slug or derives one from its name.
func slugOf(record *models.RawProduct) string {
	if record.Slug != nil && *record.Slug != "" {
		return *record.Slug
	}
	return slug.Make(record.Name)
}
