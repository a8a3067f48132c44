// Package syncer drives catalog URLs through adapter, reconciler and
// classifier, isolating failures so a single bad catalog or product never
// aborts a run.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/doorland/catalog-sync/internal/adapter"
	"github.com/doorland/catalog-sync/internal/classifier"
	"github.com/doorland/catalog-sync/internal/platform"
	"github.com/doorland/catalog-sync/internal/platform/models"
	"github.com/doorland/catalog-sync/internal/reconciler"
	"github.com/doorland/catalog-sync/metrics"
)

//go:generate mockery --name Registry --filename registry.go
//go:generate mockery --name Reconciler --filename reconciler.go
//go:generate mockery --name Classifier --filename classifier.go
//go:generate mockery --name Storage --filename storage.go

const (
	defaultMaxCategories = 5
	defaultMinMatches    = 1
)

// Registry resolves the site adapter responsible for a catalog URL.
type Registry interface {
	ForURL(rawURL string) (adapter.SiteAdapter, error)
}

// Reconciler applies scraped records to the durable catalog.
type Reconciler interface {
	Reconcile(ctx context.Context, catalog *models.Catalog, records []models.RawProduct) (*reconciler.Stats, error)
	Deactivate(ctx context.Context, catalogID int, seenSlugs []string) (int32, error)
}

// Classifier scores product text against brand categories.
type Classifier interface {
	Classify(text string, categories []models.Category, minMatches int) []classifier.Match
}

// Storage is catalog metadata and run bookkeeping persistence.
type Storage interface {
	FindOrCreateBrand(ctx context.Context, name, slug string) (*models.Brand, error)
	FindOrCreateCatalog(ctx context.Context, catalog models.Catalog) (*models.Catalog, error)
	SetCatalogImage(ctx context.Context, catalogID int, imageURL string) error
	Categories(ctx context.Context, brandID int) ([]models.Category, error)
	ReplaceProductCategories(ctx context.Context, productID, primaryID int, categoryIDs []int) error
	StartRun(ctx context.Context, taskID string) (*models.SyncRun, error)
	FinishRun(ctx context.Context, run *models.SyncRun) error
}

// Clock provides times.
type Clock interface {
	// Now returns current UTC time.
	Now() *time.Time
}

// Option is custom configuration of Syncer.
type Option func(s *Syncer)

// Syncer orchestrates one sync task over a batch of catalog URLs.
type Syncer struct {
	registry      Registry
	reconciler    Reconciler
	classifier    Classifier
	storage       Storage
	logger        *zerolog.Logger
	clock         Clock
	maxCategories int
	minMatches    int
}

// New returns a new Syncer.
func New(
	registry Registry,
	rec Reconciler,
	cls Classifier,
	storage Storage,
	logger *zerolog.Logger,
	ops ...Option,
) *Syncer {
	syn := &Syncer{
		registry:      registry,
		reconciler:    rec,
		classifier:    cls,
		storage:       storage,
		logger:        logger,
		clock:         systemClock{},
		maxCategories: defaultMaxCategories,
		minMatches:    defaultMinMatches,
	}

	for _, op := range ops {
		op(syn)
	}

	return syn
}

// WithClock sets Syncer's custom Clock.
func WithClock(c Clock) Option {
	return func(s *Syncer) {
		s.clock = c
	}
}

// WithMaxCategories caps the number of scored categories assigned per
// product on top of the mandatory default category.
func WithMaxCategories(n int) Option {
	return func(s *Syncer) {
		s.maxCategories = n
	}
}

// classifyItem is one committed product waiting for category assignment.
type classifyItem struct {
	product           models.Product
	categories        []models.Category
	defaultCategoryID int
}

// Sync runs one task over catalogURLs and returns the finished run with its
// statistics. A failure of a single catalog or product is absorbed into the
// counters; an error is returned only when the task setup itself is invalid
// (no URLs, no default category, run bookkeeping broken), so the task queue
// can retry.
func (s *Syncer) Sync(ctx context.Context, taskID string, catalogURLs []string) (*models.SyncRun, error) {
	if len(catalogURLs) == 0 {
		return nil, platform.ErrNoCatalogURLs
	}

	run, err := s.storage.StartRun(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("can't start sync: %w", err)
	}

	var (
		catalogs    int32
		created     int32
		updated     int32
		deactivated int32
		failed      int32
		backlog     []classifyItem
	)

	for _, catalogURL := range catalogURLs {
		if err := ctx.Err(); err != nil {
			return run, s.finishSync(ctx, run, err)
		}

		stats, items, err := s.syncCatalog(ctx, catalogURL)
		if err != nil {
			if isSetupError(err) {
				return run, s.finishSync(ctx, run, err)
			}
			failed++
			s.logger.Error().
				Err(err).
				Str("catalogUrl", catalogURL).
				Msg("catalog skipped")
			continue
		}

		catalogs++
		created += stats.created
		updated += stats.updated
		deactivated += stats.deactivated
		failed += stats.failed
		backlog = append(backlog, items...)
	}

	// Products are committed at this point; classification failures must
	// not undo finished upserts.
	s.classifyAll(ctx, backlog)

	run.Catalogs = &catalogs
	run.CreatedProducts = &created
	run.UpdatedProducts = &updated
	run.DeactivatedProducts = &deactivated
	run.FailedProducts = &failed

	return run, s.finishSync(ctx, run, nil)
}

// catalogStats are the counters of one synced catalog.
type catalogStats struct {
	created     int32
	updated     int32
	deactivated int32
	failed      int32
}

// syncCatalog resolves brand and catalog, scrapes the URL, reconciles the
// batch and runs the deactivation pass.
func (s *Syncer) syncCatalog(ctx context.Context, catalogURL string) (*catalogStats, []classifyItem, error) {
	adp, err := s.registry.ForURL(catalogURL)
	if err != nil {
		return nil, nil, err
	}
	profile := adp.Profile()

	brand, err := s.storage.FindOrCreateBrand(ctx, profile.BrandName, slug.Make(profile.BrandName))
	if err != nil {
		return nil, nil, fmt.Errorf("can't resolve brand: %w", err)
	}

	categories, err := s.storage.Categories(ctx, brand.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("can't get brand categories: %w", err)
	}

	defaultCategory, found := lo.Find(categories, classifier.IsDefault)
	if !found {
		return nil, nil, fmt.Errorf("%w: brand %q", platform.ErrNoDefaultCategory, brand.Name)
	}

	catalog, err := s.storage.FindOrCreateCatalog(ctx, models.Catalog{
		BrandID:    brand.ID,
		CategoryID: defaultCategory.ID,
		Name:       catalogNameFromURL(catalogURL),
		Slug:       catalogSlugFromURL(catalogURL),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("can't resolve catalog: %w", err)
	}

	records, err := adp.ParseCatalog(ctx, catalogURL)
	if err != nil {
		return nil, nil, fmt.Errorf("can't parse catalog: %w", err)
	}

	stats, err := s.reconciler.Reconcile(ctx, catalog, records)
	if err != nil {
		return nil, nil, fmt.Errorf("can't reconcile catalog: %w", err)
	}

	deactivated, err := s.reconciler.Deactivate(ctx, catalog.ID, stats.SeenSlugs)
	if err != nil {
		return nil, nil, fmt.Errorf("can't deactivate missing products: %w", err)
	}

	if catalog.ImageURL == nil {
		if imageURL := firstImageURL(stats.Products); imageURL != "" {
			if err := s.storage.SetCatalogImage(ctx, catalog.ID, imageURL); err != nil {
				s.logger.Warn().
					Err(err).
					Int("catalogId", catalog.ID).
					Msg("can't set catalog image")
			}
		}
	}

	metrics.RecordProducts(profile.Vendor, stats.Created, stats.Updated, deactivated, stats.Failed)

	items := lo.Map(stats.Products, func(product models.Product, _ int) classifyItem {
		return classifyItem{
			product:           product,
			categories:        categories,
			defaultCategoryID: defaultCategory.ID,
		}
	})

	return &catalogStats{
		created:     stats.Created,
		updated:     stats.Updated,
		deactivated: deactivated,
		failed:      stats.Failed,
	}, items, nil
}

// classifyAll assigns categories to every committed product. Each product's
// assignment is isolated: a failure is logged and the rest proceeds.
func (s *Syncer) classifyAll(ctx context.Context, backlog []classifyItem) {
	for ix := range backlog {
		if ctx.Err() != nil {
			return
		}

		item := &backlog[ix]
		matches := s.classifier.Classify(classifyText(&item.product), item.categories, s.minMatches)
		if len(matches) > s.maxCategories {
			matches = matches[:s.maxCategories]
		}

		categoryIDs := lo.Map(matches, func(m classifier.Match, _ int) int {
			return m.CategoryID
		})

		err := s.storage.ReplaceProductCategories(ctx, item.product.ID, item.defaultCategoryID, categoryIDs)
		if err != nil {
			s.logger.Error().
				Err(err).
				Int("productId", item.product.ID).
				Msg("can't assign product categories")
		}
	}
}

func (s *Syncer) finishSync(ctx context.Context, run *models.SyncRun, status error) error {
	if status != nil {
		run.StatusMessage = lo.ToPtr(status.Error())
	}
	run.IsSuccess = lo.ToPtr(status == nil)
	run.FinishedAt = s.clock.Now()

	err := s.storage.FinishRun(ctx, run)
	if err != nil && status == nil {
		return fmt.Errorf("can't finish sync: %w", err)
	}

	if err != nil && status != nil {
		return fmt.Errorf("can't finish failed sync: %w (fail reason: %w)", err, status)
	}

	return status
}

// classifyText is the free text a product is classified by.
func classifyText(product *models.Product) string {
	parts := make([]string, 0, 2+len(product.Characteristics))
	parts = append(parts, product.Name, product.Description)
	for _, char := range product.Characteristics {
		parts = append(parts, char.Name+" "+char.Value)
	}
	return strings.Join(parts, " ")
}

// firstImageURL returns the served URL of the first image of the first
// product that has one.
func firstImageURL(products []models.Product) string {
	for ix := range products {
		if len(products[ix].Images) > 0 {
			return products[ix].Images[0].URL
		}
	}
	return ""
}

// isSetupError reports whether the failure invalidates the whole task
// instead of a single catalog.
func isSetupError(err error) bool {
	return errors.Is(err, platform.ErrNoDefaultCategory)
}

// catalogSlugFromURL derives the stable catalog identity from the vendor
// URL host and path.
func catalogSlugFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return slug.Make(rawURL)
	}
	return slug.Make(parsed.Host + " " + strings.Trim(parsed.Path, "/"))
}

// catalogNameFromURL humanizes the last URL path segment into a readable
// catalog name. The next successful scrape keeps correcting it in place.
func catalogNameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	last := segments[len(segments)-1]
	if last == "" {
		return parsed.Host
	}

	words := strings.Fields(strings.NewReplacer("-", " ", "_", " ").Replace(last))
	if len(words) == 0 {
		return parsed.Host
	}

	name := []rune(strings.Join(words, " "))
	return strings.ToUpper(string(name[0])) + string(name[1:])
}
