package storage_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/doorland/catalog-sync/internal/platform"
	"github.com/doorland/catalog-sync/internal/platform/models"
	"github.com/doorland/catalog-sync/internal/platform/storage"
	"github.com/doorland/catalog-sync/internal/platform/storage/storagetesting"
	"github.com/go-faker/faker/v4"
	_ "github.com/lib/pq"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func TestPostgresIntegration(t *testing.T) {
	suite.Run(t, new(PostgresTestSuite))
}

type PostgresTestSuite struct {
	suite.Suite
	DB *sql.DB
}

func (s *PostgresTestSuite) SetupSuite() {
	s.DB = storagetesting.Open(s.T())
	storagetesting.CleanupData(s.T(), s.DB)
}

func (s *PostgresTestSuite) TearDownSuite() {
	if s.DB == nil {
		return
	}
	storagetesting.CleanupData(s.T(), s.DB)
	if err := s.DB.Close(); err != nil {
		s.FailNow("close DB", err)
	}
}

// seedCatalog inserts one brand, a default category and a catalog row,
// returning their ids.
func (s *PostgresTestSuite) seedCatalog() (brandID, categoryID, catalogID int) {
	storagetesting.InsertBrands(s.T(), s.DB, storagetesting.BrandRow{ID: 1, Name: "Ferrum", Slug: "ferrum"})
	storagetesting.InsertCategories(s.T(), s.DB, storagetesting.CategoryRow{
		ID: 1, BrandID: 1, Name: "Все двери", Slug: "vse-dveri",
	})
	storagetesting.InsertCatalogs(s.T(), s.DB, storagetesting.CatalogRow{
		ID: 1, BrandID: 1, CategoryID: 1, Name: "Входные двери", Slug: "vhodnye-dveri",
	})
	return 1, 1, 1
}

func (s *PostgresTestSuite) TestIntegrationStartRun() {
	defer storagetesting.CleanupData(s.T(), s.DB)
	taskID := faker.UUIDHyphenated()

	post := storage.NewPostgres(s.DB)

	run, err := post.StartRun(context.TODO(), taskID)
	s.Require().NoError(err, "shouldn't return any error")
	s.Require().NotNil(run, "run should be returned")
	s.NotZero(run.ID, "run should have id")
	s.Equal(taskID, run.TaskID, "run should keep the task id")
	s.NotZero(run.CreatedAt.UnixMilli(), "run should have \"created at\" set")

	_, err = post.StartRun(context.TODO(), taskID)
	s.Require().ErrorIs(err, platform.ErrAlreadyRunning, "unfinished run for the task should block a second one")

	run.FinishedAt = lo.ToPtr(time.Now())
	run.IsSuccess = lo.ToPtr(true)
	s.Require().NoError(post.FinishRun(context.TODO(), run), "shouldn't return any error")

	_, err = post.StartRun(context.TODO(), taskID)
	s.Require().NoError(err, "finished run shouldn't block a new one")
}

func (s *PostgresTestSuite) TestIntegrationFinishRunMissing() {
	defer storagetesting.CleanupData(s.T(), s.DB)

	post := storage.NewPostgres(s.DB)

	err := post.FinishRun(context.TODO(), &models.SyncRun{ID: 12345})
	s.Require().Error(err, "finishing an unknown run should fail")
}

func (s *PostgresTestSuite) TestIntegrationFindOrCreateBrand() {
	defer storagetesting.CleanupData(s.T(), s.DB)

	post := storage.NewPostgres(s.DB)

	brand, err := post.FindOrCreateBrand(context.TODO(), "Ferrum", "ferrum")
	s.Require().NoError(err, "shouldn't return any error")
	s.NotZero(brand.ID, "brand should have id")

	again, err := post.FindOrCreateBrand(context.TODO(), "Ferrum Doors", "ferrum")
	s.Require().NoError(err, "shouldn't return any error")
	s.Equal(brand.ID, again.ID, "same slug should resolve to the same brand")
	s.Equal("Ferrum Doors", again.Name, "name should be corrected in place")
}

func (s *PostgresTestSuite) TestIntegrationFindOrCreateCatalog() {
	defer storagetesting.CleanupData(s.T(), s.DB)
	brandID, categoryID, _ := s.seedCatalog()

	post := storage.NewPostgres(s.DB)

	created, err := post.FindOrCreateCatalog(context.TODO(), models.Catalog{
		BrandID:    brandID,
		CategoryID: categoryID,
		Name:       "Межкомнатные двери",
		Slug:       "mezhkomnatnye-dveri",
	})
	s.Require().NoError(err, "shouldn't return any error")
	s.NotZero(created.ID, "catalog should have id")
	s.Nil(created.ImageURL, "new catalog should have no image")

	s.Require().NoError(
		post.SetCatalogImage(context.TODO(), created.ID, "/media/products/1/main.jpg"),
		"shouldn't return any error",
	)
	// second set is a no-op, the first image sticks
	s.Require().NoError(
		post.SetCatalogImage(context.TODO(), created.ID, "/media/products/2/main.jpg"),
		"shouldn't return any error",
	)

	again, err := post.FindOrCreateCatalog(context.TODO(), models.Catalog{
		BrandID:    brandID,
		CategoryID: 999, // ignored on conflict
		Name:       "Межкомнатные",
		Slug:       "mezhkomnatnye-dveri",
	})
	s.Require().NoError(err, "shouldn't return any error")
	s.Equal(created.ID, again.ID, "same slug should resolve to the same catalog")
	s.Equal(categoryID, again.CategoryID, "stored default category should be preserved")
	s.Require().NotNil(again.ImageURL, "stored image should be preserved")
	s.Equal("/media/products/1/main.jpg", *again.ImageURL, "first set image should stick")
}

func (s *PostgresTestSuite) TestIntegrationProductLifecycle() {
	defer storagetesting.CleanupData(s.T(), s.DB)
	brandID, _, catalogID := s.seedCatalog()

	post := storage.NewPostgres(s.DB)

	product := &models.Product{
		CatalogID:     catalogID,
		BrandID:       brandID,
		Name:          "Стальная дверь Х",
		Slug:          "stalnaya-dver-x",
		Description:   "входная",
		Price:         decimal.NewFromInt(12_000),
		DiscountPrice: decimal.NewFromInt(10_000),
		IsActive:      true,
		Characteristics: []models.Characteristic{
			{Name: "Толщина", Value: "80 мм"},
		},
	}

	id, err := post.CreateProduct(context.TODO(), product)
	s.Require().NoError(err, "shouldn't return any error")
	s.NotZero(id, "product should have id")

	exists, err := post.SlugExists(context.TODO(), "stalnaya-dver-x")
	s.Require().NoError(err, "shouldn't return any error")
	s.True(exists, "created slug should exist")

	bySlug, err := post.FindProduct(context.TODO(), catalogID, "stalnaya-dver-x", "other name")
	s.Require().NoError(err, "shouldn't return any error")
	s.Require().NotNil(bySlug, "product should be found by slug")
	s.Equal(id, bySlug.ID, "should find the created product")
	s.True(bySlug.Price.Equal(decimal.NewFromInt(12_000)), "price should round trip")
	s.Equal(product.Characteristics, bySlug.Characteristics, "characteristics should round trip in order")

	byName, err := post.FindProduct(context.TODO(), catalogID, "other-slug", "СТАЛЬНАЯ ДВЕРЬ Х")
	s.Require().NoError(err, "shouldn't return any error")
	s.Require().NotNil(byName, "product should be found by case-insensitive name")
	s.Equal(id, byName.ID, "should find the created product")

	missing, err := post.FindProduct(context.TODO(), catalogID, "other-slug", "other name")
	s.Require().NoError(err, "shouldn't return any error")
	s.Nil(missing, "unknown product should yield nil, not an error")

	bySlug.Price = decimal.NewFromInt(14_400)
	bySlug.DiscountPrice = decimal.NewFromInt(12_000)
	s.Require().NoError(post.UpdateProduct(context.TODO(), bySlug), "shouldn't return any error")

	updated, err := post.FindProduct(context.TODO(), catalogID, "stalnaya-dver-x", "")
	s.Require().NoError(err, "shouldn't return any error")
	s.True(updated.Price.Equal(decimal.NewFromInt(14_400)), "update should persist the new price")
	s.NotNil(updated.UpdatedAt, "update should bump updated_at")

	imgs := []models.ProductImage{
		{ProductID: id, URL: "/media/products/1/main.jpg", OriginalURL: "https://v.example/1.jpg", IsLocal: true, IsMain: true, FileSize: 100},
		{ProductID: id, URL: "https://v.example/2.jpg", OriginalURL: "https://v.example/2.jpg", DownloadError: lo.ToPtr("not an image")},
	}
	s.Require().NoError(post.ReplaceProductImages(context.TODO(), id, imgs), "shouldn't return any error")

	stored, err := post.ProductImages(context.TODO(), id)
	s.Require().NoError(err, "shouldn't return any error")
	s.Require().Len(stored, 2, "both image rows should be stored")
	s.True(stored[0].IsMain, "first image should stay main")
	s.NotNil(stored[1].DownloadError, "fallback row should keep the download error")

	s.Require().NoError(post.ReplaceProductImages(context.TODO(), id, imgs[:1]), "shouldn't return any error")
	stored, err = post.ProductImages(context.TODO(), id)
	s.Require().NoError(err, "shouldn't return any error")
	s.Len(stored, 1, "replace should drop rows not in the new set")
}

func (s *PostgresTestSuite) TestIntegrationUpdateProductMissing() {
	defer storagetesting.CleanupData(s.T(), s.DB)

	post := storage.NewPostgres(s.DB)

	err := post.UpdateProduct(context.TODO(), &models.Product{
		ID:            12345,
		Name:          faker.Word(),
		Price:         decimal.NewFromInt(1),
		DiscountPrice: decimal.NewFromInt(1),
	})
	s.Require().Error(err, "updating an unknown product should fail")
}

func (s *PostgresTestSuite) TestIntegrationDeactivateMissing() {
	defer storagetesting.CleanupData(s.T(), s.DB)
	brandID, _, catalogID := s.seedCatalog()

	price := decimal.NewFromInt(1_000)
	storagetesting.InsertProducts(s.T(), s.DB,
		storagetesting.ProductRow{ID: 1, CatalogID: catalogID, BrandID: brandID, Name: "a", Slug: "a", Price: price, DiscountPrice: price, IsActive: true},
		storagetesting.ProductRow{ID: 2, CatalogID: catalogID, BrandID: brandID, Name: "b", Slug: "b", Price: price, DiscountPrice: price, IsActive: true},
		storagetesting.ProductRow{ID: 3, CatalogID: catalogID, BrandID: brandID, Name: "c", Slug: "c", Price: price, DiscountPrice: price, IsActive: false},
	)

	post := storage.NewPostgres(s.DB)

	deactivated, err := post.DeactivateMissing(context.TODO(), catalogID, []string{"a"})
	s.Require().NoError(err, "shouldn't return any error")
	s.EqualValues(1, deactivated, "only unseen active products should be deactivated")

	state := storagetesting.GetProducts(s.T(), s.DB)
	s.Require().Len(state, 3, "deactivation should never delete rows")
	s.True(state[0].IsActive, "seen product should stay active")
	s.False(state[1].IsActive, "unseen product should be deactivated")
	s.False(state[2].IsActive, "already inactive product should stay inactive")
}

func (s *PostgresTestSuite) TestIntegrationReplaceProductCategories() {
	defer storagetesting.CleanupData(s.T(), s.DB)
	brandID, categoryID, catalogID := s.seedCatalog()
	storagetesting.InsertCategories(s.T(), s.DB, storagetesting.CategoryRow{
		ID: 2, BrandID: brandID, Name: "Входные двери", Slug: "vhodnye",
	})

	price := decimal.NewFromInt(1_000)
	storagetesting.InsertProducts(s.T(), s.DB, storagetesting.ProductRow{
		ID: 1, CatalogID: catalogID, BrandID: brandID, Name: "a", Slug: "a",
		Price: price, DiscountPrice: price, IsActive: true,
	})

	post := storage.NewPostgres(s.DB)

	// scored list repeating the primary must not produce a duplicate link
	err := post.ReplaceProductCategories(context.TODO(), 1, categoryID, []int{2, categoryID})
	s.Require().NoError(err, "shouldn't return any error")

	rows, err := s.DB.Query(
		`SELECT category_id, is_primary FROM product_category WHERE product_id = 1 ORDER BY category_id`,
	)
	s.Require().NoError(err, "shouldn't fail reading links")
	defer rows.Close()

	links := map[int]bool{}
	for rows.Next() {
		var (
			categoryID int
			isPrimary  bool
		)
		s.Require().NoError(rows.Scan(&categoryID, &isPrimary), "shouldn't fail scanning link")
		links[categoryID] = isPrimary
	}
	s.Require().NoError(rows.Err(), "shouldn't fail iterating links")

	s.Equal(map[int]bool{categoryID: true, 2: false}, links, "primary flag should mark only the default category")
}
