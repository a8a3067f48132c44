package modelstesting

import (
	"math/rand"

	"github.com/doorland/catalog-sync/internal/platform/models"
	"github.com/go-faker/faker/v4"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

// FakeRawProduct returns models.RawProduct with fake data and random number of image URLs.
func FakeRawProduct(ops ...func(p *models.RawProduct)) models.RawProduct {
	name := faker.Sentence()
	product := models.RawProduct{
		Name:            name,
		Description:     faker.Paragraph(),
		Characteristics: fakeCharacteristics(),
		Price:           decimal.NewFromInt(rand.Int63n(100_000) + 1),
		ImageURLs:       fakeImageURLs(),
		URL:             faker.URL(),
	}

	for _, op := range ops {
		op(&product)
	}

	return product
}

// FakeProduct returns models.Product with fake data.
func FakeProduct(ops ...func(p *models.Product)) models.Product {
	name := faker.Sentence()
	product := models.Product{
		ID:              rand.Intn(100_000) + 1,
		CatalogID:       rand.Intn(1_000) + 1,
		BrandID:         rand.Intn(1_000) + 1,
		Name:            name,
		Slug:            slug.Make(name),
		Description:     faker.Paragraph(),
		Characteristics: fakeCharacteristics(),
		Price:           decimal.NewFromInt(rand.Int63n(100_000) + 1),
		DiscountPrice:   decimal.NewFromInt(rand.Int63n(100_000) + 1),
		IsActive:        true,
	}

	for _, op := range ops {
		op(&product)
	}

	return product
}

// FakeCategory returns models.Category with fake data.
func FakeCategory(ops ...func(c *models.Category)) models.Category {
	name := faker.Word()
	category := models.Category{
		ID:      rand.Intn(100_000) + 1,
		BrandID: rand.Intn(1_000) + 1,
		Name:    name,
		Slug:    slug.Make(name),
	}

	for _, op := range ops {
		op(&category)
	}

	return category
}

// FakeCatalog returns models.Catalog with fake data.
func FakeCatalog(ops ...func(c *models.Catalog)) models.Catalog {
	name := faker.Word()
	catalog := models.Catalog{
		ID:         rand.Intn(100_000) + 1,
		BrandID:    rand.Intn(1_000) + 1,
		CategoryID: rand.Intn(1_000) + 1,
		Name:       name,
		Slug:       slug.Make(name),
	}

	for _, op := range ops {
		op(&catalog)
	}

	return catalog
}

func fakeCharacteristics() []models.Characteristic {
	charsLen := rand.Intn(5)
	chars := make([]models.Characteristic, 0, charsLen)
	for i := 0; i < charsLen; i++ {
		chars = append(chars, models.Characteristic{
			Name:  faker.Word(),
			Value: faker.Word(),
		})
	}

	return chars
}

func fakeImageURLs() []string {
	imgURLsLen := rand.Intn(5)
	imgURLs := make([]string, 0, imgURLsLen)
	for i := 0; i < imgURLsLen; i++ {
		imgURLs = append(imgURLs, faker.URL())
	}

	return imgURLs
}
