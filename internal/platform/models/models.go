package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Characteristic is a single named product attribute. Order matters,
// vendors list attributes in a meaningful sequence.
type Characteristic struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// RawProduct is one product record scraped from a vendor page.
// It lives only for the duration of one sync pass.
type RawProduct struct {
	Name            string
	Slug            *string
	Description     string
	Characteristics []Characteristic
	Price           decimal.Decimal
	ImageURLs       []string
	URL             string
}

// Brand is a door manufacturer.
type Brand struct {
	ID   int
	Name string
	Slug string
}

// Catalog is a named sub-collection of products under one brand,
// mapped to one vendor category page.
type Catalog struct {
	ID         int
	BrandID    int
	CategoryID int
	Name       string
	Slug       string
	ImageURL   *string
}

// Category is a taxonomy node products are classified into.
// Keywords holds an optional comma separated list of extra match words.
type Category struct {
	ID       int
	BrandID  int
	Name     string
	Slug     string
	Keywords *string
}

// Product is a durable catalog product.
type Product struct {
	ID              int
	CatalogID       int
	BrandID         int
	Name            string
	Slug            string
	Description     string
	Characteristics []Characteristic
	Price           decimal.Decimal
	DiscountPrice   decimal.Decimal
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       *time.Time

	Images []ProductImage
}

// ProductImage is one stored product image. URL is what clients are
// served: the local copy when the download succeeded, the original
// remote URL otherwise.
type ProductImage struct {
	ID            int
	ProductID     int
	URL           string
	OriginalURL   string
	IsLocal       bool
	IsMain        bool
	FileSize      int64
	DownloadError *string
}

// SyncRun is one synchronization task run with its statistics.
type SyncRun struct {
	ID                  int
	TaskID              string
	CreatedAt           time.Time
	FinishedAt          *time.Time
	IsSuccess           *bool
	StatusMessage       *string
	Catalogs            *int32
	CreatedProducts     *int32
	UpdatedProducts     *int32
	DeactivatedProducts *int32
	FailedProducts      *int32
}
