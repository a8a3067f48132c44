// Package adapter turns vendor catalog pages into raw product records.
//
// All vendors share one colly based implementation; what differs between
// them is a Profile of CSS selectors and the brand they sell. The sync
// semantics stay identical across vendors.
package adapter

import (
	"context"
	"fmt"
	"net/url"

	"github.com/doorland/catalog-sync/internal/platform"
	"github.com/doorland/catalog-sync/internal/platform/models"
)

// Profile is the vendor specific configuration of the shared adapter:
// which brand the vendor sells and how its markup is selected.
type Profile struct {
	Vendor    string
	Hosts     []string
	BrandName string

	// catalog page selectors
	ProductLink string
	Pagination  string

	// product detail page selectors
	Name        string
	Price       string
	Description string
	CharRow     string
	CharName    string
	CharValue   string
	Image       string
	ImageAttr   string
}

//go:generate mockery --name SiteAdapter --filename siteadapter.go

// SiteAdapter parses one vendor's catalog URL into raw product records.
// Implementations must be idempotent: the same URL over the same page
// content yields the same records.
type SiteAdapter interface {
	ParseCatalog(ctx context.Context, catalogURL string) ([]models.RawProduct, error)
	Profile() Profile
}

// Registry resolves the adapter responsible for a catalog URL by host.
type Registry struct {
	adapters []SiteAdapter
}

// NewRegistry returns a Registry over the provided adapters.
func NewRegistry(adapters ...SiteAdapter) *Registry {
	return &Registry{adapters: adapters}
}

// ForURL returns the adapter whose profile covers the host of rawURL.
func (r *Registry) ForURL(rawURL string) (SiteAdapter, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("can't parse catalog url: %w", err)
	}

	for _, adp := range r.adapters {
		for _, host := range adp.Profile().Hosts {
			if parsed.Host == host {
				return adp, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %s", platform.ErrNoAdapter, parsed.Host)
}
