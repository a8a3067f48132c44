package adapter

import "github.com/rs/zerolog"

// Vendor profiles. Selectors are configuration, not logic: adding a vendor
// means adding a Profile here, not another sync implementation.
var (
	// Ferrum is a steel entry door vendor.
	Ferrum = Profile{
		Vendor:      "ferrum",
		Hosts:       []string{"ferrum-dveri.ru", "www.ferrum-dveri.ru"},
		BrandName:   "Ferrum",
		ProductLink: ".catalog-list .catalog-item > a",
		Pagination:  ".pagination a.page-link",
		Name:        "h1.product-title",
		Price:       ".product-price .price-current",
		Description: ".product-description",
		CharRow:     "table.product-specs tr",
		CharName:    "td.spec-name",
		CharValue:   "td.spec-value",
		Image:       ".product-gallery img",
		ImageAttr:   "data-src",
	}

	// Lesnoy is an interior wooden door vendor.
	Lesnoy = Profile{
		Vendor:      "lesnoy",
		Hosts:       []string{"lesnoy-dom.ru", "www.lesnoy-dom.ru"},
		BrandName:   "Лесной Дом",
		ProductLink: "ul.products li.product a.woocommerce-LoopProduct-link",
		Pagination:  "nav.woocommerce-pagination a.page-numbers",
		Name:        "h1.product_title",
		Price:       "p.price .woocommerce-Price-amount",
		Description: ".woocommerce-product-details__short-description",
		CharRow:     "table.woocommerce-product-attributes tr",
		CharName:    "th.woocommerce-product-attributes-item__label",
		CharValue:   "td.woocommerce-product-attributes-item__value",
		Image:       ".woocommerce-product-gallery__image img",
		ImageAttr:   "src",
	}
)

// DefaultRegistry returns the registry of all known vendor adapters.
func DefaultRegistry(userAgent string, logger *zerolog.Logger, ops ...CollyOption) *Registry {
	return NewRegistry(
		NewCollyAdapter(Ferrum, userAgent, logger, ops...),
		NewCollyAdapter(Lesnoy, userAgent, logger, ops...),
	)
}
