package adapter_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/doorland/catalog-sync/internal/adapter"
	"github.com/doorland/catalog-sync/internal/platform"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testProfile = adapter.Profile{
	Vendor:      "testvendor",
	BrandName:   "Test",
	ProductLink: ".item a",
	Pagination:  ".pager a",
	Name:        "h1",
	Price:       ".price",
	Description: ".desc",
	CharRow:     "table.specs tr",
	CharName:    "td.n",
	CharValue:   "td.v",
	Image:       ".gallery img",
	ImageAttr:   "src",
}

const catalogPageOne = `<html><body>
<div class="item"><a href="/products/steel-door-x">Steel Door X</a></div>
<div class="item"><a href="/products/steel-door-x">Steel Door X duplicate</a></div>
<div class="item"><a href="/products/no-name">Broken</a></div>
<div class="pager"><a href="/catalog?page=2">2</a></div>
</body></html>`

const catalogPageTwo = `<html><body>
<div class="item"><a href="/products/oak-door">Oak Door</a></div>
<div class="pager"><a href="/catalog">1</a></div>
</body></html>`

const steelDoorPage = `<html><body>
<h1>Steel Door X</h1>
<div class="price">10 000 ₽</div>
<div class="desc">Reliable steel door.</div>
<table class="specs">
<tr><td class="n">Толщина</td><td class="v">80 мм</td></tr>
<tr><td class="n">Цвет</td><td class="v">Антрацит</td></tr>
<tr><td class="n"></td><td class="v">dropped</td></tr>
</table>
<div class="gallery"><img src="/img/x1.jpg"><img src="/img/x2.jpg"><img src="/img/x1.jpg"></div>
</body></html>`

const oakDoorPage = `<html><body>
<h1>Oak Door</h1>
<div class="price">договорная</div>
<div class="desc"></div>
</body></html>`

const noNamePage = `<html><body><div class="price">500</div></body></html>`

func TestUnitParseCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
		switch req.URL.Path + "?" + req.URL.RawQuery {
		case "/catalog?":
			fmt.Fprint(wrt, catalogPageOne)
		case "/catalog?page=2":
			fmt.Fprint(wrt, catalogPageTwo)
		case "/products/steel-door-x?":
			fmt.Fprint(wrt, steelDoorPage)
		case "/products/oak-door?":
			fmt.Fprint(wrt, oakDoorPage)
		case "/products/no-name?":
			fmt.Fprint(wrt, noNamePage)
		default:
			wrt.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	logger := zerolog.Nop()
	adp := adapter.NewCollyAdapter(
		testProfile,
		"test/0.0.0",
		&logger,
		adapter.WithRetryDelay(time.Millisecond),
		adapter.WithPlaceholderImages([]string{"https://cdn.example.com/placeholder.jpg"}),
	)

	products, err := adp.ParseCatalog(context.TODO(), srv.URL+"/catalog")

	require.NoError(t, err, "shouldn't return any error")
	require.Len(t, products, 2, "should drop nameless record, dedupe links, follow pagination")

	steel := products[0]
	assert.Equal(t, "Steel Door X", steel.Name)
	require.NotNil(t, steel.Slug, "slug should be derived from the page path")
	assert.Equal(t, "steel-door-x", *steel.Slug)
	assert.Equal(t, "10000", steel.Price.String())
	assert.Equal(t, "Reliable steel door.", steel.Description)
	assert.Equal(t, []string{srv.URL + "/img/x1.jpg", srv.URL + "/img/x2.jpg"}, steel.ImageURLs,
		"image urls should be absolute and deduplicated")
	require.Len(t, steel.Characteristics, 2, "empty characteristic rows should be skipped")
	assert.Equal(t, "Толщина", steel.Characteristics[0].Name)
	assert.Equal(t, "80 мм", steel.Characteristics[0].Value)

	oak := products[1]
	assert.Equal(t, "Oak Door", oak.Name)
	assert.Equal(t, "1", oak.Price.String(), "unparsable price should clamp to the minimum")
	assert.Empty(t, oak.Description)
	assert.Equal(t, []string{"https://cdn.example.com/placeholder.jpg"}, oak.ImageURLs,
		"missing images should fall back to the placeholder set")
}

func TestUnitParseCatalogIdempotent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/catalog" {
			fmt.Fprint(wrt, `<html><body><div class="item"><a href="/products/steel-door-x">x</a></div></body></html>`)
			return
		}
		fmt.Fprint(wrt, steelDoorPage)
	}))
	t.Cleanup(srv.Close)

	logger := zerolog.Nop()

	first, err := adapter.NewCollyAdapter(testProfile, "test/0.0.0", &logger).
		ParseCatalog(context.TODO(), srv.URL+"/catalog")
	require.NoError(t, err)
	second, err := adapter.NewCollyAdapter(testProfile, "test/0.0.0", &logger).
		ParseCatalog(context.TODO(), srv.URL+"/catalog")
	require.NoError(t, err)

	assert.Equal(t, first, second, "same page content should yield the same records")
}

func TestUnitParseCatalogRetriesTransientFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			wrt.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(wrt, `<html><body></body></html>`)
	}))
	t.Cleanup(srv.Close)

	logger := zerolog.Nop()
	adp := adapter.NewCollyAdapter(testProfile, "test/0.0.0", &logger, adapter.WithRetryDelay(time.Millisecond))

	products, err := adp.ParseCatalog(context.TODO(), srv.URL+"/catalog")

	require.NoError(t, err, "should recover after transient failures")
	assert.Empty(t, products)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls), "should use the whole retry budget")
}

func TestUnitParseCatalogDeadCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
		wrt.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	logger := zerolog.Nop()
	adp := adapter.NewCollyAdapter(testProfile, "test/0.0.0", &logger, adapter.WithRetryDelay(time.Millisecond))

	_, err := adp.ParseCatalog(context.TODO(), srv.URL+"/catalog")

	require.Error(t, err, "a catalog with no fetchable pages should fail")
}

func TestUnitRegistryForURL(t *testing.T) {
	logger := zerolog.Nop()
	reg := adapter.DefaultRegistry("test/0.0.0", &logger)

	adp, err := reg.ForURL("https://ferrum-dveri.ru/catalog/vhodnye")
	require.NoError(t, err)
	assert.Equal(t, "ferrum", adp.Profile().Vendor)

	_, err = reg.ForURL("https://unknown-vendor.ru/catalog")
	require.ErrorIs(t, err, platform.ErrNoAdapter)
}

func TestUnitRegistryMatchesHostWithPort(t *testing.T) {
	logger := zerolog.Nop()
	parsed, err := url.Parse("https://ferrum-dveri.ru:8443/catalog")
	require.NoError(t, err)

	reg := adapter.NewRegistry(adapter.NewCollyAdapter(adapter.Profile{
		Vendor: "ported",
		Hosts:  []string{parsed.Host},
	}, "test/0.0.0", &logger))

	adp, err := reg.ForURL(parsed.String())
	require.NoError(t, err)
	assert.Equal(t, "ported", adp.Profile().Vendor)
}
