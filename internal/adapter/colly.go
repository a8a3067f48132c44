package adapter

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/doorland/catalog-sync/internal/platform/models"
	"github.com/doorland/catalog-sync/internal/pricing"
)

const (
	defaultTimeout    = 15 * time.Second
	defaultMaxRetries = 3
	defaultRetryDelay = time.Second
)

// minPrice is the lower clamp for unparsable or zero vendor prices.
var minPrice = decimal.NewFromInt(1)

var slugLike = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// CollyAdapter is the shared SiteAdapter implementation. It walks the
// catalog page, discovers pagination, visits every deduplicated product
// detail page and extracts raw records with safe defaults for malformed
// fields. Transient page failures are retried with exponential backoff and
// skipped after the retry budget, never failing the whole catalog.
type CollyAdapter struct {
	profile      Profile
	userAgent    string
	timeout      time.Duration
	retryDelay   time.Duration
	maxRetries   int
	placeholders []string
	logger       *zerolog.Logger
}

// CollyOption is custom configuration of CollyAdapter.
type CollyOption func(a *CollyAdapter)

// NewCollyAdapter returns a new CollyAdapter for profile.
func NewCollyAdapter(profile Profile, userAgent string, logger *zerolog.Logger, ops ...CollyOption) *CollyAdapter {
	adp := &CollyAdapter{
		profile:    profile,
		userAgent:  userAgent,
		timeout:    defaultTimeout,
		retryDelay: defaultRetryDelay,
		maxRetries: defaultMaxRetries,
		logger:     logger,
	}

	for _, op := range ops {
		op(adp)
	}

	return adp
}

// WithTimeout sets the per request timeout.
func WithTimeout(timeout time.Duration) CollyOption {
	return func(a *CollyAdapter) {
		a.timeout = timeout
	}
}

// WithRetryDelay sets the first retry delay. The delay doubles per attempt.
func WithRetryDelay(delay time.Duration) CollyOption {
	return func(a *CollyAdapter) {
		a.retryDelay = delay
	}
}

// WithPlaceholderImages sets the image set substituted when a product page
// exposes no images at all.
func WithPlaceholderImages(urls []string) CollyOption {
	return func(a *CollyAdapter) {
		a.placeholders = urls
	}
}

// Profile returns the adapter's vendor profile.
func (a *CollyAdapter) Profile() Profile {
	return a.profile
}

// ParseCatalog walks catalogURL and returns the raw product records of
// every reachable product detail page, in page order. It returns an error
// only when not a single catalog page could be fetched.
func (a *CollyAdapter) ParseCatalog(ctx context.Context, catalogURL string) ([]models.RawProduct, error) {
	lists := colly.NewCollector(colly.UserAgent(a.userAgent))
	lists.SetRequestTimeout(a.timeout)
	details := lists.Clone()

	var (
		products  []models.RawProduct
		listPages int
		retries   = map[string]int{}
		seenLinks = map[string]bool{}
	)

	abortOnCancel := func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	}
	lists.OnRequest(abortOnCancel)
	details.OnRequest(abortOnCancel)

	lists.OnError(a.retryOrSkip(retries))
	details.OnError(a.retryOrSkip(retries))

	lists.OnResponse(func(r *colly.Response) {
		listPages++
	})

	lists.OnHTML(a.profile.ProductLink, func(e *colly.HTMLElement) {
		link := e.Request.AbsoluteURL(e.Attr("href"))
		if link == "" || seenLinks[link] {
			return
		}
		seenLinks[link] = true
		_ = details.Visit(link)
	})

	if a.profile.Pagination != "" {
		lists.OnHTML(a.profile.Pagination, func(e *colly.HTMLElement) {
			_ = lists.Visit(e.Request.AbsoluteURL(e.Attr("href")))
		})
	}

	details.OnHTML("html", func(e *colly.HTMLElement) {
		record, ok := a.extractProduct(e)
		if !ok {
			return
		}
		products = append(products, record)
	})

	if err := lists.Visit(catalogURL); err != nil {
		return nil, fmt.Errorf("can't visit catalog url: %w", err)
	}
	lists.Wait()
	details.Wait()

	if listPages == 0 {
		return nil, fmt.Errorf("can't fetch any catalog page of %s", catalogURL)
	}

	return products, nil
}

// retryOrSkip retries transient page failures with doubling delay and
// logs a warning when the retry budget is exhausted.
func (a *CollyAdapter) retryOrSkip(retries map[string]int) colly.ErrorCallback {
	return func(r *colly.Response, err error) {
		pageURL := r.Request.URL.String()

		transient := r.StatusCode == 0 || r.StatusCode >= 500
		if transient && retries[pageURL] < a.maxRetries-1 {
			delay := a.retryDelay << retries[pageURL]
			retries[pageURL]++
			time.Sleep(delay)
			_ = r.Request.Retry()
			return
		}

		a.logger.Warn().
			Err(err).
			Str("vendor", a.profile.Vendor).
			Str("pageUrl", pageURL).
			Msg("page skipped")
	}
}

// extractProduct builds a raw record from a product detail page,
// substituting safe defaults for missing or malformed fields. Records
// without a name are dropped.
func (a *CollyAdapter) extractProduct(e *colly.HTMLElement) (models.RawProduct, bool) {
	pageURL := e.Request.URL.String()

	name := strings.TrimSpace(e.ChildText(a.profile.Name))
	if name == "" {
		a.logger.Warn().
			Str("vendor", a.profile.Vendor).
			Str("pageUrl", pageURL).
			Msg("record without name dropped")
		return models.RawProduct{}, false
	}

	price := pricing.ParsePrice(e.ChildText(a.profile.Price))
	if price.LessThan(minPrice) {
		price = minPrice
	}

	record := models.RawProduct{
		Name:            name,
		Slug:            slugFromURL(e.Request.URL.Path),
		Description:     strings.TrimSpace(e.ChildText(a.profile.Description)),
		Characteristics: a.extractCharacteristics(e),
		Price:           price,
		ImageURLs:       a.extractImages(e),
		URL:             pageURL,
	}

	return record, true
}

func (a *CollyAdapter) extractCharacteristics(e *colly.HTMLElement) []models.Characteristic {
	var chars []models.Characteristic
	e.ForEach(a.profile.CharRow, func(_ int, row *colly.HTMLElement) {
		name := strings.TrimSpace(row.ChildText(a.profile.CharName))
		value := strings.TrimSpace(row.ChildText(a.profile.CharValue))
		if name == "" || value == "" {
			return
		}
		chars = append(chars, models.Characteristic{Name: name, Value: value})
	})
	return chars
}

func (a *CollyAdapter) extractImages(e *colly.HTMLElement) []string {
	attr := a.profile.ImageAttr
	if attr == "" {
		attr = "src"
	}

	var urls []string
	e.DOM.Find(a.profile.Image).Each(func(_ int, img *goquery.Selection) {
		src := img.AttrOr(attr, "")
		if src == "" {
			// lazy loading markup keeps already rendered images in src only
			src = img.AttrOr("src", "")
		}
		if src = e.Request.AbsoluteURL(src); src != "" {
			urls = append(urls, src)
		}
	})

	urls = lo.Uniq(urls)
	if len(urls) == 0 {
		return a.placeholders
	}

	return urls
}

// slugFromURL derives an optional slug from the product page path. It is
// computed once at record construction and never mutated afterwards.
func slugFromURL(urlPath string) *string {
	base := strings.ToLower(strings.TrimSuffix(path.Base(strings.TrimRight(urlPath, "/")), ".html"))
	if !slugLike.MatchString(base) {
		return nil
	}
	return lo.ToPtr(base)
}
