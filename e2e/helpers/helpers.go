package helpers

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/doorland/catalog-sync/internal/adapter"
	"github.com/doorland/catalog-sync/pkg/v1/commander"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
)

// DeclareRMQExchange is helper function for declaring RMQ exchange.
func DeclareRMQExchange(t *testing.T, ch *amqp.Channel, exchange string) {
	t.Helper()

	if err := ch.ExchangeDeclare(exchange, "direct", true, false, false, false, nil); err != nil {
		require.FailNow(t, "can't declare exchange", exchange, err)
	}
}

// DeclareRMQQueue is helper function for declaring RMQ queue and binding and cleaning them after test is finished.
func DeclareRMQQueue(t *testing.T, channel *amqp.Channel, queueName, exchange, routingKey string) {
	t.Helper()

	_, err := channel.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		require.FailNow(t, "can't declare queue", queueName, err)
	}

	err = channel.QueueBind(queueName, routingKey, exchange, false, nil)
	if err != nil {
		require.FailNow(t, "can't bind queue", queueName, routingKey, err)
	}

	t.Cleanup(func() {
		_, err := channel.QueueDelete(queueName, false, false, true)
		if err != nil {
			require.FailNow(t, "can't delete queue", queueName, err)
		}
	})
}

// WaitForTaskFinished is blocking helper function, polls the public status
// client until the task reaches a terminal state.
func WaitForTaskFinished(
	t *testing.T,
	ctx context.Context,
	statuses commander.StatusClient,
	taskID string,
) *commander.TaskStatus {
	t.Helper()

	deadline := time.After(time.Minute)

	for {
		select {
		case <-deadline:
			require.FailNow(t, "task didn't finish in time", taskID)
		case <-time.After(time.Millisecond * 250):
		}

		status, err := statuses.TaskStatus(ctx, taskID)
		if err != nil {
			require.FailNow(t, "can't get task status", err)
		}

		if status.Status == commander.StatusSuccess || status.Status == commander.StatusFailure {
			return status
		}
	}
}

// RunCounts mirrors the counters of one finished sync run.
type RunCounts struct {
	Catalogs    int32
	Created     int32
	Updated     int32
	Deactivated int32
	Failed      int32
	IsSuccess   bool
}

// GetRunCounts is helper function returning the counters of the latest
// finished run of taskID.
func GetRunCounts(t *testing.T, db *sql.DB, taskID string) RunCounts {
	t.Helper()

	var counts RunCounts
	err := db.QueryRow(
		`SELECT catalogs, created_products, updated_products, deactivated_products, failed_products, is_success
		 FROM sync_run WHERE task_id = $1 AND finished_at IS NOT NULL ORDER BY id DESC LIMIT 1`,
		taskID,
	).Scan(
		&counts.Catalogs, &counts.Created, &counts.Updated,
		&counts.Deactivated, &counts.Failed, &counts.IsSuccess,
	)
	if err != nil {
		require.FailNow(t, "can't get run counters", err)
	}

	return counts
}

// VendorProduct is one product page of the fake vendor site.
type VendorProduct struct {
	Path        string
	Name        string
	Price       string
	Description string
	Specs       [][2]string
	Images      []string
}

// VendorSite is a fake vendor storefront served over a test http server.
// The product set can be swapped between sync passes.
type VendorSite struct {
	mu       sync.Mutex
	products []VendorProduct
	image    []byte
	srv      *httptest.Server
}

// NewVendorSite starts a fake vendor site and returns it.
func NewVendorSite(t *testing.T) *VendorSite {
	t.Helper()

	site := &VendorSite{image: testPNG(t)}
	site.srv = httptest.NewServer(http.HandlerFunc(site.handle))
	t.Cleanup(site.srv.Close)

	return site
}

// URL returns the site's base URL.
func (s *VendorSite) URL() string {
	return s.srv.URL
}

// Client returns an http client for the site.
func (s *VendorSite) Client() *http.Client {
	return s.srv.Client()
}

// SetProducts replaces the whole product set of the site.
func (s *VendorSite) SetProducts(products ...VendorProduct) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
}

// Profile returns an adapter profile matching the site's host and markup.
func (s *VendorSite) Profile(t *testing.T) adapter.Profile {
	t.Helper()

	parsed, err := url.Parse(s.srv.URL)
	if err != nil {
		require.FailNow(t, "can't parse site url", err)
	}

	return adapter.Profile{
		Vendor:      "testvendor",
		Hosts:       []string{parsed.Host},
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
}

func (s *VendorSite) handle(wrt http.ResponseWriter, req *http.Request) {
	s.mu.Lock()
	products := s.products
	s.mu.Unlock()

	switch {
	case req.URL.Path == "/catalog":
		wrt.Header().Set("Content-Type", "text/html")
		_, _ = wrt.Write([]byte(catalogPage(products)))
	case strings.HasPrefix(req.URL.Path, "/img/"):
		wrt.Header().Set("Content-Type", "image/png")
		_, _ = wrt.Write(s.image)
	default:
		for ix := range products {
			if products[ix].Path == req.URL.Path {
				wrt.Header().Set("Content-Type", "text/html")
				_, _ = wrt.Write([]byte(productPage(&products[ix])))
				return
			}
		}
		wrt.WriteHeader(http.StatusNotFound)
	}
}

func catalogPage(products []VendorProduct) string {
	var buf strings.Builder
	buf.WriteString("<html><body>")
	for ix := range products {
		fmt.Fprintf(&buf, `<div class="item"><a href="%s">%s</a></div>`, products[ix].Path, products[ix].Name)
	}
	buf.WriteString("</body></html>")
	return buf.String()
}

func productPage(product *VendorProduct) string {
	var buf strings.Builder
	buf.WriteString("<html><body>")
	fmt.Fprintf(&buf, "<h1>%s</h1>", product.Name)
	fmt.Fprintf(&buf, `<div class="price">%s</div>`, product.Price)
	fmt.Fprintf(&buf, `<div class="desc">%s</div>`, product.Description)

	buf.WriteString(`<table class="specs">`)
	for _, spec := range product.Specs {
		fmt.Fprintf(&buf, `<tr><td class="n">%s</td><td class="v">%s</td></tr>`, spec[0], spec[1])
	}
	buf.WriteString("</table>")

	buf.WriteString(`<div class="gallery">`)
	for _, img := range product.Images {
		fmt.Fprintf(&buf, `<img src="%s">`, img)
	}
	buf.WriteString("</div>")

	buf.WriteString("</body></html>")
	return buf.String()
}

// testPNG returns a decodable png payload large enough to pass the image
// pipeline's size validation.
func testPNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 4), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		require.FailNow(t, "can't encode test png", err)
	}

	return buf.Bytes()
}
