// Package images downloads, validates, transcodes and stores product images.
//
// Every accepted image is flattened onto a white background, bounded to a
// fixed box and re-encoded as JPEG at one quality setting, so storage cost
// stays bounded and clients render a uniform format. Images live under a
// per-product directory, which makes bulk deletion trivial.
package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/doorland/catalog-sync/internal/fetcher"
)

const (
	// MaxBytes is the hard cap on a single image payload.
	MaxBytes = 10 << 20
	// MinBytes rejects payloads too small to be a real image.
	MinBytes = 100

	maxDimension = 1200
	jpegQuality  = 80
	mainName     = "main"
)

// Fetcher fetches binary assets via http.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetcher.Response, error)
}

// Stored describes a successfully stored local image.
type Stored struct {
	LocalURL string
	FileSize int64
}

// Pipeline downloads product images into a local media root and serves
// them under baseURL following the products/<id>/{main|<index>}.jpg layout.
type Pipeline struct {
	fetcher   Fetcher
	mediaRoot string
	baseURL   string
}

// NewPipeline returns a new Pipeline storing files under mediaRoot and
// building servable URLs from baseURL.
func NewPipeline(fetcher Fetcher, mediaRoot, baseURL string) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		mediaRoot: mediaRoot,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// DownloadAndStore fetches url, validates and transcodes the payload and
// stores it under the product's image directory. The main image is stored
// as "main", others under their zero based index. On any rejection an
// error is returned and nothing is stored, the caller records the failure
// and falls back to the remote URL.
func (p *Pipeline) DownloadAndStore(
	ctx context.Context,
	url string,
	productID int,
	imageIndex int,
	isMain bool,
) (*Stored, error) {
	resp, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("can't fetch image: %w", err)
	}
	defer resp.Body.Close()

	if !strings.HasPrefix(resp.ContentType, "image/") {
		return nil, fmt.Errorf("%w: content type %q", ErrNotImage, resp.ContentType)
	}
	if resp.ContentLength > MaxBytes {
		return nil, fmt.Errorf("%w: declared %d bytes", ErrTooLarge, resp.ContentLength)
	}

	payload, err := readBounded(resp.Body)
	if err != nil {
		return nil, err
	}

	normalized, err := normalize(payload)
	if err != nil {
		return nil, fmt.Errorf("can't decode image: %w", err)
	}

	path := p.imagePath(productID, imageName(imageIndex, isMain))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("can't create product image directory: %w", err)
	}
	if err := imaging.Save(normalized, path, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("can't save image: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("can't stat saved image: %w", err)
	}

	return &Stored{
		LocalURL: p.imageURL(productID, imageName(imageIndex, isMain)),
		FileSize: info.Size(),
	}, nil
}

// DeleteProductImages removes the whole per-product image directory tree.
// Used before every resync and on product deletion.
func (p *Pipeline) DeleteProductImages(productID int) error {
	dir := filepath.Join(p.mediaRoot, "products", strconv.Itoa(productID))
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("can't remove product images: %w", err)
	}
	return nil
}

// readBounded reads the payload enforcing actual size limits regardless of
// what the server declared.
func readBounded(body io.Reader) ([]byte, error) {
	payload, err := io.ReadAll(io.LimitReader(body, MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("can't read image payload: %w", err)
	}
	if len(payload) > MaxBytes {
		return nil, fmt.Errorf("%w: payload over %d bytes", ErrTooLarge, MaxBytes)
	}
	if len(payload) < MinBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooSmall, len(payload))
	}
	return payload, nil
}

// normalize decodes the payload, flattens any alpha or palette channel onto
// a white background and bounds the result to maxDimension, never scaling up.
func normalize(payload []byte) (image.Image, error) {
	decoded, err := imaging.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	bounds := decoded.Bounds()
	flattened := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	flattened = imaging.Overlay(flattened, decoded, image.Pt(0, 0), 1.0)

	return imaging.Fit(flattened, maxDimension, maxDimension, imaging.Lanczos), nil
}

func imageName(index int, isMain bool) string {
	if isMain {
		return mainName
	}
	return strconv.Itoa(index)
}

func (p *Pipeline) imagePath(productID int, name string) string {
	return filepath.Join(p.mediaRoot, "products", strconv.Itoa(productID), name+".jpg")
}

func (p *Pipeline) imageURL(productID int, name string) string {
	return fmt.Sprintf("%s/products/%d/%s.jpg", p.baseURL, productID, name)
}
