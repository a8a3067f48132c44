package images_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/doorland/catalog-sync/internal/fetcher"
	"github.com/doorland/catalog-sync/internal/images"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitDownloadAndStore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
		switch req.URL.Path {
		case "/door.png":
			wrt.Header().Set("Content-Type", "image/png")
			wrt.Write(transparentPNG(t, 40, 30))
		case "/tiny.png":
			wrt.Header().Set("Content-Type", "image/png")
			wrt.Write([]byte("too-small"))
		case "/page.html":
			wrt.Header().Set("Content-Type", "text/html")
			wrt.Write(bytes.Repeat([]byte("x"), 500))
		default:
			wrt.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	mediaRoot := t.TempDir()
	pipe := images.NewPipeline(newTestFetcher(srv), mediaRoot, "/media")

	t.Run("stores main image flattened to jpeg", func(t *testing.T) {
		stored, err := pipe.DownloadAndStore(context.TODO(), srv.URL+"/door.png", 7, 0, true)

		require.NoError(t, err)
		assert.Equal(t, "/media/products/7/main.jpg", stored.LocalURL)
		assert.Positive(t, stored.FileSize)

		path := filepath.Join(mediaRoot, "products", "7", "main.jpg")
		payload, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.EqualValues(t, len(payload), stored.FileSize)

		decoded, format, err := image.Decode(bytes.NewReader(payload))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format, "should transcode to jpeg")
		assert.Equal(t, 40, decoded.Bounds().Dx(), "should never scale up")

		r, g, b, _ := decoded.At(0, 0).RGBA()
		assert.Greater(t, r, uint32(0xf000), "transparent pixels should flatten to white")
		assert.Greater(t, g, uint32(0xf000))
		assert.Greater(t, b, uint32(0xf000))
	})

	t.Run("stores secondary images under their index", func(t *testing.T) {
		stored, err := pipe.DownloadAndStore(context.TODO(), srv.URL+"/door.png", 7, 2, false)

		require.NoError(t, err)
		assert.Equal(t, "/media/products/7/2.jpg", stored.LocalURL)
		assert.FileExists(t, filepath.Join(mediaRoot, "products", "7", "2.jpg"))
	})

	t.Run("rejects non image content type", func(t *testing.T) {
		_, err := pipe.DownloadAndStore(context.TODO(), srv.URL+"/page.html", 7, 0, true)

		require.ErrorIs(t, err, images.ErrNotImage)
	})

	t.Run("rejects implausibly small payload", func(t *testing.T) {
		_, err := pipe.DownloadAndStore(context.TODO(), srv.URL+"/tiny.png", 7, 0, true)

		require.ErrorIs(t, err, images.ErrTooSmall)
	})

	t.Run("propagates fetch failure", func(t *testing.T) {
		_, err := pipe.DownloadAndStore(context.TODO(), srv.URL+"/missing.png", 7, 0, true)

		require.ErrorIs(t, err, fetcher.ErrStatusNotOK)
	})
}

func TestUnitDeleteProductImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
		wrt.Header().Set("Content-Type", "image/png")
		wrt.Write(transparentPNG(t, 20, 20))
	}))
	t.Cleanup(srv.Close)

	mediaRoot := t.TempDir()
	pipe := images.NewPipeline(newTestFetcher(srv), mediaRoot, "/media")

	_, err := pipe.DownloadAndStore(context.TODO(), srv.URL, 11, 0, true)
	require.NoError(t, err)
	_, err = pipe.DownloadAndStore(context.TODO(), srv.URL, 11, 1, false)
	require.NoError(t, err)

	require.NoError(t, pipe.DeleteProductImages(11))

	assert.NoDirExists(t, filepath.Join(mediaRoot, "products", "11"))
	assert.NoError(t, pipe.DeleteProductImages(11), "deleting absent directory should be a no-op")
}

func newTestFetcher(srv *httptest.Server) *fetcher.Fetcher {
	return fetcher.New(srv.Client(), "test/0.0.0", fetcher.WithBaseDelay(time.Millisecond))
}

// transparentPNG encodes a PNG with a fully transparent background and a
// small opaque square, large enough to pass the minimum size check.
func transparentPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for x := width / 2; x < width; x++ {
		for y := height / 2; y < height; y++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 13), G: uint8(y * 29), B: uint8(x * y), A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	return buf.Bytes()
}
