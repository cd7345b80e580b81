package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-backend/internal/config"
)

func newTestStorage(t *testing.T, publicBase string) *MinIOStorage {
	t.Helper()
	s, err := NewMinIOStorage(config.MinIOConfig{
		Endpoint:      "localhost:9000",
		AccessKey:     "minio",
		SecretKey:     "minio123",
		PublicBaseURL: publicBase,
	})
	require.NoError(t, err)
	return s
}

func TestPublicURL_DerivedFromEndpoint(t *testing.T) {
	s := newTestStorage(t, "")

	url, err := s.PublicURL("products", "public/abc.png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/products/public/abc.png", url)
}

func TestPublicURL_UsesPublicBaseOverride(t *testing.T) {
	s := newTestStorage(t, "https://cdn.example.com/")

	url, err := s.PublicURL("products", "public/abc.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/products/public/abc.png", url)
}

func TestPublicURL_RejectsPrivateKey(t *testing.T) {
	s := newTestStorage(t, "")

	_, err := s.PublicURL("products", "private/abc.png")
	assert.ErrorIs(t, err, ErrNotPublicKey)
}

func TestPublicURL_NoBase(t *testing.T) {
	s := &MinIOStorage{}

	_, err := s.PublicURL("products", "public/abc.png")
	assert.ErrorIs(t, err, ErrNoPublicBase)
}

func TestPublicReadPolicy(t *testing.T) {
	policy := publicReadPolicy("products")
	assert.Contains(t, policy, `arn:aws:s3:::products/public/*`)
	assert.Contains(t, policy, `s3:GetObject`)
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestValidateImage(t *testing.T) {
	p := NewImageProcessor(0)
	assert.Equal(t, int64(DefaultMaxImageBytes), p.MaxSize)

	assert.NoError(t, p.ValidateImage(encodePNG(t, 10, 10)))
	assert.Error(t, p.ValidateImage([]byte("definitely not an image")))

	small := NewImageProcessor(16)
	assert.Error(t, small.ValidateImage(encodePNG(t, 10, 10)))
}

func TestThumbnail_FitsWithinBounds(t *testing.T) {
	p := NewImageProcessor(0)

	thumb, err := p.Thumbnail(encodePNG(t, 600, 400))
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(thumb))
	require.NoError(t, err)
	assert.Equal(t, ThumbnailSize, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

// gopher.lossless.webp: 75x100 VP8L
func TestImageProcessor_AcceptsWebP(t *testing.T) {
	data, err := os.ReadFile("testdata/gopher.lossless.webp")
	require.NoError(t, err)

	p := NewImageProcessor(0)
	require.NoError(t, p.ValidateImage(data))

	thumb, err := p.Thumbnail(data)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(thumb))
	require.NoError(t, err)
	assert.Equal(t, 75, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}
