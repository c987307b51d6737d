package services

import (
	"bytes"
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThumbnailBoundsLandscape(t *testing.T) {
	tb, err := Thumbnail(bytes.NewReader(pngBytes(t, 800, 600)), 400, 1)
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(tb))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}

func TestThumbnailBoundsPortrait(t *testing.T) {
	tb, err := Thumbnail(bytes.NewReader(pngBytes(t, 600, 1200)), 400, 1)
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(tb))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())
}

func TestThumbnailNeverUpscalesAboveBound(t *testing.T) {
	tb, err := Thumbnail(bytes.NewReader(pngBytes(t, 3000, 2000)), 400, 1)
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(tb))
	require.NoError(t, err)
	assert.LessOrEqual(t, img.Bounds().Dx(), 400)
	assert.LessOrEqual(t, img.Bounds().Dy(), 400)
}

func TestThumbnailAppliesOrientation(t *testing.T) {
	// orientation 6 turns an 800x600 source into a 600x800 display image
	tb, err := Thumbnail(bytes.NewReader(pngBytes(t, 800, 600)), 400, 6)
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(tb))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())
}

func TestThumbnailCorruptSource(t *testing.T) {
	_, err := Thumbnail(strings.NewReader("not an image"), 400, 1)
	assert.Error(t, err)
}

func TestThumbnailName(t *testing.T) {
	assert.Equal(t, "abc_castle_thumb.jpg", ThumbnailName("abc_castle.png"))
	assert.Equal(t, "abc_castle_thumb.jpg", ThumbnailName("abc_castle.jpg"))
	assert.Equal(t, "noext_thumb.jpg", ThumbnailName("noext"))
}
