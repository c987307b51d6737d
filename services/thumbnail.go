package services

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/webp"
)

// Thumbnail bounds and encoding quality. Thumbnails are always JPEG so
// paletted and alpha sources flatten to an RGB baseline.
const (
	ThumbnailBound   = 400
	thumbnailQuality = 80
)

// Thumbnail decodes src, rotates it upright per the given EXIF orientation,
// scales it to fit bound*bound preserving aspect ratio, and re-encodes it
// as JPEG. Callers treat failure as non-fatal: the record keeps a null
// thumbnail reference.
func Thumbnail(src io.Reader, bound, orientation int) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode thumbnail source: %w", err)
	}

	img = applyOrientation(img, orientation)
	img = imaging.Fit(img, bound, bound, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(thumbnailQuality)); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// ThumbnailName derives the stored thumbnail filename from the original's.
func ThumbnailName(original string) string {
	return strings.TrimSuffix(original, filepath.Ext(original)) + "_thumb.jpg"
}
