package services

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"mime"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/jdeng/goheif"

	"github.com/edemey4711/MID/exifdata"
)

// transcodeQuality is used when a non-JPEG container is re-encoded to JPEG.
const transcodeQuality = 95

// allowedExtensions is the closed set of upload file types.
var allowedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"heic": true,
	"heif": true,
	"webp": true,
}

// AllowedExtension reports whether ext (without dot, any case) is uploadable.
func AllowedExtension(ext string) bool {
	return allowedExtensions[strings.ToLower(ext)]
}

// NormalizedUpload is the output of the container normalizer: the bytes to
// persist and the unique filename they go under. When the source container
// was transcoded the extension reflects the re-encoded format.
type NormalizedUpload struct {
	Filename    string
	ContentType string
	Data        []byte
	Transcoded  bool
}

// NormalizeContainer turns a raw upload into storable bytes. HEIC/HEIF
// containers are decoded, rotated upright per their orientation flag and
// re-encoded as JPEG with the embedded EXIF block carried over verbatim;
// everything else passes through unchanged. A container that cannot be
// parsed as its declared format is a fatal upload error.
func NormalizeContainer(raw []byte, originalName string) (*NormalizedUpload, error) {
	base := filepath.Base(originalName)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	if !allowedExtensions[ext] {
		return nil, fmt.Errorf("unsupported file extension %q", ext)
	}

	if ext == "heic" || ext == "heif" {
		return transcodeHeif(raw, base)
	}

	return &NormalizedUpload{
		Filename:    uniqueName(base, ext),
		ContentType: mime.TypeByExtension("." + ext),
		Data:        raw,
	}, nil
}

func transcodeHeif(raw []byte, base string) (*NormalizedUpload, error) {
	img, err := goheif.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode heif container: %w", err)
	}

	// best effort: a HEIC without EXIF still transcodes fine
	exifBlock, err := goheif.ExtractExif(bytes.NewReader(raw))
	if err != nil {
		exifBlock = nil
	}

	return encodeTranscoded(img, exifBlock, base)
}

// encodeTranscoded turns a decoded non-JPEG container into the stored JPEG:
// pixels rotated upright per the orientation flag in exifBlock, the block
// itself spliced verbatim into the output, and the filename extension
// normalized to the re-encoded format.
func encodeTranscoded(img image.Image, exifBlock []byte, base string) (*NormalizedUpload, error) {
	img = applyOrientation(img, orientationFromExif(exifBlock))

	var buf bytes.Buffer
	w, err := newJPEGWriterWithExif(&buf, exifBlock)
	if err != nil {
		return nil, fmt.Errorf("prepare jpeg writer: %w", err)
	}
	if err := jpeg.Encode(w, img, &jpeg.Options{Quality: transcodeQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return &NormalizedUpload{
		Filename:    uniqueName(base, "jpg"),
		ContentType: "image/jpeg",
		Data:        buf.Bytes(),
		Transcoded:  true,
	}, nil
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// uniqueName builds a collision-resistant stored filename from a random
// token and the sanitized user-supplied base name.
func uniqueName(base, ext string) string {
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = unsafeNameChars.ReplaceAllString(stem, "_")
	stem = strings.Trim(stem, "._-")
	if stem == "" {
		stem = "upload"
	}
	return fmt.Sprintf("%s_%s.%s", uuid.New().String(), stem, ext)
}

// exifHeader prefixes an EXIF payload inside a JPEG APP1 segment.
var exifHeader = []byte("Exif\x00\x00")

// orientationFromExif reads the orientation flag out of a raw EXIF block.
func orientationFromExif(block []byte) int {
	if len(block) == 0 {
		return 1
	}
	tiffData := bytes.TrimPrefix(block, exifHeader)
	return exifdata.Orientation(exifdata.Extract(bytes.NewReader(tiffData)))
}

// applyOrientation rotates/flips img so it displays upright without relying
// on the orientation flag. The cases mirror the EXIF orientation values 2-8.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	}
	return img
}

// skipWriter drops the first n bytes it is handed, letting us replace the
// SOI marker jpeg.Encode emits with our own SOI+APP1 preamble.
type skipWriter struct {
	w    io.Writer
	skip int
}

func (s *skipWriter) Write(p []byte) (int, error) {
	total := len(p)
	if s.skip > 0 {
		if len(p) <= s.skip {
			s.skip -= len(p)
			return total, nil
		}
		p = p[s.skip:]
		s.skip = 0
	}
	if _, err := s.w.Write(p); err != nil {
		return 0, err
	}
	return total, nil
}

// newJPEGWriterWithExif writes the JPEG SOI marker followed by an APP1
// segment holding block, then returns a writer that strips the encoder's
// own SOI so the segments line up.
func newJPEGWriterWithExif(w io.Writer, block []byte) (io.Writer, error) {
	if _, err := w.Write([]byte{0xff, 0xd8}); err != nil {
		return nil, err
	}
	if len(block) > 0 {
		if !bytes.HasPrefix(block, exifHeader) {
			block = append(append([]byte{}, exifHeader...), block...)
		}
		if len(block)+2 > 0xffff {
			// oversized EXIF cannot fit one APP1 segment; drop it
			return &skipWriter{w: w, skip: 2}, nil
		}
		segLen := len(block) + 2
		header := []byte{0xff, 0xe1, byte(segLen >> 8), byte(segLen & 0xff)}
		if _, err := w.Write(header); err != nil {
			return nil, err
		}
		if _, err := w.Write(block); err != nil {
			return nil, err
		}
	}
	return &skipWriter{w: w, skip: 2}, nil
}
