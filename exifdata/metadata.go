package exifdata

import (
	"io"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// Metadata maps canonical EXIF tag names to decoded values. Values are one
// of: int64, float64, string, []byte, Rational, a slice of those, or a
// nested Metadata holding the GPS sub-block under the "GPSInfo" key.
type Metadata map[string]interface{}

// Rational is a numerator/denominator pair as stored in EXIF numeric fields.
type Rational struct {
	Num int64
	Den int64
}

// Float divides the rational out. A zero denominator reports failure
// instead of Inf/NaN.
func (r Rational) Float() (float64, bool) {
	if r.Den == 0 {
		return 0, false
	}
	return float64(r.Num) / float64(r.Den), true
}

const gpsKey = "GPSInfo"

// GPS returns the nested GPS sub-map, or nil if the image carried none.
func (m Metadata) GPS() Metadata {
	sub, ok := m[gpsKey].(Metadata)
	if !ok {
		return nil
	}
	return sub
}

// Extract decodes the embedded EXIF block of r into a Metadata map. Images
// without EXIF are a normal case; that and every decode failure degrade to
// an empty map rather than an error.
func Extract(r io.Reader) Metadata {
	md := Metadata{}
	x, err := exif.Decode(r)
	if err != nil {
		return md
	}
	_ = x.Walk(&collector{md: md})
	return md
}

type collector struct {
	md Metadata
}

func (c *collector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	v := tagValue(tag)
	if v == nil {
		return nil
	}
	key := string(name)
	if gpsTagNames[key] {
		gps, ok := c.md[gpsKey].(Metadata)
		if !ok {
			gps = Metadata{}
			c.md[gpsKey] = gps
		}
		gps[key] = v
	} else {
		c.md[key] = v
	}
	return nil
}

// tagValue converts a decoded tiff tag into a plain Go value. Multi-valued
// tags become a slice; a single value is unwrapped. Tags that cannot be
// converted are dropped (nil).
func tagValue(tag *tiff.Tag) interface{} {
	n := int(tag.Count)
	switch tag.Format() {
	case tiff.StringVal:
		s, err := tag.StringVal()
		if err != nil {
			return append([]byte(nil), tag.Val...)
		}
		return s
	case tiff.RatVal:
		vals := make([]interface{}, 0, n)
		for i := 0; i < n; i++ {
			num, den, err := tag.Rat2(i)
			if err != nil {
				return nil
			}
			vals = append(vals, Rational{Num: num, Den: den})
		}
		return unwrap(vals)
	case tiff.IntVal:
		vals := make([]interface{}, 0, n)
		for i := 0; i < n; i++ {
			v, err := tag.Int64(i)
			if err != nil {
				return nil
			}
			vals = append(vals, v)
		}
		return unwrap(vals)
	case tiff.FloatVal:
		vals := make([]interface{}, 0, n)
		for i := 0; i < n; i++ {
			v, err := tag.Float(i)
			if err != nil {
				return nil
			}
			vals = append(vals, v)
		}
		return unwrap(vals)
	default:
		// undefined/unknown payloads pass through as raw byte strings
		return append([]byte(nil), tag.Val...)
	}
}

func unwrap(vals []interface{}) interface{} {
	if len(vals) == 1 {
		return vals[0]
	}
	return vals
}

// Orientation returns the EXIF orientation flag, defaulting to 1 (upright)
// when absent or malformed.
func Orientation(md Metadata) int {
	switch v := md["Orientation"].(type) {
	case int64:
		if v >= 1 && v <= 8 {
			return int(v)
		}
	case float64:
		if v >= 1 && v <= 8 {
			return int(v)
		}
	}
	return 1
}
