package exifdata

import (
	"strings"
)

// Coordinate is a validated decimal-degree position. Latitude and longitude
// are always set together; a partially resolved pair is never produced.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Location resolves the GPS sub-block of md into signed decimal degrees.
// It needs GPSLatitude/GPSLongitude as 3-element degree/minute/second
// sequences plus the two hemisphere reference fields; southern and western
// hemispheres negate the value. Any missing or malformed field makes the
// whole pair unavailable (ok=false).
func Location(md Metadata) (Coordinate, bool) {
	gps := md.GPS()
	if gps == nil {
		return Coordinate{}, false
	}

	lat, ok := dmsToDegrees(gps["GPSLatitude"])
	if !ok {
		return Coordinate{}, false
	}
	lng, ok := dmsToDegrees(gps["GPSLongitude"])
	if !ok {
		return Coordinate{}, false
	}
	latRef, ok := hemisphere(gps["GPSLatitudeRef"])
	if !ok {
		return Coordinate{}, false
	}
	lngRef, ok := hemisphere(gps["GPSLongitudeRef"])
	if !ok {
		return Coordinate{}, false
	}

	if latRef == "S" {
		lat = -lat
	}
	if lngRef == "W" {
		lng = -lng
	}

	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Coordinate{}, false
	}
	return Coordinate{Lat: lat, Lng: lng}, true
}

// dmsToDegrees converts a degrees/minutes/seconds triple into decimal
// degrees. Each element may be a rational or a plain number.
func dmsToDegrees(v interface{}) (float64, bool) {
	seq, ok := v.([]interface{})
	if !ok || len(seq) < 3 {
		return 0, false
	}
	var parts [3]float64
	for i := 0; i < 3; i++ {
		f, ok := toFloat(seq[i])
		if !ok {
			return 0, false
		}
		parts[i] = f
	}
	return parts[0] + parts[1]/60 + parts[2]/3600, true
}

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case Rational:
		return x.Float()
	case float64:
		return x, true
	case int64:
		return float64(x), true
	}
	return 0, false
}

// hemisphere decodes a reference field ("N"/"S"/"E"/"W"). The value may
// arrive as a string or a raw byte string, possibly NUL-padded.
func hemisphere(v interface{}) (string, bool) {
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case []byte:
		s = string(x)
	default:
		return "", false
	}
	s = strings.ToUpper(strings.TrimSpace(strings.Trim(s, "\x00")))
	if s == "" {
		return "", false
	}
	return s, true
}
