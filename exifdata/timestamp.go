package exifdata

import (
	"strings"
)

// CaptureTime is the original capture moment, split the way the record
// columns store it. Both parts are set together or not at all.
type CaptureTime struct {
	Date string // "YYYY-MM-DD"
	Time string // "HH:MM:SS"
}

// CaptureTimestamp reads the DateTimeOriginal tag, which EXIF stores as
// "YYYY:MM:DD HH:MM:SS". The date separators are rewritten to dashes, the
// time part passes through unchanged. Absence or any malformation yields
// ok=false.
func CaptureTimestamp(md Metadata) (CaptureTime, bool) {
	v, ok := md["DateTimeOriginal"]
	if !ok {
		return CaptureTime{}, false
	}

	var s string
	switch x := v.(type) {
	case string:
		s = x
	case []byte:
		s = string(x)
	default:
		return CaptureTime{}, false
	}

	parts := strings.Split(strings.TrimSpace(s), " ")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return CaptureTime{}, false
	}

	return CaptureTime{
		Date: strings.ReplaceAll(parts[0], ":", "-"),
		Time: parts[1],
	}, true
}
