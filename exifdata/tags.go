package exifdata

// gpsTagNames is the fixed set of canonical GPS sub-IFD tag names. Tags whose
// decoded name appears here are grouped into the nested "GPSInfo" map instead
// of the top-level metadata map.
var gpsTagNames = map[string]bool{
	"GPSVersionID":        true,
	"GPSLatitudeRef":      true,
	"GPSLatitude":         true,
	"GPSLongitudeRef":     true,
	"GPSLongitude":        true,
	"GPSAltitudeRef":      true,
	"GPSAltitude":         true,
	"GPSTimeStamp":        true,
	"GPSSatelites":        true,
	"GPSStatus":           true,
	"GPSMeasureMode":      true,
	"GPSDOP":              true,
	"GPSSpeedRef":         true,
	"GPSSpeed":            true,
	"GPSTrackRef":         true,
	"GPSTrack":            true,
	"GPSImgDirectionRef":  true,
	"GPSImgDirection":     true,
	"GPSMapDatum":         true,
	"GPSDestLatitudeRef":  true,
	"GPSDestLatitude":     true,
	"GPSDestLongitudeRef": true,
	"GPSDestLongitude":    true,
	"GPSDestBearingRef":   true,
	"GPSDestBearing":      true,
	"GPSDestDistanceRef":  true,
	"GPSDestDistance":     true,
	"GPSProcessingMethod": true,
	"GPSAreaInformation":  true,
	"GPSDateStamp":        true,
	"GPSDifferential":     true,
}
