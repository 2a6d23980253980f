package geo

import "errors"

var (
	// ErrNoGPS indicates the file carries no GPS block at all.
	ErrNoGPS = errors.New("no gps data")
	// ErrIncompleteGPS indicates a GPS block exists but is missing the
	// latitude or longitude component tuple.
	ErrIncompleteGPS = errors.New("incomplete gps data")
)

// Coordinate is a pair of signed decimal-degree values.
type Coordinate struct {
	Lat float64
	Lon float64
}

// ToDecimalDegrees combines a degrees/minutes/seconds triple into decimal
// degrees. Callers normalize rational components to float64 before calling.
func ToDecimalDegrees(degrees, minutes, seconds float64) float64 {
	return degrees + minutes/60 + seconds/3600
}

// ApplyHemisphere negates a decimal-degree value for southern latitudes
// ("S") and western longitudes ("W"). Any other reference leaves the value
// unchanged.
func ApplyHemisphere(value float64, ref string) float64 {
	if ref == "S" || ref == "W" {
		return -value
	}
	return value
}
