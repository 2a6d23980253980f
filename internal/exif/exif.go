package exif

import (
	"errors"
	"fmt"
	"os"

	"photorium/internal/geo"

	goexif "github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
	"github.com/rwcarlsen/goexif/tiff"
)

// ErrNoEXIF indicates the file opened fine but carries no parseable EXIF
// block.
var ErrNoEXIF = errors.New("no exif data")

func init() {
	// Vendor maker-note parsers so manufacturer-specific fields decode.
	goexif.RegisterParsers(mknote.All...)
}

// Data wraps a decoded EXIF block.
type Data struct {
	x *goexif.Exif
}

// Decode reads the EXIF block from an image file. A file that cannot be
// opened returns the underlying I/O error; a readable file without a
// parseable EXIF block returns ErrNoEXIF.
func Decode(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	x, err := goexif.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoEXIF, err)
	}
	return &Data{x: x}, nil
}

// Model returns the camera model tag, if present.
func (d *Data) Model() (string, bool) {
	tag, err := d.x.Get(goexif.Model)
	if err != nil {
		return "", false
	}
	model, err := tag.StringVal()
	if err != nil {
		return "", false
	}
	return model, true
}

// dumpWalker collects every readable tag into a name -> Value map.
type dumpWalker map[string]Value

func (w dumpWalker) Walk(name goexif.FieldName, tag *tiff.Tag) error {
	w[string(name)] = fromTag(tag)
	return nil
}

// Dump returns every readable EXIF tag keyed by tag name. Tags that fail
// to decode individually are skipped rather than failing the whole dump.
func (d *Data) Dump() map[string]Value {
	out := dumpWalker{}
	if err := d.x.Walk(out); err != nil {
		// Walk only fails if the walker does; ours never does.
		return out
	}
	return out
}

// GPS decodes the GPS block into signed decimal degrees. It returns
// geo.ErrNoGPS when the file has no GPS fields at all, and
// geo.ErrIncompleteGPS when a GPS block exists but the latitude or
// longitude tuple is missing.
func (d *Data) GPS() (geo.Coordinate, error) {
	latTag, latErr := d.x.Get(goexif.GPSLatitude)
	lonTag, lonErr := d.x.Get(goexif.GPSLongitude)

	if latErr != nil && lonErr != nil && !d.hasGPSBlock() {
		return geo.Coordinate{}, geo.ErrNoGPS
	}
	if latErr != nil || lonErr != nil {
		return geo.Coordinate{}, geo.ErrIncompleteGPS
	}

	lat, err := dmsValue(latTag)
	if err != nil {
		return geo.Coordinate{}, geo.ErrIncompleteGPS
	}
	lon, err := dmsValue(lonTag)
	if err != nil {
		return geo.Coordinate{}, geo.ErrIncompleteGPS
	}

	lat = geo.ApplyHemisphere(lat, d.refString(goexif.GPSLatitudeRef))
	lon = geo.ApplyHemisphere(lon, d.refString(goexif.GPSLongitudeRef))

	return geo.Coordinate{Lat: lat, Lon: lon}, nil
}

// hasGPSBlock reports whether any GPS field is present, which
// distinguishes "no GPS data" from "incomplete GPS data".
func (d *Data) hasGPSBlock() bool {
	for _, name := range []goexif.FieldName{
		goexif.GPSVersionID,
		goexif.GPSLatitudeRef,
		goexif.GPSLongitudeRef,
		goexif.GPSAltitude,
		goexif.GPSTimeStamp,
	} {
		if _, err := d.x.Get(name); err == nil {
			return true
		}
	}
	return false
}

func (d *Data) refString(name goexif.FieldName) string {
	tag, err := d.x.Get(name)
	if err != nil {
		return ""
	}
	ref, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return ref
}

// dmsValue converts a three-component GPS tag to decimal degrees. Each
// component may be stored as a rational or a plain number; both normalize
// to float64 before combining.
func dmsValue(tag *tiff.Tag) (float64, error) {
	if tag.Count < 3 {
		return 0, fmt.Errorf("gps tuple has %d components, want 3", tag.Count)
	}

	var parts [3]float64
	for i := 0; i < 3; i++ {
		v, err := tagComponent(tag, i)
		if err != nil {
			return 0, err
		}
		parts[i] = v
	}
	return geo.ToDecimalDegrees(parts[0], parts[1], parts[2]), nil
}

// tagComponent normalizes one component of a numeric tag to float64.
func tagComponent(tag *tiff.Tag, i int) (float64, error) {
	if num, den, err := tag.Rat2(i); err == nil {
		if den == 0 {
			return 0, nil
		}
		return float64(num) / float64(den), nil
	}
	if f, err := tag.Float(i); err == nil {
		return f, nil
	}
	if n, err := tag.Int64(i); err == nil {
		return float64(n), nil
	}
	return 0, fmt.Errorf("gps component %d is not numeric", i)
}
