package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"os"
	"time"

	"photorium/internal/exif"
	"photorium/internal/geo"
	"photorium/internal/logging"
	"photorium/internal/mediatypes"
	"photorium/internal/metrics"

	// Intrinsic dimension decoders for the supported image formats
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Location strings surfaced to the gallery UI. Only successfully resolved
// place names come from the geocoder; everything else is one of these.
const (
	LocationNoGPS      = "No GPS Data"
	LocationIncomplete = "Incomplete GPS Data"
	LocationUnresolved = "GPS data available"
)

// Dimension is a pixel dimension that may be unknown. Unknown dimensions
// marshal as the explicit "N/A" sentinel rather than being omitted.
type Dimension struct {
	Value int
	Known bool
}

// Px returns a known dimension.
func Px(v int) Dimension {
	return Dimension{Value: v, Known: true}
}

// MarshalJSON emits the pixel count, or "N/A" when unknown.
func (d Dimension) MarshalJSON() ([]byte, error) {
	if !d.Known {
		return json.Marshal("N/A")
	}
	return json.Marshal(d.Value)
}

// Metadata describes a single media file for the gallery front end.
type Metadata struct {
	Width    Dimension `json:"width"`
	Height   Dimension `json:"height"`
	Model    string    `json:"model,omitempty"`
	Location string    `json:"location,omitempty"`
}

// Extractor reads media metadata. The geocode cache and the reverse
// geocoder are injected so the extraction logic stays independent of how
// coordinates resolve to place names.
type Extractor struct {
	cache    *geo.Cache
	geocoder geo.Geocoder
	timeout  time.Duration
}

// NewExtractor creates an Extractor backed by the given cache and
// geocoder.
func NewExtractor(cache *geo.Cache, geocoder geo.Geocoder) *Extractor {
	return &Extractor{
		cache:    cache,
		geocoder: geocoder,
		timeout:  geo.DefaultTimeout,
	}
}

// Extract returns metadata for the file at path. It never fails: any
// internal error degrades to a metadata value with unknown dimensions, so
// one exotic or unreadable file can never break a gallery view.
func (e *Extractor) Extract(ctx context.Context, path string) Metadata {
	kind := mediatypes.Classify(path)

	var md Metadata
	if kind == mediatypes.FileTypeVideo {
		md = e.extractVideo(ctx, path)
	} else {
		md = e.extractImage(ctx, path)
	}

	status := "success"
	if !md.Width.Known {
		status = "degraded"
	}
	metrics.MetadataExtractionsTotal.WithLabelValues(string(kind), status).Inc()

	return md
}

func (e *Extractor) extractImage(ctx context.Context, path string) Metadata {
	var md Metadata

	if w, h, err := imageDimensions(path); err == nil {
		md.Width = Px(w)
		md.Height = Px(h)
	} else {
		logging.Debug("Metadata: could not read dimensions of %s: %v", path, err)
	}

	// The location sentinels describe readable files; a file that cannot
	// be opened at all gets no location.
	data, err := exif.Decode(path)
	if err != nil {
		if errors.Is(err, exif.ErrNoEXIF) {
			md.Location = LocationNoGPS
		} else {
			logging.Debug("Metadata: could not open %s: %v", path, err)
		}
		return md
	}

	if model, ok := data.Model(); ok {
		md.Model = model
	} else {
		md.Model = "N/A"
	}

	coord, err := data.GPS()
	switch {
	case errors.Is(err, geo.ErrNoGPS):
		md.Location = LocationNoGPS
	case errors.Is(err, geo.ErrIncompleteGPS):
		md.Location = LocationIncomplete
	case err != nil:
		md.Location = LocationNoGPS
	default:
		md.Location = e.resolveLocation(ctx, coord)
	}

	return md
}

// resolveLocation turns a coordinate into a place name, consulting the
// cache before the external geocoder. Failed lookups return a fallback
// string and are deliberately not cached, so transient failures are
// retried on the next view. The cache is never locked across the network
// call.
func (e *Extractor) resolveLocation(ctx context.Context, coord geo.Coordinate) string {
	if place, ok := e.cache.Get(coord.Lat, coord.Lon); ok {
		metrics.GeocodeCacheTotal.WithLabelValues("hit").Inc()
		return place
	}
	metrics.GeocodeCacheTotal.WithLabelValues("miss").Inc()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	place, err := e.geocoder.ReverseGeocode(ctx, coord.Lat, coord.Lon)
	if err != nil {
		metrics.GeocodeRequestsTotal.WithLabelValues("error").Inc()
		logging.Warn("Metadata: reverse geocode failed for %s: %v", geo.Key(coord.Lat, coord.Lon), err)
		return LocationUnresolved
	}
	metrics.GeocodeRequestsTotal.WithLabelValues("success").Inc()

	e.cache.Put(coord.Lat, coord.Lon, place)
	return place
}

func (e *Extractor) extractVideo(ctx context.Context, path string) Metadata {
	var md Metadata

	info, err := ProbeVideo(ctx, path)
	if err != nil {
		logging.Debug("Metadata: video probe failed for %s: %v", path, err)
		return md
	}

	md.Width = Px(info.Width)
	md.Height = Px(info.Height)
	return md
}

// imageDimensions reads intrinsic width and height without decoding pixel
// data.
func imageDimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	config, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return config.Width, config.Height, nil
}
