package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"photorium/internal/logging"
)

// DefaultTimeout bounds a single reverse-geocode request.
const DefaultTimeout = 5 * time.Second

// Geocoder resolves coordinates to a human-readable place description.
// It is modeled as an injected collaborator so the metadata extractor can
// be tested without network access.
type Geocoder interface {
	// ReverseGeocode converts decimal-degree coordinates to a place name.
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}

// NominatimClient reverse-geocodes against a Nominatim endpoint. The
// service is treated as opaque, possibly slow and possibly failing; a
// request is never retried synchronously.
type NominatimClient struct {
	baseURL    string
	language   string
	userAgent  string
	httpClient *http.Client
}

// NewNominatimClient creates a client for the given endpoint. Responses
// are requested in the given language (BCP 47, e.g. "ko"). Nominatim's
// usage policy requires an identifying User-Agent.
func NewNominatimClient(baseURL, language string) *NominatimClient {
	return &NominatimClient{
		baseURL:   baseURL,
		language:  language,
		userAgent: "photorium_app",
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

type nominatimResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

// ReverseGeocode resolves a coordinate to its display address. A lookup
// that completes without a result returns an error, never an empty string.
func (c *NominatimClient) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("accept-language", c.language)

	reqURL := c.baseURL + "/reverse?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("build reverse geocode request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("reverse geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reverse geocode: unexpected status %d", resp.StatusCode)
	}

	var body nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode reverse geocode response: %w", err)
	}

	if body.Error != "" || body.DisplayName == "" {
		return "", fmt.Errorf("reverse geocode: no result for %s", Key(lat, lon))
	}

	logging.Debug("Reverse geocoded %s in %v", Key(lat, lon), time.Since(start))
	return body.DisplayName, nil
}
