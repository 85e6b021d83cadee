package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/BillChill/billchill-backend/config"
	"github.com/BillChill/billchill-backend/internal/metrics"
	"github.com/BillChill/billchill-backend/logger"
	"github.com/BillChill/billchill-backend/pkg/valueobjects"
	"github.com/BillChill/billchill-backend/types"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// UnknownPlaceLabel is shown when reverse geocoding fails.
const UnknownPlaceLabel = "this area"

// Geocoder resolves places in both directions. Implementations never fail:
// an unknown place is reported through the return values.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) types.PlaceLabel
	Forward(ctx context.Context, address string) (valueobjects.GeoPoint, bool)
}

type coordKey struct {
	lat, lon float64
}

type forwardResult struct {
	point valueobjects.GeoPoint
	ok    bool
}

// GeocodingService queries Nominatim and memoizes every answer, including
// failures, for the life of the process.
type GeocodingService struct {
	baseURL        string
	userAgent      string
	reverseTimeout time.Duration
	forwardTimeout time.Duration
	client         *http.Client
	reverseCache   *lru.Cache[coordKey, types.PlaceLabel]
	forwardCache   *lru.Cache[string, forwardResult]
	metrics        *metrics.Metrics
	log            *zap.SugaredLogger
}

var _ Geocoder = (*GeocodingService)(nil)

func NewGeocodingService(cfg config.GeocodingConfig) (*GeocodingService, error) {
	reverseCache, err := lru.New[coordKey, types.PlaceLabel](cfg.ReverseCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create reverse geocode cache: %w", err)
	}
	forwardCache, err := lru.New[string, forwardResult](cfg.ForwardCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create forward geocode cache: %w", err)
	}

	contact := cfg.ContactEmail
	if contact == "" {
		contact = "no-email-provided"
	}

	return &GeocodingService{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:      fmt.Sprintf("hospital-price-finder/1.0 (%s)", contact),
		reverseTimeout: time.Duration(cfg.ReverseTimeoutSeconds) * time.Second,
		forwardTimeout: time.Duration(cfg.ForwardTimeoutSeconds) * time.Second,
		client:         &http.Client{},
		reverseCache:   reverseCache,
		forwardCache:   forwardCache,
		metrics:        metrics.Get(),
		log:            logger.GetLogger().Named("geocoding"),
	}, nil
}

type nominatimReverse struct {
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address"`
}

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Reverse describes the locality around (lat, lon).
func (s *GeocodingService) Reverse(ctx context.Context, lat, lon float64) types.PlaceLabel {
	key := coordKey{lat: lat, lon: lon}
	if label, ok := s.reverseCache.Get(key); ok {
		s.metrics.GeocodeCacheLookups.WithLabelValues("reverse", "hit").Inc()
		return label
	}
	s.metrics.GeocodeCacheLookups.WithLabelValues("reverse", "miss").Inc()

	label, err := s.reverse(ctx, lat, lon)
	if err != nil {
		s.log.Warnw("Reverse geocoding failed", "lat", lat, "lon", lon, "error", err)
		label = types.PlaceLabel{Label: UnknownPlaceLabel}
		if ctx.Err() != nil {
			return label
		}
	}
	s.reverseCache.Add(key, label)
	return label
}

func (s *GeocodingService) reverse(ctx context.Context, lat, lon float64) (types.PlaceLabel, error) {
	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("zoom", "10")
	params.Set("addressdetails", "1")

	var data nominatimReverse
	if err := s.getJSON(ctx, "/reverse", params, s.reverseTimeout, &data); err != nil {
		return types.PlaceLabel{}, err
	}

	city := firstNonEmpty(data.Address, "city", "town", "village", "suburb", "county")
	state := firstNonEmpty(data.Address, "state", "region", "state_district")
	country := firstNonEmpty(data.Address, "country")

	var parts []string
	for _, p := range []*string{city, state, country} {
		if p != nil {
			parts = append(parts, *p)
		}
	}

	label := strings.Join(parts, ", ")
	if label == "" {
		label = data.DisplayName
	}
	if label == "" {
		label = "Unknown location"
	}

	return types.PlaceLabel{City: city, State: state, Country: country, Label: label}, nil
}

// Forward resolves a free-form address to a point. The boolean is false for
// an empty address, no match, or any lookup failure.
func (s *GeocodingService) Forward(ctx context.Context, address string) (valueobjects.GeoPoint, bool) {
	if address == "" {
		return valueobjects.GeoPoint{}, false
	}
	if res, ok := s.forwardCache.Get(address); ok {
		s.metrics.GeocodeCacheLookups.WithLabelValues("forward", "hit").Inc()
		return res.point, res.ok
	}
	s.metrics.GeocodeCacheLookups.WithLabelValues("forward", "miss").Inc()

	point, err := s.forward(ctx, address)
	res := forwardResult{ok: err == nil}
	if err != nil {
		s.log.Infow("Forward geocoding found nothing", "address", address, "error", err)
		if ctx.Err() != nil {
			return valueobjects.GeoPoint{}, false
		}
	} else {
		res.point = point
	}
	s.forwardCache.Add(address, res)
	return res.point, res.ok
}

func (s *GeocodingService) forward(ctx context.Context, address string) (valueobjects.GeoPoint, error) {
	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("q", address)
	params.Set("limit", "1")

	var places []nominatimPlace
	if err := s.getJSON(ctx, "/search", params, s.forwardTimeout, &places); err != nil {
		return valueobjects.GeoPoint{}, err
	}
	if len(places) == 0 {
		return valueobjects.GeoPoint{}, fmt.Errorf("no results")
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(places[0].Lat), 64)
	if err != nil {
		return valueobjects.GeoPoint{}, fmt.Errorf("invalid latitude %q", places[0].Lat)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(places[0].Lon), 64)
	if err != nil {
		return valueobjects.GeoPoint{}, fmt.Errorf("invalid longitude %q", places[0].Lon)
	}

	point, err := valueobjects.NewGeoPoint(lat, lon)
	if err != nil {
		return valueobjects.GeoPoint{}, err
	}
	return *point, nil
}

func (s *GeocodingService) getJSON(ctx context.Context, path string, params url.Values, timeout time.Duration, out interface{}) (err error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		s.metrics.UpstreamDuration.WithLabelValues("nominatim", outcome).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid nominatim response: %w", err)
	}
	return nil
}

func firstNonEmpty(m map[string]string, keys ...string) *string {
	for _, k := range keys {
		if v := m[k]; v != "" {
			return &v
		}
	}
	return nil
}
