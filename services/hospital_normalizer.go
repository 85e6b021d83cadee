package services

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/BillChill/billchill-backend/internal/metrics"
	"github.com/BillChill/billchill-backend/logger"
	"github.com/BillChill/billchill-backend/pkg/valueobjects"
	"github.com/BillChill/billchill-backend/types"
	"go.uber.org/zap"
)

// HospitalNormalizer turns the raw objects a search model returns into
// validated, enriched and ordered results.
type HospitalNormalizer struct {
	geocoder   Geocoder
	urlChecker URLChecker
	radius     float64
	metrics    *metrics.Metrics
	log        *zap.SugaredLogger
}

func NewHospitalNormalizer(geocoder Geocoder, urlChecker URLChecker) *HospitalNormalizer {
	return &HospitalNormalizer{
		geocoder:   geocoder,
		urlChecker: urlChecker,
		radius:     types.HospitalSearchRadiusMiles,
		metrics:    metrics.Get(),
		log:        logger.GetLogger().Named("hospital-normalizer"),
	}
}

// Normalize processes candidates one by one and never fails: a candidate
// that cannot be used is dropped, and enrichment that cannot be done is
// left empty. Results are ordered by price, then distance, unknowns last.
func (n *HospitalNormalizer) Normalize(ctx context.Context, items []interface{}, origin valueobjects.GeoPoint, locality string) []types.HospitalResult {
	results := make([]types.HospitalResult, 0, len(items))

	for i, item := range items {
		result, outcome := n.normalizeOne(ctx, item, origin, locality)
		n.metrics.HospitalCandidates.WithLabelValues(outcome).Inc()
		if result == nil {
			n.log.Debugw("Dropped hospital candidate", "index", i, "reason", outcome)
			continue
		}
		results = append(results, *result)
	}

	SortHospitalResults(results)
	return results
}

func (n *HospitalNormalizer) normalizeOne(ctx context.Context, item interface{}, origin valueobjects.GeoPoint, locality string) (*types.HospitalResult, string) {
	obj, ok := item.(map[string]interface{})
	if !ok {
		return nil, "not_object"
	}

	name, ok := obj["name"].(string)
	if !ok || name == "" {
		return nil, "missing_name"
	}

	siteURL := stringField(obj, "url")
	if siteURL != nil && !n.urlChecker.IsAlive(ctx, *siteURL) {
		return nil, "dead_url"
	}

	address := stringField(obj, "address")
	lat, latOK := numberField(obj, "latitude")
	lon, lonOK := numberField(obj, "longitude")

	var distance *float64
	if latOK && lonOK {
		d := valueobjects.DistanceMiles(origin.Latitude(), origin.Longitude(), lat, lon)
		if !math.IsNaN(d) && !math.IsInf(d, 0) {
			d = math.Round(d*100) / 100
			if d > n.radius {
				return nil, "out_of_range"
			}
			distance = &d
		}
	}

	var latPtr, lonPtr *float64
	if latOK && lonOK {
		latPtr, lonPtr = &lat, &lon
	} else if address != nil {
		// Backfilled coordinates are display-only; the radius is not re-checked.
		if point, ok := n.geocoder.Forward(ctx, *address); ok {
			fLat, fLon := point.Latitude(), point.Longitude()
			latPtr, lonPtr = &fLat, &fLon
		}
	}

	return &types.HospitalResult{
		Name:            name,
		Address:         address,
		Phone:           stringField(obj, "phone"),
		URL:             siteURL,
		Latitude:        latPtr,
		Longitude:       lonPtr,
		DistanceMiles:   distance,
		PriceUSD:        coercePrice(obj["price_usd"]),
		PriceIsEstimate: priceIsEstimate(obj),
		Notes:           stringField(obj, "notes"),
		MapsURL:         directionsURL(origin, address, latPtr, lonPtr),
		SourceLocality:  locality,
	}, "kept"
}

// SortHospitalResults orders by ascending price then ascending distance;
// a missing value sorts after every known one.
func SortHospitalResults(results []types.HospitalResult) {
	sort.SliceStable(results, func(i, j int) bool {
		pi, pj := orInf(results[i].PriceUSD), orInf(results[j].PriceUSD)
		if pi != pj {
			return pi < pj
		}
		return orInf(results[i].DistanceMiles) < orInf(results[j].DistanceMiles)
	})
}

func orInf(v *float64) float64 {
	if v == nil {
		return math.Inf(1)
	}
	return *v
}

// directionsURL links to driving directions from origin, preferring the
// street address over coordinates.
func directionsURL(origin valueobjects.GeoPoint, address *string, lat, lon *float64) *string {
	var destination string
	switch {
	case address != nil:
		destination = strings.ReplaceAll(url.QueryEscape(*address), "+", "%20")
	case lat != nil && lon != nil:
		destination = formatCoord(*lat) + "," + formatCoord(*lon)
	default:
		return nil
	}

	link := fmt.Sprintf("https://www.google.com/maps/dir/?api=1&origin=%s,%s&destination=%s&travelmode=driving",
		formatCoord(origin.Latitude()), formatCoord(origin.Longitude()), destination)
	return &link
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// stringField returns a non-empty string value, or nil.
func stringField(obj map[string]interface{}, key string) *string {
	s, ok := obj[key].(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

// numberField accepts only finite JSON numbers; numeric strings do not count
// as coordinates.
func numberField(obj map[string]interface{}, key string) (float64, bool) {
	f, ok := obj[key].(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func coercePrice(v interface{}) *float64 {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// priceIsEstimate is true unless the model explicitly said otherwise.
func priceIsEstimate(obj map[string]interface{}) bool {
	switch v := obj["price_is_estimate"].(type) {
	case bool:
		return v
	case string:
		return !strings.EqualFold(strings.TrimSpace(v), "false")
	case float64:
		return v != 0
	default:
		return true
	}
}
