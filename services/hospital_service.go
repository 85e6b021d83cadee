package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/BillChill/billchill-backend/errors"
	"github.com/BillChill/billchill-backend/internal/metrics"
	"github.com/BillChill/billchill-backend/logger"
	"github.com/BillChill/billchill-backend/pkg/jsonextract"
	"github.com/BillChill/billchill-backend/pkg/llm"
	"github.com/BillChill/billchill-backend/pkg/valueobjects"
	"github.com/BillChill/billchill-backend/types"
	"go.uber.org/zap"
)

const hospitalSearchSystemPrompt = "You are a web-connected data model that must return only structured JSON. " +
	"Given a city/region and a medical condition, find and summarize hospitals in that locality " +
	"(target within ~30 miles of the city center) with publicly available or estimated cash/self-pay prices " +
	"for the given condition. Each object should include: name, address, phone, url, latitude, longitude, " +
	"price_usd, price_is_estimate, and notes. Output strictly a JSON array."

// HospitalService finds priced hospitals near a location with a web-search
// model and normalizes the answer.
type HospitalService struct {
	client     ChatCompleter
	model      string
	geocoder   Geocoder
	normalizer *HospitalNormalizer
	metrics    *metrics.Metrics
	log        *zap.SugaredLogger
}

func NewHospitalService(client ChatCompleter, model string, geocoder Geocoder, normalizer *HospitalNormalizer) *HospitalService {
	return &HospitalService{
		client:     client,
		model:      model,
		geocoder:   geocoder,
		normalizer: normalizer,
		metrics:    metrics.Get(),
		log:        logger.GetLogger().Named("hospitals"),
	}
}

// Search validates the request, resolves the origin, queries the model and
// returns the normalized results. Every error is an *apperrors.AppError.
func (s *HospitalService) Search(ctx context.Context, req types.HospitalSearchRequest) ([]types.HospitalResult, error) {
	if !s.client.HasAPIKey() {
		return nil, apperrors.InternalServerError("Missing OPENROUTER_API_KEY")
	}

	condition := strings.TrimSpace(req.Condition)
	if condition == "" {
		return nil, apperrors.ValidationFailed("condition required", "")
	}

	origin, err := s.resolveOrigin(ctx, req)
	if err != nil {
		return nil, err
	}

	locality := s.geocoder.Reverse(ctx, origin.Latitude(), origin.Longitude()).Label
	if locality == "" {
		locality = UnknownPlaceLabel
	}

	content, err := s.queryModel(ctx, locality, condition)
	if err != nil {
		return nil, err
	}

	items, ok := jsonextract.ExtractArray(content)
	if !ok {
		s.log.Warnw("Search model returned no JSON array", "content", logger.Truncate(content, 300))
		return nil, apperrors.Upstream("Model did not return a JSON array", nil)
	}

	results := s.normalizer.Normalize(ctx, items, origin, locality)
	s.log.Infow("Hospital search complete",
		"locality", locality,
		"candidates", len(items),
		"results", len(results),
	)
	return results, nil
}

// resolveOrigin prefers explicit coordinates and falls back to geocoding
// the free-text location.
func (s *HospitalService) resolveOrigin(ctx context.Context, req types.HospitalSearchRequest) (valueobjects.GeoPoint, error) {
	if req.Location != "" && (req.Lat == nil || req.Lon == nil) {
		point, ok := s.geocoder.Forward(ctx, req.Location)
		if !ok {
			return valueobjects.GeoPoint{}, apperrors.ValidationFailed(
				fmt.Sprintf("Could not find location: '%s'", req.Location), "")
		}
		return point, nil
	}

	if req.Lat == nil || req.Lon == nil {
		return valueobjects.GeoPoint{}, apperrors.ValidationFailed("Location required (enable GPS or enter city/zip)", "")
	}

	lat, latOK := coerceCoordinate(req.Lat)
	lon, lonOK := coerceCoordinate(req.Lon)
	if !latOK || !lonOK {
		return valueobjects.GeoPoint{}, apperrors.ValidationFailed("lat/lon must be numbers", "")
	}

	point, err := valueobjects.NewGeoPoint(lat, lon)
	if err != nil {
		return valueobjects.GeoPoint{}, err
	}
	return *point, nil
}

func (s *HospitalService) queryModel(ctx context.Context, locality, condition string) (string, error) {
	userPrompt := fmt.Sprintf("locality: %s\ncondition: %s\n\n", locality, condition) +
		"Constraints:\n" +
		"- Prefer hospitals in the named locality and adjacent municipalities (≈30 miles).\n" +
		"- If exact cash/self-pay prices are unavailable, estimate sensibly and mark price_is_estimate=true with notes.\n" +
		"- Include latitude/longitude if available (helps with distance checks).\n" +
		"- Output strictly a JSON array of hospital objects with the requested fields—no extra commentary."

	start := time.Now()
	content, err := s.client.ChatCompletion(ctx, llm.ChatRequest{
		Model: s.model,
		Messages: []llm.Message{
			{Role: "system", Content: hospitalSearchSystemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.2,
		MaxTokens:   1200,
		WebSearch:   true,
	})
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.metrics.UpstreamDuration.WithLabelValues("openrouter", outcome).Observe(time.Since(start).Seconds())

	if err == nil {
		return content, nil
	}

	var statusErr *llm.StatusError
	switch {
	case errors.As(err, &statusErr):
		return "", apperrors.Upstream(fmt.Sprintf("OpenRouter error %d: %s", statusErr.StatusCode, statusErr.Body), err)
	case errors.Is(err, llm.ErrMalformedResponse):
		return "", apperrors.Upstream("Malformed response from model", err)
	case errors.Is(err, llm.ErrMissingAPIKey):
		return "", apperrors.InternalServerError("Missing OPENROUTER_API_KEY")
	default:
		return "", apperrors.Upstream(fmt.Sprintf("OpenRouter request failed: %v", err), err)
	}
}

// coerceCoordinate accepts JSON numbers and numeric strings.
func coerceCoordinate(v interface{}) (float64, bool) {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
