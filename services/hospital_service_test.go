package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	apperrors "github.com/BillChill/billchill-backend/errors"
	"github.com/BillChill/billchill-backend/internal/metrics"
	"github.com/BillChill/billchill-backend/pkg/llm"
	"github.com/BillChill/billchill-backend/pkg/valueobjects"
	"github.com/BillChill/billchill-backend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type hospitalServiceFixture struct {
	svc      *HospitalService
	client   *MockChatClient
	geocoder *MockGeocoder
	checker  *MockURLChecker
}

func newHospitalServiceFixture() *hospitalServiceFixture {
	metrics.ResetForTesting()
	f := &hospitalServiceFixture{
		client:   &MockChatClient{},
		geocoder: &MockGeocoder{},
		checker:  &MockURLChecker{},
	}
	f.svc = NewHospitalService(f.client, "perplexity/sonar", f.geocoder, NewHospitalNormalizer(f.geocoder, f.checker))
	return f
}

func requireAppError(t *testing.T, err error, status int, message string) {
	t.Helper()
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, status, appErr.GetHTTPStatus())
	assert.Equal(t, message, appErr.Message)
}

func TestHospitalService_Search(t *testing.T) {
	f := newHospitalServiceFixture()
	f.geocoder.On("Reverse", mock.Anything, 34.05, -118.25).Return(types.PlaceLabel{Label: "Los Angeles, California, United States"})
	f.client.On("ChatCompletion", mock.Anything, mock.MatchedBy(func(req llm.ChatRequest) bool {
		return req.Model == "perplexity/sonar" &&
			req.WebSearch &&
			req.MaxTokens == 1200 &&
			req.Temperature == 0.2 &&
			strings.Contains(req.Messages[1].Content, "locality: Los Angeles, California, United States\ncondition: broken arm")
	})).Return("Here you go:\n"+`[
		{"name": "Pricey", "price_usd": 900, "latitude": 34.06, "longitude": -118.24},
		{"name": "Cheap", "price_usd": "150", "latitude": 34.07, "longitude": -118.26},
		{"address": "no name"}
	]`, nil)

	results, err := f.svc.Search(context.Background(), types.HospitalSearchRequest{
		Lat:       34.05,
		Lon:       "-118.25",
		Condition: "  broken arm ",
	})

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Cheap", results[0].Name)
	assert.Equal(t, "Pricey", results[1].Name)
	assert.Equal(t, "Los Angeles, California, United States", results[0].SourceLocality)
	f.client.AssertExpectations(t)
}

func TestHospitalService_Search_GeocodesLocation(t *testing.T) {
	f := newHospitalServiceFixture()
	f.geocoder.On("Forward", mock.Anything, "Portland, OR").Return(mustPoint(45.52, -122.68), true)
	f.geocoder.On("Reverse", mock.Anything, 45.52, -122.68).Return(types.PlaceLabel{Label: ""})
	f.client.On("ChatCompletion", mock.Anything, mock.MatchedBy(func(req llm.ChatRequest) bool {
		return strings.Contains(req.Messages[1].Content, "locality: this area")
	})).Return("[]", nil)

	results, err := f.svc.Search(context.Background(), types.HospitalSearchRequest{
		Location:  "Portland, OR",
		Condition: "MRI",
	})

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestHospitalService_Search_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     types.HospitalSearchRequest
		setup   func(*hospitalServiceFixture)
		message string
	}{
		{
			name:    "missing condition",
			req:     types.HospitalSearchRequest{Lat: 1.0, Lon: 1.0, Condition: "  "},
			message: "condition required",
		},
		{
			name: "unresolvable location",
			req:  types.HospitalSearchRequest{Location: "Atlantis", Condition: "MRI"},
			setup: func(f *hospitalServiceFixture) {
				f.geocoder.On("Forward", mock.Anything, "Atlantis").Return(valueobjects.GeoPoint{}, false)
			},
			message: "Could not find location: 'Atlantis'",
		},
		{
			name:    "no location at all",
			req:     types.HospitalSearchRequest{Lat: 1.0, Condition: "MRI"},
			message: "Location required (enable GPS or enter city/zip)",
		},
		{
			name:    "non-numeric coordinates",
			req:     types.HospitalSearchRequest{Lat: "north", Lon: 1.0, Condition: "MRI"},
			message: "lat/lon must be numbers",
		},
		{
			name:    "out of range",
			req:     types.HospitalSearchRequest{Lat: 95.0, Lon: 1.0, Condition: "MRI"},
			message: "invalid latitude",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHospitalServiceFixture()
			if tt.setup != nil {
				tt.setup(f)
			}

			_, err := f.svc.Search(context.Background(), tt.req)

			requireAppError(t, err, http.StatusBadRequest, tt.message)
			f.client.AssertNotCalled(t, "ChatCompletion", mock.Anything, mock.Anything)
		})
	}
}

func TestHospitalService_Search_MissingKey(t *testing.T) {
	f := newHospitalServiceFixture()
	f.client.NoKey = true

	_, err := f.svc.Search(context.Background(), types.HospitalSearchRequest{})

	requireAppError(t, err, http.StatusInternalServerError, "Missing OPENROUTER_API_KEY")
}

func TestHospitalService_Search_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		err      error
		expected string
	}{
		{"status error", "", &llm.StatusError{StatusCode: 503, Body: "overloaded"}, "OpenRouter error 503: overloaded"},
		{"transport error", "", &llm.RequestError{Err: errors.New("dial tcp: timeout")}, "OpenRouter request failed: dial tcp: timeout"},
		{"malformed", "", llm.ErrMalformedResponse, "Malformed response from model"},
		{"object instead of array", `{"name": "Solo"}`, nil, "Model did not return a JSON array"},
		{"prose", "Sorry, I could not search today.", nil, "Model did not return a JSON array"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHospitalServiceFixture()
			f.geocoder.On("Reverse", mock.Anything, mock.Anything, mock.Anything).Return(types.PlaceLabel{Label: "Springfield"})
			f.client.On("ChatCompletion", mock.Anything, mock.Anything).Return(tt.content, tt.err)

			_, err := f.svc.Search(context.Background(), types.HospitalSearchRequest{Lat: 1.0, Lon: 1.0, Condition: "MRI"})

			requireAppError(t, err, http.StatusBadGateway, tt.expected)
		})
	}
}

func TestCoerceCoordinate(t *testing.T) {
	tests := []struct {
		input interface{}
		value float64
		ok    bool
	}{
		{12.5, 12.5, true},
		{" -3.25 ", -3.25, true},
		{"abc", 0, false},
		{"NaN", 0, false},
		{true, 0, false},
		{nil, 0, false},
	}

	for _, tt := range tests {
		got, ok := coerceCoordinate(tt.input)
		assert.Equal(t, tt.ok, ok, "input %v", tt.input)
		assert.Equal(t, tt.value, got, "input %v", tt.input)
	}
}
