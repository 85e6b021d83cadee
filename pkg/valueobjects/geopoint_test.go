// pkg/valueobjects/geopoint_test.go
package valueobjects

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	tests := []struct {
		name        string
		latitude    float64
		longitude   float64
		shouldError bool
	}{
		{
			name:        "valid coordinates",
			latitude:    34.0522,
			longitude:   -118.2437,
			shouldError: false,
		},
		{
			name:        "invalid latitude - too high",
			latitude:    91.0,
			longitude:   0.0,
			shouldError: true,
		},
		{
			name:        "invalid latitude - too low",
			latitude:    -91.0,
			longitude:   0.0,
			shouldError: true,
		},
		{
			name:        "invalid longitude - too high",
			latitude:    0.0,
			longitude:   181.0,
			shouldError: true,
		},
		{
			name:        "invalid longitude - too low",
			latitude:    0.0,
			longitude:   -181.0,
			shouldError: true,
		},
		{
			name:        "NaN latitude",
			latitude:    math.NaN(),
			longitude:   0.0,
			shouldError: true,
		},
		{
			name:        "edge case - max valid values",
			latitude:    90.0,
			longitude:   180.0,
			shouldError: false,
		},
		{
			name:        "edge case - min valid values",
			latitude:    -90.0,
			longitude:   -180.0,
			shouldError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			point, err := NewGeoPoint(tt.latitude, tt.longitude)
			if tt.shouldError {
				assert.Error(t, err)
				assert.Nil(t, point)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, point)
				assert.Equal(t, tt.latitude, point.Latitude())
				assert.Equal(t, tt.longitude, point.Longitude())
			}
		})
	}
}

func TestGeoPointDistanceMiles(t *testing.T) {
	tests := []struct {
		name         string
		point1       GeoPoint
		point2       GeoPoint
		expectDist   float64
		expectMargin float64
	}{
		{
			name:         "Los Angeles to San Francisco",
			point1:       GeoPoint{34.0522, -118.2437},
			point2:       GeoPoint{37.7749, -122.4194},
			expectDist:   347.4,
			expectMargin: 1.0,
		},
		{
			name:         "Same point",
			point1:       GeoPoint{40.7128, -74.0060},
			point2:       GeoPoint{40.7128, -74.0060},
			expectDist:   0.0,
			expectMargin: 1e-9,
		},
		{
			name:         "Antipodes",
			point1:       GeoPoint{0.0, 0.0},
			point2:       GeoPoint{0.0, 180.0},
			expectDist:   math.Pi * earthRadiusKm * milesPerKm,
			expectMargin: 0.01,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			distance := tt.point1.DistanceMilesTo(tt.point2)
			assert.InDelta(t, tt.expectDist, distance, tt.expectMargin)

			reverseDistance := tt.point2.DistanceMilesTo(tt.point1)
			assert.InDelta(t, distance, reverseDistance, 1e-9)
		})
	}
}

func TestDistanceMiles_OneDegreeOfLatitude(t *testing.T) {
	expected := earthRadiusKm * milesPerKm * math.Pi / 180
	assert.InDelta(t, expected, DistanceMiles(0, 0, 1, 0), 1e-9)
}

func TestGeoPointIsWithinMiles(t *testing.T) {
	la, err := NewGeoPoint(34.0522, -118.2437)
	require.NoError(t, err)

	pasadena, err := NewGeoPoint(34.1478, -118.1445)
	require.NoError(t, err)

	tests := []struct {
		name     string
		point1   *GeoPoint
		point2   *GeoPoint
		radius   float64
		expected bool
	}{
		{"Within radius", la, pasadena, 37.3, true},
		{"Outside radius", la, pasadena, 5.0, false},
		{"Exactly on radius", la, pasadena, la.DistanceMilesTo(*pasadena), true},
		{"Negative radius", la, pasadena, -1.0, false},
		{"Zero radius", la, la, 0.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.point1.IsWithinMiles(*tt.point2, tt.radius))
		})
	}
}

func TestGeoPointString(t *testing.T) {
	point, err := NewGeoPoint(51.5074, -0.1278)
	require.NoError(t, err)

	assert.Equal(t, "(51.507400, -0.127800)", point.String())
}

func TestGeoPointMarshalJSON(t *testing.T) {
	point, err := NewGeoPoint(12.5, -45.25)
	require.NoError(t, err)

	data, err := json.Marshal(point)
	require.NoError(t, err)
	assert.JSONEq(t, `{"lat":12.5,"lon":-45.25}`, string(data))
}
