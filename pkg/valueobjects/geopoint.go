// pkg/valueobjects/geopoint.go
package valueobjects

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/BillChill/billchill-backend/errors"
)

const (
	earthRadiusKm = 6371.0
	milesPerKm    = 0.621371
)

// GeoPoint represents a geographic point with latitude and longitude
type GeoPoint struct {
	latitude  float64
	longitude float64
}

// NewGeoPoint creates a new GeoPoint with validation
func NewGeoPoint(lat, lon float64) (*GeoPoint, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	return &GeoPoint{
		latitude:  lat,
		longitude: lon,
	}, nil
}

// Latitude returns the latitude value
func (g GeoPoint) Latitude() float64 {
	return g.latitude
}

// Longitude returns the longitude value
func (g GeoPoint) Longitude() float64 {
	return g.longitude
}

// DistanceMilesTo returns the great-circle distance to other in statute miles.
func (g GeoPoint) DistanceMilesTo(other GeoPoint) float64 {
	return DistanceMiles(g.latitude, g.longitude, other.latitude, other.longitude)
}

// DistanceMiles computes the haversine distance in miles between two raw
// coordinate pairs. Inputs are not range-checked; callers must treat a NaN
// or infinite result as "no distance".
func DistanceMiles(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := degreesToRadians(lat1)
	phi2 := degreesToRadians(lat2)
	dphi := degreesToRadians(lat2 - lat1)
	dlambda := degreesToRadians(lon2 - lon1)

	a := math.Pow(math.Sin(dphi/2), 2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Pow(math.Sin(dlambda/2), 2)
	c := 2 * math.Asin(math.Sqrt(a))

	return earthRadiusKm * c * milesPerKm
}

// IsWithinMiles checks if another point is within the given radius in miles
func (g GeoPoint) IsWithinMiles(other GeoPoint, radius float64) bool {
	if radius < 0 {
		return false
	}
	return g.DistanceMilesTo(other) <= radius
}

// String returns a string representation of the geographic point
func (g GeoPoint) String() string {
	return fmt.Sprintf("(%f, %f)", g.latitude, g.longitude)
}

// MarshalJSON renders the point with the lat/lon keys the API uses.
func (g GeoPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Latitude  float64 `json:"lat"`
		Longitude float64 `json:"lon"`
	}{
		Latitude:  g.latitude,
		Longitude: g.longitude,
	})
}

// private helpers

func validateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return errors.ValidationFailed(
			"invalid latitude",
			fmt.Sprintf("latitude %f is outside valid range [-90, 90]", lat),
		)
	}

	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return errors.ValidationFailed(
			"invalid longitude",
			fmt.Sprintf("longitude %f is outside valid range [-180, 180]", lon),
		)
	}

	return nil
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
