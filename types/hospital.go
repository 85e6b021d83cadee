package types

// HospitalSearchRadiusMiles is the furthest a hospital with model-supplied
// coordinates may be from the search origin.
const HospitalSearchRadiusMiles = 37.3

// HospitalSearchRequest is the body of POST /api/hospitals. Lat and Lon are
// kept loosely typed because clients send both numbers and numeric strings.
type HospitalSearchRequest struct {
	Lat       interface{} `json:"lat"`
	Lon       interface{} `json:"lon"`
	Location  string      `json:"location"`
	Condition string      `json:"condition"`
}

// PlaceLabel describes a reverse-geocoded locality. Any field may be nil;
// an unknown place is a normal outcome.
type PlaceLabel struct {
	City    *string `json:"city"`
	State   *string `json:"state"`
	Country *string `json:"country"`
	Label   string  `json:"label"`
}

// HospitalResult is a model-suggested hospital after validation and enrichment.
type HospitalResult struct {
	Name            string   `json:"name"`
	Address         *string  `json:"address"`
	Phone           *string  `json:"phone"`
	URL             *string  `json:"url"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	DistanceMiles   *float64 `json:"distance_miles"`
	PriceUSD        *float64 `json:"price_usd"`
	PriceIsEstimate bool     `json:"price_is_estimate"`
	Notes           *string  `json:"notes"`
	MapsURL         *string  `json:"maps_url"`
	SourceLocality  string   `json:"source_locality"`
}

type HospitalSearchResponse struct {
	Results []HospitalResult `json:"results"`
}
