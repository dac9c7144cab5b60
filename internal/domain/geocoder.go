package domain

import "context"

// GeocodeSource searches one upstream geocoding service.
type GeocodeSource interface {
	// Name identifies the source in logs and metrics.
	Name() string

	// Search returns at most limit candidates in the source's own order.
	Search(ctx context.Context, query string, limit int) ([]Candidate, error)
}

// ReverseGeocoder converts coordinates to a postal identity.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (PostalAddress, error)
}
