package domain

import (
	"context"
	"log/slog"
)

// ResolveCandidate enriches a selected candidate with postal code and address.
// Exactly one reverse-geocoding call is made. If geocoder is nil or the call
// fails, the location is returned without enrichment (graceful degradation).
func ResolveCandidate(ctx context.Context, c Candidate, geocoder ReverseGeocoder, logger *slog.Logger) ResolvedLocation {
	loc := ResolvedLocation{Candidate: c}
	if geocoder == nil {
		return loc
	}

	result, err := geocoder.ReverseGeocode(ctx, c.Latitude, c.Longitude)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"candidate", c.Key(),
			"lat", c.Latitude,
			"lon", c.Longitude,
			"error", err,
		)
		return loc
	}

	loc.PostalCode = result.PostalCode
	loc.Address = result.Address()
	return loc
}
