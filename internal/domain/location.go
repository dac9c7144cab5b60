package domain

import "strconv"

// Provenance tags which geocoding source produced a candidate.
type Provenance string

const (
	ProvenanceGSI       Provenance = "gsi"
	ProvenanceOpenMeteo Provenance = "open-meteo"
)

const (
	// GSIIDOffset keeps synthetic GSI ids clear of Open-Meteo's id space.
	GSIIDOffset = 2_000_000
	// GSIRegionMarker is the admin1 label for every GSI candidate.
	GSIRegionMarker = "国内(GSI)"
	// CountryJapan is the country code assumed for national-index results.
	CountryJapan = "JP"
)

// Candidate is an unconfirmed search result.
type Candidate struct {
	Source      Provenance `json:"source"`
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Admin1      string     `json:"admin1,omitempty"`
	CountryCode string     `json:"country_code"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
}

// Key is unique within a merged candidate list.
func (c Candidate) Key() string {
	return string(c.Source) + ":" + strconv.FormatInt(c.ID, 10)
}

// ResolvedLocation is a candidate enriched after the user selected it.
type ResolvedLocation struct {
	Candidate
	PostalCode string `json:"postalCode,omitempty"`
	Address    string `json:"address,omitempty"`
}

// SameFavorite reports whether two locations are the same favorite.
func (l ResolvedLocation) SameFavorite(other ResolvedLocation) bool {
	return l.Name == other.Name && l.Admin1 == other.Admin1
}

// PostalAddress is the raw reverse-geocoding answer.
type PostalAddress struct {
	PostalCode string
	City       string
	Town       string
}

// Address joins city and town. Empty unless both are present.
func (p PostalAddress) Address() string {
	if p.City == "" || p.Town == "" {
		return ""
	}
	return p.City + p.Town
}
