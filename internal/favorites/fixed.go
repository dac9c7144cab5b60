package favorites

import "github.com/couchcryptid/weather-lookup/internal/domain"

// fixedEntries are always listed first and can never be removed.
var fixedEntries = []domain.ResolvedLocation{
	{
		Candidate: domain.Candidate{
			Source:      domain.ProvenanceOpenMeteo,
			ID:          1856358,
			Name:        "西宮市",
			Admin1:      "兵庫県",
			CountryCode: domain.CountryJapan,
			Latitude:    34.7376,
			Longitude:   135.3415,
		},
		PostalCode: "6628567",
		Address:    "西宮市六湛寺町",
	},
	{
		Candidate: domain.Candidate{
			Source:      domain.ProvenanceOpenMeteo,
			ID:          1853909,
			Name:        "大阪市中央区",
			Admin1:      "大阪府",
			CountryCode: domain.CountryJapan,
			Latitude:    34.6812,
			Longitude:   135.5098,
		},
		PostalCode: "5418518",
		Address:    "大阪市中央区久太郎町",
	},
	{
		Candidate: domain.Candidate{
			Source:      domain.ProvenanceOpenMeteo,
			ID:          1865271,
			Name:        "尼崎市",
			Admin1:      "兵庫県",
			CountryCode: domain.CountryJapan,
			Latitude:    34.7338,
			Longitude:   135.4063,
		},
		PostalCode: "6608501",
		Address:    "尼崎市東七松町",
	},
}

// Default is the location shown before the user picks one.
func Default() domain.ResolvedLocation {
	return fixedEntries[0]
}

// IsFixed reports whether loc has the identity of a permanent entry.
func IsFixed(loc domain.ResolvedLocation) bool {
	for _, f := range fixedEntries {
		if f.SameFavorite(loc) {
			return true
		}
	}
	return false
}
