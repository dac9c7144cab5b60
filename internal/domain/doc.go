// Package domain models place lookup for Japanese weather searches.
//
// # Data Sources
//
// Candidates come from two geocoding services that are queried side by side:
//
//	GSI AddressSearch (国土地理院)   https://msearch.gsi.go.jp/address-search/AddressSearch
//	Open-Meteo geocoding            https://geocoding-api.open-meteo.com/v1/search
//
// GSI is a national address index. Each feature has a single composite title
// ("兵庫県西宮市六湛寺町") and a [lon, lat] point. The title is used verbatim as
// the candidate name; no prefecture or city is split out of it. GSI has no
// stable id, so candidates get a synthetic id of [GSIIDOffset] plus their
// position in the truncated response, and carry [GSIRegionMarker] as admin1.
//
// Open-Meteo is a global gazetteer. Results carry their own numeric id, a
// localized name (language=ja), a country code and an admin1 label which is
// passed through untouched.
//
// # Identity
//
// Ids are only unique per source. A candidate is identified across a merged
// list by its [Provenance] plus id, see [Candidate.Key]. The same physical
// place can appear once per source; merged lists are not deduplicated.
//
// Favorites use a looser identity: name plus admin1 ([ResolvedLocation.SameFavorite]).
// Coordinates and ids are ignored.
//
// # Reverse Geocoding
//
// A selected candidate is enriched by HeartRails Express (getPostal). The
// postal code is copied when returned. The address is city+town and is set
// only when both parts are present. Enrichment is never cached.
package domain
