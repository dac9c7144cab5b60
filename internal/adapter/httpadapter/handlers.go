package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/couchcryptid/weather-lookup/internal/domain"
	"github.com/couchcryptid/weather-lookup/internal/favorites"
	"github.com/couchcryptid/weather-lookup/internal/links"
	"github.com/couchcryptid/weather-lookup/internal/search"
)

type searchResponse struct {
	Results []domain.Candidate `json:"results"`
	Stale   bool               `json:"stale,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	mode := search.Mode(r.URL.Query().Get("mode"))
	switch mode {
	case "":
		mode = search.ModeHybrid
	case search.ModeHybrid, search.ModeGazetteer:
	default:
		writeError(w, http.StatusBadRequest, "mode must be hybrid or gazetteer")
		return
	}

	id := r.Header.Get(SessionHeader)
	if id == "" {
		writeJSON(w, http.StatusOK, searchResponse{Results: s.svc.Search(r.Context(), q, mode)})
		return
	}

	res := s.sessions.get(id).Search(r.Context(), q, mode)
	if res.Stale {
		s.metrics.StaleSearches.Inc()
		s.logger.Debug("stale search dropped", "session", id, "generation", res.Generation)
	}
	writeJSON(w, http.StatusOK, searchResponse{Results: res.Candidates, Stale: res.Stale})
}

type postalResponse struct {
	PostalCode *string `json:"postalCode"`
	City       string  `json:"city,omitempty"`
	Town       string  `json:"town,omitempty"`
}

func (s *Server) handlePostalCode(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := coords(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing lat/lon")
		return
	}

	addr, err := s.svc.PostalAddress(r.Context(), lat, lon)
	if err != nil {
		s.logger.Warn("postal code lookup failed", "lat", lat, "lon", lon, "error", err)
		writeJSON(w, http.StatusOK, postalResponse{})
		return
	}
	if addr.PostalCode == "" {
		writeJSON(w, http.StatusOK, postalResponse{})
		return
	}
	writeJSON(w, http.StatusOK, postalResponse{PostalCode: &addr.PostalCode, City: addr.City, Town: addr.Town})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var c domain.Candidate
	if err := decodeBody(w, r, &c); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	loc := s.svc.Select(r.Context(), c)
	writeJSON(w, http.StatusOK, selection{
		ResolvedLocation: loc,
		Fixed:            s.svc.Favorites().IsFixed(loc),
		Favorite:         s.svc.Favorites().Contains(loc),
	})
}

// selection is a resolved location plus its favorite state, so the caller
// can render the favorite toggle without listing favorites.
type selection struct {
	domain.ResolvedLocation
	Fixed    bool `json:"fixed"`
	Favorite bool `json:"favorite"`
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := coords(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing lat/lon")
		return
	}

	report, err := s.svc.Forecast(r.Context(), lat, lon)
	if err != nil {
		writeError(w, http.StatusBadGateway, domain.ForecastUnavailableMessage)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleLinks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing name")
		return
	}
	lat, lon, _ := coords(r)

	loc := domain.ResolvedLocation{
		Candidate: domain.Candidate{
			Name:      name,
			Admin1:    q.Get("admin1"),
			Latitude:  lat,
			Longitude: lon,
		},
		PostalCode: q.Get("postalCode"),
		Address:    q.Get("address"),
	}
	writeJSON(w, http.StatusOK, map[string][]links.ProviderLink{"links": s.svc.Links(r.Context(), loc)})
}

func (s *Server) handleYahooLink(w http.ResponseWriter, r *http.Request) {
	place := links.Place{
		Prefecture: r.URL.Query().Get("prefecture"),
		City:       r.URL.Query().Get("city"),
	}
	if place.Prefecture == "" || place.City == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"url": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": s.svc.YahooLink(r.Context(), place)})
}

type favoriteEntry struct {
	domain.ResolvedLocation
	Fixed bool `json:"fixed"`
}

type favoritesResponse struct {
	Favorites []favoriteEntry `json:"favorites"`
	Favorite  *bool           `json:"favorite,omitempty"`
	Removed   *bool           `json:"removed,omitempty"`
}

func listFavorites(store *favorites.Store) []favoriteEntry {
	all := store.List()
	out := make([]favoriteEntry, len(all))
	for i, loc := range all {
		out[i] = favoriteEntry{ResolvedLocation: loc, Fixed: favorites.IsFixed(loc)}
	}
	return out
}

func (s *Server) handleFavorites(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, favoritesResponse{Favorites: listFavorites(s.svc.Favorites())})
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var loc domain.ResolvedLocation
	if err := decodeBody(w, r, &loc); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	store := s.svc.Favorites()
	fav, err := store.Toggle(r.Context(), loc)
	if err != nil {
		s.logger.Error("favorite toggle failed", "name", loc.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save favorites")
		return
	}
	writeJSON(w, http.StatusOK, favoritesResponse{Favorites: listFavorites(store), Favorite: &fav})
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	var loc domain.ResolvedLocation
	if err := decodeBody(w, r, &loc); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	store := s.svc.Favorites()
	removed, err := store.Remove(r.Context(), loc)
	if err != nil {
		s.logger.Error("favorite remove failed", "name", loc.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save favorites")
		return
	}
	writeJSON(w, http.StatusOK, favoritesResponse{Favorites: listFavorites(store), Removed: &removed})
}

// coords parses the lat and lon query parameters.
func coords(r *http.Request) (lat, lon float64, ok bool) {
	q := r.URL.Query()
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}
