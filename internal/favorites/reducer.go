package favorites

import (
	"slices"

	"github.com/couchcryptid/weather-lookup/internal/domain"
)

type actionKind int

const (
	actionToggle actionKind = iota
	actionRemove
)

type action struct {
	kind     actionKind
	location domain.ResolvedLocation
}

// state is the user-entry set. Fixed entries never live here.
type state struct {
	user []domain.ResolvedLocation
}

// change is what a reducer step did, if anything.
type change struct {
	action   domain.FavoriteAction
	location domain.ResolvedLocation
}

// reduce applies a to s. It never mutates s; ok is false when a was a no-op,
// in which case nothing must be persisted or announced.
func reduce(s state, a action) (next state, c change, ok bool) {
	switch a.kind {
	case actionToggle:
		if IsFixed(a.location) {
			return s, change{}, false
		}
		i := slices.IndexFunc(s.user, a.location.SameFavorite)
		if i >= 0 {
			return state{user: slices.Delete(slices.Clone(s.user), i, i+1)},
				change{action: domain.FavoriteRemoved, location: s.user[i]}, true
		}
		user := make([]domain.ResolvedLocation, 0, len(s.user)+1)
		user = append(user, s.user...)
		user = append(user, a.location)
		return state{user: user}, change{action: domain.FavoriteAdded, location: a.location}, true

	case actionRemove:
		i := slices.Index(s.user, a.location)
		if i < 0 {
			return s, change{}, false
		}
		return state{user: slices.Delete(slices.Clone(s.user), i, i+1)},
			change{action: domain.FavoriteRemoved, location: s.user[i]}, true
	}
	return s, change{}, false
}

// list is fixed entries followed by user entries that do not collide with one.
func (s state) list() []domain.ResolvedLocation {
	out := make([]domain.ResolvedLocation, 0, len(fixedEntries)+len(s.user))
	out = append(out, fixedEntries...)
	for _, u := range s.user {
		if !IsFixed(u) {
			out = append(out, u)
		}
	}
	return out
}
