// Package suncalc computes sunrise and sunset for a location.
package suncalc

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sj14/astral/pkg/astral"

	"github.com/couchcryptid/weather-lookup/internal/domain"
)

// Calculator returns sun times as wall-clock times in one timezone.
// Results are cached per coordinate and calendar day.
type Calculator struct {
	loc   *time.Location
	cache *cache.Cache
}

// New creates a calculator reporting times in loc.
func New(loc *time.Location) *Calculator {
	return &Calculator{
		loc:   loc,
		cache: cache.New(48*time.Hour, 0),
	}
}

// Today returns sun times for the current day in the calculator's timezone.
func (c *Calculator) Today(lat, lon float64) (domain.SunTimes, error) {
	return c.On(lat, lon, domain.Now())
}

// On returns sun times for the calendar day containing date, as seen in
// the calculator's timezone.
func (c *Calculator) On(lat, lon float64, date time.Time) (domain.SunTimes, error) {
	day := date.In(c.loc)
	key := fmt.Sprintf("%.4f,%.4f,%s", lat, lon, day.Format(time.DateOnly))
	if v, ok := c.cache.Get(key); ok {
		return v.(domain.SunTimes), nil
	}

	obs := astral.Observer{Latitude: lat, Longitude: lon}
	sunrise, err := c.event(astral.Sunrise, obs, day)
	if err != nil {
		return domain.SunTimes{}, fmt.Errorf("sunrise: %w", err)
	}
	sunset, err := c.event(astral.Sunset, obs, day)
	if err != nil {
		return domain.SunTimes{}, fmt.Errorf("sunset: %w", err)
	}

	times := domain.SunTimes{Sunrise: sunrise, Sunset: sunset}
	c.cache.SetDefault(key, times)
	return times, nil
}

// event evaluates fn for the local calendar day of day. astral works on UTC
// dates, so for zones far from UTC the first answer can land on the
// neighbouring local day and is recomputed with the date shifted.
func (c *Calculator) event(fn func(astral.Observer, time.Time) (time.Time, error), obs astral.Observer, day time.Time) (time.Time, error) {
	want := civil(day)
	utcDay := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	t, err := fn(obs, utcDay)
	if err != nil {
		return time.Time{}, err
	}
	switch got := civil(t.In(c.loc)); {
	case got.Before(want):
		t, err = fn(obs, utcDay.AddDate(0, 0, 1))
	case got.After(want):
		t, err = fn(obs, utcDay.AddDate(0, 0, -1))
	}
	if err != nil {
		return time.Time{}, err
	}
	return t.In(c.loc), nil
}

func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
