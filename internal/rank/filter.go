// WorkAround - Study Venue Discovery and Ranking
// Copyright 2026 WorkAround Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/workaround-app/workaround

package rank

import (
	"strconv"
	"strings"

	"github.com/workaround-app/workaround/internal/models"
)

// Matches evaluates the conjunction of all filter predicates for one record.
// timeOfDay is the query-local "HH:MM" used by the open-now predicate.
// Cheap predicates (rating, category) run first; all must pass.
func Matches(place *models.Place, criteria models.FilterCriteria, timeOfDay string) bool {
	if place.Rating < criteria.MinRating {
		return false
	}

	if criteria.Category != "" && criteria.Category != models.CategoryAny && place.Category != criteria.Category {
		return false
	}

	// The record must support at least the requested group size.
	if criteria.MaxGroupSize > 0 && place.MaxGroupSize < criteria.MaxGroupSize {
		return false
	}

	if criteria.OpenNow && !openAt(place.Hours, timeOfDay) {
		return false
	}

	if criteria.MinParking > 0 && place.ParkingAvailability < criteria.MinParking {
		return false
	}
	if criteria.MinOutlets > 0 && place.OutletAvailability < criteria.MinOutlets {
		return false
	}
	if criteria.MinWifi > 0 && place.WifiQuality < criteria.MinWifi {
		return false
	}

	if criteria.RequireFood && !place.HasFood {
		return false
	}
	if criteria.RequireStudyRooms && !place.HasStudyRooms {
		return false
	}

	return textMatch(place, criteria.Query)
}

// openAt reports whether timeOfDay falls within the record's daily window,
// inclusive of both endpoints. A record with no hours is treated as always
// open; unparseable times fail open the same way.
func openAt(hours *models.OpenHours, timeOfDay string) bool {
	if hours == nil || timeOfDay == "" {
		return true
	}

	minutes, ok := minutesOfDay(timeOfDay)
	if !ok {
		return true
	}
	openMinutes, ok := minutesOfDay(hours.Open)
	if !ok {
		return true
	}
	closeMinutes, ok := minutesOfDay(hours.Close)
	if !ok {
		return true
	}

	return minutes >= openMinutes && minutes <= closeMinutes
}

// minutesOfDay parses "HH:MM" into minutes since midnight.
func minutesOfDay(hhmm string) (int, bool) {
	h, m, found := strings.Cut(hhmm, ":")
	if !found {
		return 0, false
	}
	hours, err := strconv.Atoi(h)
	if err != nil {
		return 0, false
	}
	mins, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return hours*60 + mins, true
}

// textMatch implements conjunctive substring search: every whitespace token
// of the query must appear somewhere in the lowercased concatenation of
// name, category, address and feature tags. An empty query always matches.
func textMatch(place *models.Place, query string) bool {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return true
	}

	parts := make([]string, 0, 3+len(place.FeatureTags))
	parts = append(parts, place.Name, string(place.Category), place.Address)
	parts = append(parts, place.FeatureTags...)
	haystack := strings.ToLower(strings.Join(parts, " "))

	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}
