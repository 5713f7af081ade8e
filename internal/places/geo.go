// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package places

import (
	"math"
	"sort"
)

const earthRadiusKM = 6371.0

// HaversineKM returns the great-circle distance between a and b in kilometers.
func HaversineKM(a, b Location) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKM * math.Asin(math.Min(1, math.Sqrt(h)))
}

// roundKM keeps two decimals (10 m).
func roundKM(d float64) float64 {
	return math.Round(d*100) / 100
}

// withDistances returns a copy of places with DistanceKM set from origin.
func withDistances(origin Location, places []Place) []Place {
	out := make([]Place, len(places))
	for i, p := range places {
		p.DistanceKM = roundKM(HaversineKM(origin, p.Location))
		out[i] = p
	}
	return out
}

// sortByDistance orders places nearest first, keeping input order on ties.
func sortByDistance(places []Place) {
	sort.SliceStable(places, func(i, j int) bool {
		return places[i].DistanceKM < places[j].DistanceKM
	})
}
