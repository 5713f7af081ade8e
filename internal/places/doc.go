// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

/*
Package places implements the cache-backed place services.

Services:
  - AINearbyService: model recommendations near a point, falling back to
    Google Nearby Search. Cached under places_ai_<lat>_<lng>_... for an hour.
  - EnrichmentService: long-lived descriptions of a single place. Model
    failures are answered with a fallback payload (Fallback=true) cached for
    a short FallbackTTL only.
  - SearchService: Google Text Search plus forward and reverse geocoding.
    Reverse geocoding shares the bounded FIFO geo cache under geo_<lat>_<lng>.

Every miss goes through cache.GetOrLoad, so concurrent identical requests
trigger one upstream call. Coordinates are rounded to four decimals before
they reach a key.

GoogleClient talks to the Places and Geocoding web services through an
upstream.Client. Google answers most failures with HTTP 200 and a status
field; anything other than OK or ZERO_RESULTS becomes an *APIStatusError.
*/
package places
