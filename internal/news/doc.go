// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

// Package news serves travel news from NewsAPI through a one-hour cache.
// Articles the publisher has withdrawn (title "[Removed]") are dropped.
package news
