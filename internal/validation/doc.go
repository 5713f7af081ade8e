// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

/*
Package validation wraps go-playground/validator v10 with a process-wide
singleton and human-readable messages.

Request structs live next to their handlers and carry validate tags:

	type nearbyParams struct {
	    Lat *float64 `query:"lat" validate:"required,latitude"`
	    Lng *float64 `query:"lng" validate:"required,longitude"`
	}

	if verr := validation.ValidateStruct(&p); verr != nil {
	    respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", verr.Error())
	    return
	}

Field names in messages come from the json tag, then the query tag, then the
Go name. Pointer fields let "required" tell a missing coordinate from 0.

Custom tags:
  - language: ISO 639 code with optional region (en, si, pt-BR)
  - notblank: string with at least one non-space character
*/
package validation
