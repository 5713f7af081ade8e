// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package api

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/travelbuddy/internal/cache"
	"github.com/tomtom215/travelbuddy/internal/logging"
	"github.com/tomtom215/travelbuddy/internal/middleware"
)

// AdminSecretHeader carries the admin secret. "Authorization: Bearer <secret>"
// is accepted as well.
const AdminSecretHeader = "X-Admin-Secret"

// CacheList is the body of GET /api/admin/caches.
type CacheList struct {
	Caches []cache.Stats `json:"caches"`
}

// RequireAdmin guards admin routes. With no secret configured every request
// is refused with 403; a missing or wrong secret gets 401.
func (h *Handler) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		secret := h.config.Security.AdminSecret
		if secret == "" {
			h.auditAdmin(r, "admin.auth", r.URL.Path, false, "admin secret not configured")
			respondError(w, r, http.StatusForbidden, codeForbidden, "Admin access is disabled", nil)
			return
		}

		given := adminSecretFrom(r)
		if given == "" || subtle.ConstantTimeCompare([]byte(given), []byte(secret)) != 1 {
			h.auditAdmin(r, "admin.auth", r.URL.Path, false, "invalid admin secret")
			respondError(w, r, http.StatusUnauthorized, codeUnauthorized, "Invalid admin secret", nil)
			return
		}

		next(w, r)
	}
}

func adminSecretFrom(r *http.Request) string {
	if s := r.Header.Get(AdminSecretHeader); s != "" {
		return s
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

func (h *Handler) auditAdmin(r *http.Request, action, target string, success bool, reason string) {
	h.audit.Log(logging.AuditEvent{
		Action:    action,
		Target:    target,
		IPAddress: r.RemoteAddr,
		RequestID: middleware.GetRequestID(r.Context()),
		Success:   success,
		Reason:    reason,
	})
}

// ListCaches reports every registered cache.
//
// @Summary List caches
// @Description Stats of every registered cache, sorted by name.
// @Tags Admin
// @Produce json
// @Security AdminSecret
// @Success 200 {object} CacheList
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/caches [get]
func (h *Handler) ListCaches(w http.ResponseWriter, r *http.Request) {
	all := h.registry.All()
	out := CacheList{Caches: make([]cache.Stats, len(all))}
	for i, c := range all {
		out.Caches[i] = c.Stats()
	}
	respondJSON(w, http.StatusOK, out)
}

// CacheStats reports one cache including its keys.
//
// @Summary Cache statistics
// @Tags Admin
// @Produce json
// @Security AdminSecret
// @Param name path string true "Cache name"
// @Success 200 {object} CacheDetail
// @Failure 404 {object} ErrorResponse
// @Router /admin/caches/{name} [get]
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	c, ok := h.lookupCache(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, CacheDetail{Stats: c.Stats(), Keys: c.Keys()})
}

// CacheDetail is the body of GET /api/admin/caches/{name}.
type CacheDetail struct {
	cache.Stats
	Keys []string `json:"keys"`
}

// ClearCaches empties every registered cache.
//
// @Summary Clear all caches
// @Tags Admin
// @Produce json
// @Security AdminSecret
// @Success 200 {object} MessageResponse
// @Router /admin/caches [delete]
func (h *Handler) ClearCaches(w http.ResponseWriter, r *http.Request) {
	n := h.registry.ClearAll()
	h.auditAdmin(r, "cache.clear", "all", true, "")
	respondJSON(w, http.StatusOK, MessageResponse{
		Success: true,
		Message: fmt.Sprintf("Cleared %d caches", n),
	})
}

// ClearCache empties one cache.
//
// @Summary Clear one cache
// @Tags Admin
// @Produce json
// @Security AdminSecret
// @Param name path string true "Cache name"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/caches/{name} [delete]
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	c, ok := h.lookupCache(w, r)
	if !ok {
		return
	}
	h.clearCache(w, r, c)
}

func (h *Handler) lookupCache(w http.ResponseWriter, r *http.Request) (cache.Inspector, bool) {
	name := chi.URLParam(r, "name")
	c, ok := h.registry.Get(name)
	if !ok {
		respondError(w, r, http.StatusNotFound, codeNotFound,
			fmt.Sprintf("Unknown cache %q", logging.SanitizeValue(name)), nil)
		return nil, false
	}
	return c, true
}
