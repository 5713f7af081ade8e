// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package news

import (
	"context"
	"strings"
	"time"

	"github.com/tomtom215/travelbuddy/internal/cache"
)

// Request defaults and bounds.
const (
	DefaultQuery    = "travel"
	DefaultLanguage = "en"
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Article is a normalized news article.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"image_url,omitempty"`
	Source      string    `json:"source,omitempty"`
	Author      string    `json:"author,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// Request is a travel news query. Zero values take defaults.
type Request struct {
	Query    string
	Language string
	PageSize int
	Page     int
}

// Result is the body of GET /api/travel-news.
type Result struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"total_results"`
	Articles     []Article `json:"articles"`
	Cached       bool      `json:"cached"`
}

// Source is the NewsAPI surface the service uses.
type Source interface {
	Everything(ctx context.Context, q Query) (int, []Article, error)
}

var _ Source = (*Client)(nil)

// Service serves cached travel news.
type Service struct {
	source Source
	cache  *cache.Cache[Result]
}

// NewService wires the service to its dependencies.
func NewService(source Source, c *cache.Cache[Result]) *Service {
	return &Service{source: source, cache: c}
}

// Cache exposes the backing cache.
func (s *Service) Cache() *cache.Cache[Result] { return s.cache }

// Normalize applies defaults and bounds to req.
func Normalize(req Request) Request {
	if strings.TrimSpace(req.Query) == "" {
		req.Query = DefaultQuery
	}
	if strings.TrimSpace(req.Language) == "" {
		req.Language = DefaultLanguage
	}
	if req.PageSize <= 0 {
		req.PageSize = DefaultPageSize
	}
	if req.PageSize > MaxPageSize {
		req.PageSize = MaxPageSize
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	return req
}

// Key derives the cache key for a normalized request.
func Key(req Request) string {
	return cache.NewKey("news").
		Str(req.Query).
		Str(req.Language).
		Int(req.PageSize).
		Int(req.Page).
		String()
}

// TravelNews returns the newest articles matching req.
func (s *Service) TravelNews(ctx context.Context, req Request) (Result, error) {
	req = Normalize(req)

	res, lr, err := s.cache.GetOrLoad(ctx, Key(req), func(ctx context.Context) (Result, error) {
		total, articles, err := s.source.Everything(ctx, Query{
			Q:        req.Query,
			Language: req.Language,
			PageSize: req.PageSize,
			Page:     req.Page,
			SortBy:   "publishedAt",
		})
		if err != nil {
			return Result{}, err
		}
		return Result{Status: "ok", TotalResults: total, Articles: articles}, nil
	})
	if err != nil {
		return Result{}, err
	}
	res.Cached = lr.Hit
	return res, nil
}
