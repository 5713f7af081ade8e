// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/travelbuddy/internal/config"
	"github.com/tomtom215/travelbuddy/internal/upstream"
)

// ErrNoAPIKey is returned when NEWS_API_KEY is not set.
var ErrNoAPIKey = errors.New("news: api key not configured")

// APIError is a NewsAPI {"status":"error"} answer. Err holds the
// *upstream.StatusError when the answer came with a non-2xx status.
type APIError struct {
	Code    string
	Message string
	Err     error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("newsapi: %s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// Query is one /v2/everything request.
type Query struct {
	Q        string
	Language string
	PageSize int
	Page     int
	SortBy   string
}

// Client calls NewsAPI.
type Client struct {
	apiKey  string
	baseURL string
	http    *upstream.Client
}

// NewClient creates a client from cfg.
func NewClient(cfg config.NewsConfig, breaker upstream.BreakerConfig) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		http: upstream.NewClient(upstream.Config{
			Name:    "newsapi",
			Timeout: cfg.Timeout,
			Breaker: breaker,
		}),
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool { return c.apiKey != "" }

// BreakerState reports the circuit breaker state.
func (c *Client) BreakerState() string { return c.http.BreakerState() }

// Everything searches all articles.
func (c *Client) Everything(ctx context.Context, q Query) (int, []Article, error) {
	if !c.Configured() {
		return 0, nil, ErrNoAPIKey
	}

	req := upstream.NewRequest(c.baseURL, "/v2/everything").
		Header("X-Api-Key", c.apiKey).
		Param("q", q.Q).
		Param("language", q.Language).
		IntParam("pageSize", q.PageSize).
		IntParam("page", q.Page).
		Param("sortBy", q.SortBy)

	resp, err := upstream.Do[everythingResponse](ctx, c.http, req)
	if err != nil {
		var se *upstream.StatusError
		if errors.As(err, &se) {
			if apiErr := decodeAPIError(se); apiErr != nil {
				return 0, nil, apiErr
			}
		}
		return 0, nil, err
	}
	if resp.Status != "ok" {
		return 0, nil, &APIError{Code: resp.Code, Message: resp.Message}
	}

	out := make([]Article, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		if a.Title == "" || strings.EqualFold(strings.TrimSpace(a.Title), removedMarker) {
			continue
		}
		out = append(out, a.normalize())
	}
	return resp.TotalResults, out, nil
}

// decodeAPIError extracts NewsAPI's error envelope from a non-2xx body.
// NewsAPI answers 401, 426 and 429 with the same JSON shape as a 200.
func decodeAPIError(se *upstream.StatusError) *APIError {
	if se.StatusCode == http.StatusNotFound || se.Body == "" {
		return nil
	}
	var body everythingResponse
	if err := json.Unmarshal([]byte(se.Body), &body); err != nil || body.Code == "" {
		return nil
	}
	return &APIError{Code: body.Code, Message: body.Message, Err: se}
}

// removedMarker is the title NewsAPI gives articles pulled by the publisher.
const removedMarker = "[Removed]"

type wireArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string    `json:"author"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	URLToImage  string    `json:"urlToImage"`
	PublishedAt time.Time `json:"publishedAt"`
	Content     string    `json:"content"`
}

func (a wireArticle) normalize() Article {
	return Article{
		Title:       strings.TrimSpace(a.Title),
		Description: strings.TrimSpace(a.Description),
		URL:         a.URL,
		ImageURL:    a.URLToImage,
		Source:      a.Source.Name,
		Author:      a.Author,
		PublishedAt: a.PublishedAt.UTC(),
	}
}

type everythingResponse struct {
	Status       string        `json:"status"`
	Code         string        `json:"code"`
	Message      string        `json:"message"`
	TotalResults int           `json:"totalResults"`
	Articles     []wireArticle `json:"articles"`
}
