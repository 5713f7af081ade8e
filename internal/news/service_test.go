// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package news

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/travelbuddy/internal/cache"
)

type fakeSource struct {
	articles []Article
	err      error
	calls    int
	last     Query
}

func (f *fakeSource) Everything(_ context.Context, q Query) (int, []Article, error) {
	f.calls++
	f.last = q
	return len(f.articles), f.articles, f.err
}

func newTestService(src Source) *Service {
	return NewService(src, cache.New[Result](cache.Options{Name: "news", TTL: time.Hour}))
}

func TestTravelNews_DefaultsAndCache(t *testing.T) {
	src := &fakeSource{articles: []Article{{Title: "Hill country by train", URL: "https://example.com"}}}
	svc := newTestService(src)
	ctx := context.Background()

	res, err := svc.TravelNews(ctx, Request{})
	if err != nil {
		t.Fatalf("TravelNews() error = %v", err)
	}
	if res.Status != "ok" || res.TotalResults != 1 || len(res.Articles) != 1 || res.Cached {
		t.Errorf("TravelNews() = %+v", res)
	}
	want := Query{Q: "travel", Language: "en", PageSize: 20, Page: 1, SortBy: "publishedAt"}
	if src.last != want {
		t.Errorf("query = %+v, want %+v", src.last, want)
	}

	res, err = svc.TravelNews(ctx, Request{Query: "Travel", Language: "EN", PageSize: 20, Page: 1})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Cached || src.calls != 1 {
		t.Errorf("equivalent request should be cached (cached=%v calls=%d)", res.Cached, src.calls)
	}
}

func TestTravelNews_ErrorsNotCached(t *testing.T) {
	src := &fakeSource{err: errors.New("newsapi down")}
	svc := newTestService(src)

	if _, err := svc.TravelNews(context.Background(), Request{}); err == nil {
		t.Fatal("expected error")
	}
	if svc.Cache().Len() != 0 {
		t.Error("errors must not be cached")
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize(Request{PageSize: 500, Page: -2})
	if got.PageSize != MaxPageSize || got.Page != 1 || got.Query != DefaultQuery || got.Language != DefaultLanguage {
		t.Errorf("Normalize() = %+v", got)
	}
}

func TestKey(t *testing.T) {
	if got := Key(Normalize(Request{Query: "Sri Lanka"})); got != "news_sri lanka_en_20_1" {
		t.Errorf("Key() = %q", got)
	}
}
