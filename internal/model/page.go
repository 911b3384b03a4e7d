package model

import "time"

// Page is a fetched HTML document.
type Page struct {
	URL        string `json:"url"`
	StatusCode int    `json:"status_code"`
	Body       []byte `json:"-"`
	FromCache  bool   `json:"from_cache"`
}

// PageCache is a cached page body keyed by URL.
type PageCache struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Body      []byte    `json:"-"`
	FetchedAt time.Time `json:"fetched_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
