// Copyright (c) 2026 Artistphere. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// Pages are 1-indexed. When a request carries no "limit", [DefaultLimit] (or
// the server's configured default) applies; there is no unlimited mode.
package pagination

import (
	"math"
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 20
	// MaxLimit is the upper bound for items per page to prevent system abuse.
	MaxLimit = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Params holds the parsed page and limit from a request's query string.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the SQL OFFSET value derived from [Page] and [Limit].
// It saturates at math.MaxInt instead of overflowing.
func (p Params) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewMeta constructs pagination metadata for a response.
func NewMeta(page, limit, total int) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// New clamps raw values into valid params.
//
// # Clamping
//
// Page values below 1 become [DefaultPage]. Limits below 1 become
// defaultLimit and limits above [MaxLimit] are capped at MaxLimit. Pages so
// large that their offset would overflow are capped as well.
func New(page, limit, defaultLimit int) Params {
	if defaultLimit < 1 || defaultLimit > MaxLimit {
		defaultLimit = DefaultLimit
	}

	if page < 1 {
		page = DefaultPage
	}

	switch {
	case limit < 1:
		limit = defaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}

	return Params{Page: page, Limit: limit}
}

// FromRequest parses "page" and "limit" query parameters from an HTTP request.
// Unparseable values fall back to the defaults.
func FromRequest(r *http.Request, defaultLimit int) Params {
	return New(
		parseIntParam(r, "page", DefaultPage),
		parseIntParam(r, "limit", 0),
		defaultLimit,
	)
}

// parseIntParam parses a single integer query parameter with a fallback default.
func parseIntParam(r *http.Request, key string, defaultVal int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}

	return n
}
