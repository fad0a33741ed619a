// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination parses ?page=&limit= and builds the "meta" block of list
// responses. Pages are 1-indexed.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100

	// MaxPage bounds Offset so it cannot overflow.
	MaxPage = 1_000_000
)

// Params is a requested page.
type Params struct {
	Page  int
	Limit int
}

// Offset is the SQL OFFSET for p.
func (p Params) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	return (min(p.Page, MaxPage) - 1) * min(p.Limit, MaxLimit)
}

// Meta accompanies every list response.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta derives TotalPages from total and limit.
func NewMeta(page, limit, total int) Meta {
	meta := Meta{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		meta.TotalPages = (total + limit - 1) / limit
	}
	return meta
}

// FromRequest reads page and limit from the query string. Missing, malformed
// or out-of-range values fall back to the defaults instead of failing.
func FromRequest(request *http.Request) Params {
	query := request.URL.Query()

	params := Params{
		Page:  atoiOr(query.Get("page"), DefaultPage),
		Limit: atoiOr(query.Get("limit"), DefaultLimit),
	}
	if params.Page < 1 {
		params.Page = DefaultPage
	}
	params.Page = min(params.Page, MaxPage)
	if params.Limit < 1 || params.Limit > MaxLimit {
		params.Limit = DefaultLimit
	}
	return params
}

func atoiOr(raw string, fallback int) int {
	if value, err := strconv.Atoi(raw); err == nil {
		return value
	}
	return fallback
}
