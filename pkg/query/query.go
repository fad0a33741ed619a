// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses list-valued settings and query parameters.
package query

import "strings"

// StringSlice splits a comma-separated value into trimmed, non-empty items.
// It returns nil for an empty input.
func StringSlice(value string) []string {
	if value == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if clean := strings.TrimSpace(item); clean != "" {
			items = append(items, clean)
		}
	}
	return items
}
