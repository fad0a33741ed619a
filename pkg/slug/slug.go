// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug derives taxonomy slugs ("science-fiction") from display names.
//
// Output always matches ^[a-z0-9-]*$. Accented Latin letters fold to their
// base letter; any other script is dropped, so a name may yield "".
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldAccents decomposes to NFD and drops the combining marks.
var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// From converts name into a lowercase ASCII slug. Runs of anything other than
// a-z and 0-9 become a single hyphen; leading and trailing hyphens are removed.
func From(name string) string {
	folded, _, err := transform.String(foldAccents, name)
	if err != nil {
		folded = name
	}

	var builder strings.Builder
	builder.Grow(len(folded))
	pendingHyphen := false

	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && builder.Len() > 0 {
				builder.WriteByte('-')
			}
			builder.WriteRune(r)
			pendingHyphen = false
			continue
		}
		pendingHyphen = true
	}

	return builder.String()
}

// FromMax is [From] cut to at most max bytes without a trailing hyphen.
func FromMax(name string, max int) string {
	generated := From(name)
	if len(generated) > max {
		generated = strings.TrimRight(generated[:max], "-")
	}
	return generated
}
