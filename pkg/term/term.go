// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package term normalizes free-text search terms before they are placed in a backend URL.
//
// # Usage
//
// Author and title searches are sent as path segments (e.g. /books/author/{name}).
// Input pasted from different sources often mixes composed and decomposed
// accents or stray whitespace, which would otherwise produce different URLs
// for what the admin sees as the same name.
package term

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize converts s into the canonical form used for backend lookups.
//
// # Transformation Pipeline
//
// 1. Drops control characters.
// 2. Normalizes to NFC (é stays a single code point).
// 3. Collapses runs of whitespace into a single space and trims the ends.
//
// Case is preserved; the backend decides whether matching is case-sensitive.
func Normalize(s string) string {
	// 1. Strip control characters and compose accents
	t := transform.Chain(runes.Remove(runes.Predicate(unicode.IsControl)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}

	// 2. Collapse whitespace
	return strings.Join(strings.Fields(result), " ")
}

// PathSegment normalizes s and escapes it for use as a single URL path segment.
func PathSegment(s string) string {
	return url.PathEscape(Normalize(s))
}

// Equal reports whether two terms are the same search once normalized.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
