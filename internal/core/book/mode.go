// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"strconv"
	"strings"

	"github.com/taibuivan/bookdesk/internal/core/rating"
	"github.com/taibuivan/bookdesk/internal/platform/validate"
	"github.com/taibuivan/bookdesk/pkg/term"
)

// # Search Modes

// Mode selects which backend lookup a search or delete runs against.
type Mode string

const (
	ModeISBN   Mode = "isbn"
	ModeAuthor Mode = "author"
	ModeTitle  Mode = "title"
	ModeRating Mode = "rating"
	ModeAll    Mode = "all"
)

// FieldMode and FieldTerm are the field names reported on invalid searches.
const (
	FieldMode = "mode"
	FieldTerm = "term"
)

// MaxTermLength bounds free-text search terms.
const MaxTermLength = 255

// Modes lists every search mode in menu order.
var Modes = []Mode{ModeISBN, ModeAuthor, ModeTitle, ModeRating, ModeAll}

// ParseMode resolves a mode by name (case-insensitive).
func ParseMode(raw string) (Mode, bool) {
	candidate := Mode(strings.ToLower(strings.TrimSpace(raw)))
	for _, mode := range Modes {
		if mode == candidate {
			return mode, true
		}
	}
	return "", false
}

// Paginated reports whether the mode walks the catalog page by page.
func (m Mode) Paginated() bool {
	return m == ModeAll
}

// Deletable reports whether the backend supports deleting by this mode.
func (m Mode) Deletable() bool {
	return m == ModeISBN || m == ModeAuthor || m == ModeTitle
}

// Label is the human-readable name of the mode's input.
func (m Mode) Label() string {
	switch m {
	case ModeISBN:
		return "ISBN Number"
	case ModeAuthor:
		return "Author's Name"
	case ModeTitle:
		return "Book Title"
	case ModeRating:
		return "Rating"
	default:
		return "All Books"
	}
}

// NormalizeTerm validates term for mode and returns the form sent to the backend.
//
// ISBN terms must be digits only; rating terms must be a star value; author
// and title terms are required and normalized; [ModeAll] ignores the term.
func NormalizeTerm(mode Mode, raw string) (string, error) {
	v := &validate.Validator{}
	if _, ok := ParseMode(string(mode)); !ok {
		v.OneOf(FieldMode, string(mode), modeNames()...)
		return "", v.Err()
	}

	if mode == ModeAll {
		return "", nil
	}

	normalized := term.Normalize(raw)
	v.Required(FieldTerm, normalized).MaxLen(FieldTerm, normalized, MaxTermLength)
	if v.HasErrors() {
		return "", v.Err()
	}

	switch mode {
	case ModeISBN:
		v.Digits(FieldTerm, normalized)
	case ModeRating:
		star, err := strconv.Atoi(normalized)
		v.Custom(FieldTerm, err != nil, "Must be a number")
		if err == nil {
			v.Range(FieldTerm, star, rating.MinStar, rating.MaxStar)
		}
	}

	if err := v.Err(); err != nil {
		return "", err
	}
	return normalized, nil
}

func modeNames() []string {
	names := make([]string, 0, len(Modes))
	for _, mode := range Modes {
		names = append(names, string(mode))
	}
	return names
}
