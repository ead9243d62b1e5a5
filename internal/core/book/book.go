// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package book defines the catalog entities exchanged with the book backend.

# Architecture

The backend owns every book; this package only describes its wire shape
([Book]), the display projection used by admin views ([Summary]), and the
payload accepted for creation ([Entry]). No copy is cached: each view fetches
its own.
*/
package book

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/taibuivan/bookdesk/internal/core/rating"
	"github.com/taibuivan/bookdesk/internal/platform/validate"
)

// # Domain Entities

// Book is a catalog entry as returned by the backend.
type Book struct {
	ISBN13        Identifier       `json:"isbn13"`
	Title         string           `json:"title"`
	OriginalTitle string           `json:"original_title,omitempty"`
	Authors       string           `json:"authors"`
	Publication   Year             `json:"publication"`
	Ratings       rating.Histogram `json:"ratings"`
	Icons         Icons            `json:"icons"`
}

// Icons holds the cover image URLs of a book.
type Icons struct {
	Large string `json:"large" yaml:"large" validate:"required,url"`
	Small string `json:"small" yaml:"small" validate:"required,url"`
}

// Summary is the flattened projection of a [Book] shown in result lists.
type Summary struct {
	ISBN            string           `json:"isbn"`
	Title           string           `json:"title"`
	Authors         string           `json:"authors"`
	PublicationYear *int             `json:"publication_year"`
	CoverImageURL   *string          `json:"cover_image_url"`
	Rating          rating.Histogram `json:"rating"`
}

// # Display Fallbacks

const (
	UnknownISBN    = "N/A"
	UnknownTitle   = "Unknown Title"
	UnknownAuthors = "Unknown Author(s)"
)

// Summarize projects b into a [Summary], filling display fallbacks for missing fields.
func Summarize(b Book) Summary {
	summary := Summary{
		ISBN:    fallback(string(b.ISBN13), UnknownISBN),
		Title:   fallback(b.Title, UnknownTitle),
		Authors: fallback(b.Authors, UnknownAuthors),
		Rating:  b.Ratings,
	}

	if b.Publication > 0 {
		year := int(b.Publication)
		summary.PublicationYear = &year
	}

	// Prefer the small icon for lists; fall back to the large one.
	if cover := fallback(b.Icons.Small, b.Icons.Large); cover != "" {
		summary.CoverImageURL = &cover
	}

	return summary
}

// SummarizeAll projects every book in order.
func SummarizeAll(books []Book) []Summary {
	summaries := make([]Summary, 0, len(books))
	for _, b := range books {
		summaries = append(summaries, Summarize(b))
	}
	return summaries
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}

// # Creation Payload

// Default cover images used when an admin does not supply any.
const (
	DefaultLargeCover = "https://s.gr-assets.com/assets/nophoto/book/111x148-bcc042a9c91a29c1d680899eff700a03.png"
	DefaultSmallCover = "https://s.gr-assets.com/assets/nophoto/book/50x75-a91bf249278a81aabab721ef782c4a74.png"
)

// Entry is the body sent to the backend to create a book.
type Entry struct {
	ISBN13        string           `json:"isbn13" yaml:"isbn13" validate:"required,isbn"`
	Authors       string           `json:"authors" yaml:"authors" validate:"required,max=255"`
	Publication   int              `json:"publication" yaml:"publication" validate:"required,gte=1,lte=9999"`
	OriginalTitle string           `json:"original_title" yaml:"original_title" validate:"required,max=255"`
	Title         string           `json:"title" yaml:"title" validate:"required,max=255"`
	Ratings       rating.Histogram `json:"ratings" yaml:"ratings"`
	Icons         Icons            `json:"icons" yaml:"icons"`
}

// WithDefaults returns a copy with default covers filled in and separators removed from the ISBN.
// A rating block given only as star buckets gets its count and average derived.
func (e Entry) WithDefaults() Entry {
	e.ISBN13 = strings.NewReplacer("-", "", " ", "").Replace(e.ISBN13)
	if strings.TrimSpace(e.Icons.Large) == "" {
		e.Icons.Large = DefaultLargeCover
	}
	if strings.TrimSpace(e.Icons.Small) == "" {
		e.Icons.Small = DefaultSmallCover
	}
	if e.Ratings.Count == 0 && e.Ratings.Average == 0 {
		e.Ratings = e.Ratings.Recompute()
	}
	return e
}

// Validate checks the tagged fields and the consistency of the rating block.
func (e Entry) Validate() error {
	v := &validate.Validator{}
	v.Merge("entry", validate.Struct(e))
	v.Merge(rating.FieldRatings, e.Ratings.Validate())
	return v.Err()
}

// # Wire Tolerance

// Identifier is an ISBN that the backend may encode as a JSON string or number.
type Identifier string

// UnmarshalJSON accepts "9780439554930", 9780439554930, or null.
func (id *Identifier) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = Identifier(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("book: isbn13 is neither string nor number: %w", err)
	}
	// Large ISBNs arrive as floats from some encoders (9.780439554930e+12).
	if f, err := n.Float64(); err == nil && strings.ContainsAny(n.String(), ".eE") {
		*id = Identifier(strconv.FormatFloat(f, 'f', 0, 64))
		return nil
	}
	*id = Identifier(n.String())
	return nil
}

// Year is a publication year that the backend may encode as a string or number.
type Year int

// UnmarshalJSON accepts 1997, "1997", "", or null. Unparseable values become 0.
func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*y = 0
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		*y = 0
		return nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*y = 0
		return nil
	}
	*y = Year(int(f))
	return nil
}
