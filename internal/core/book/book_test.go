// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookdesk/internal/core/book"
	"github.com/taibuivan/bookdesk/internal/core/rating"
	"github.com/taibuivan/bookdesk/internal/platform/apperr"
)

/*
TestBook_Decode accepts the encodings the backend is known to produce.
*/
func TestBook_Decode(t *testing.T) {
	tests := []struct {
		name string
		body string
		isbn book.Identifier
		year book.Year
	}{
		{"string_fields", `{"isbn13":"9780439554930","publication":"1997"}`, "9780439554930", 1997},
		{"numeric_fields", `{"isbn13":9780439554930,"publication":1997}`, "9780439554930", 1997},
		{"exponent_isbn", `{"isbn13":9.78043955493e+12,"publication":1997.0}`, "9780439554930", 1997},
		{"null_fields", `{"isbn13":null,"publication":null}`, "", 0},
		{"blank_year", `{"isbn13":"1","publication":""}`, "1", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b book.Book
			require.NoError(t, json.Unmarshal([]byte(tt.body), &b))
			assert.Equal(t, tt.isbn, b.ISBN13)
			assert.Equal(t, tt.year, b.Publication)
		})
	}
}

/*
TestBook_DecodeRatings maps the rating_N wire fields onto the histogram.
*/
func TestBook_DecodeRatings(t *testing.T) {
	body := `{"isbn13":"9780439554930","title":"Harry Potter","ratings":{"count":10,"average":4.5,"rating_1":0,"rating_2":0,"rating_3":0,"rating_4":5,"rating_5":5}}`

	var b book.Book
	require.NoError(t, json.Unmarshal([]byte(body), &b))

	assert.Equal(t, rating.Histogram{Count: 10, Average: 4.5, Star4: 5, Star5: 5}, b.Ratings)
}

/*
TestSummarize applies display fallbacks for missing fields.
*/
func TestSummarize(t *testing.T) {
	t.Run("complete", func(t *testing.T) {
		s := book.Summarize(book.Book{
			ISBN13:      "9780439554930",
			Title:       "Harry Potter",
			Authors:     "J.K. Rowling",
			Publication: 1997,
			Icons:       book.Icons{Large: "https://img/large.png", Small: "https://img/small.png"},
		})

		assert.Equal(t, "9780439554930", s.ISBN)
		require.NotNil(t, s.PublicationYear)
		assert.Equal(t, 1997, *s.PublicationYear)
		require.NotNil(t, s.CoverImageURL)
		assert.Equal(t, "https://img/small.png", *s.CoverImageURL)
	})

	t.Run("missing", func(t *testing.T) {
		s := book.Summarize(book.Book{Title: "  "})

		assert.Equal(t, book.UnknownISBN, s.ISBN)
		assert.Equal(t, book.UnknownTitle, s.Title)
		assert.Equal(t, book.UnknownAuthors, s.Authors)
		assert.Nil(t, s.PublicationYear)
		assert.Nil(t, s.CoverImageURL)
	})

	t.Run("large_cover_only", func(t *testing.T) {
		s := book.Summarize(book.Book{Icons: book.Icons{Large: "https://img/large.png"}})
		require.NotNil(t, s.CoverImageURL)
		assert.Equal(t, "https://img/large.png", *s.CoverImageURL)
	})

	assert.Len(t, book.SummarizeAll([]book.Book{{}, {}}), 2)
	assert.Empty(t, book.SummarizeAll(nil))
}

/*
TestEntry_Validate checks default covers and field-level failures.
*/
func TestEntry_Validate(t *testing.T) {
	valid := book.Entry{
		ISBN13:        "978-0-439-55493-0",
		Authors:       "J.K. Rowling",
		Publication:   1997,
		OriginalTitle: "Harry Potter and the Philosopher's Stone",
		Title:         "Harry Potter and the Sorcerer's Stone",
	}.WithDefaults()

	assert.Equal(t, "9780439554930", valid.ISBN13)
	assert.Equal(t, book.DefaultLargeCover, valid.Icons.Large)
	assert.Equal(t, book.DefaultSmallCover, valid.Icons.Small)
	assert.NoError(t, valid.Validate())

	checkDigitX := valid
	checkDigitX.ISBN13 = "043955493X"
	assert.Error(t, checkDigitX.Validate())

	invalid := valid
	invalid.ISBN13 = "12345"
	invalid.Title = ""
	invalid.Ratings = rating.Histogram{Count: 3, Star5: 1}

	ae := apperr.As(invalid.Validate())
	require.NotNil(t, ae)

	fields := make([]string, 0, len(ae.Details))
	for _, d := range ae.Details {
		fields = append(fields, d.Field)
	}
	assert.Contains(t, fields, "isbn13")
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, rating.FieldRatings)
}

/*
TestEntry_WithDefaults_Ratings derives the count and average from bare buckets.
*/
func TestEntry_WithDefaults_Ratings(t *testing.T) {
	entry := book.Entry{
		ISBN13:        "9780439554930",
		Authors:       "J.K. Rowling",
		Publication:   1997,
		OriginalTitle: "Harry Potter",
		Title:         "Harry Potter",
		Ratings:       rating.Histogram{Star4: 1, Star5: 1},
	}.WithDefaults()

	assert.Equal(t, 2, entry.Ratings.Count)
	assert.InDelta(t, 4.5, entry.Ratings.Average, 1e-9)
	assert.NoError(t, entry.Validate())

	empty := book.Entry{}.WithDefaults()
	assert.Equal(t, rating.Histogram{}, empty.Ratings)
}

/*
TestNormalizeTerm validates the search term for each mode.
*/
func TestNormalizeTerm(t *testing.T) {
	tests := []struct {
		name     string
		mode     book.Mode
		raw      string
		want     string
		hasError bool
	}{
		{"isbn_digits", book.ModeISBN, " 9780439554930 ", "9780439554930", false},
		{"isbn_letters", book.ModeISBN, "978abc", "", true},
		{"author", book.ModeAuthor, "  J.K.   Rowling ", "J.K. Rowling", false},
		{"title_blank", book.ModeTitle, "   ", "", true},
		{"rating_in_range", book.ModeRating, "4", "4", false},
		{"rating_out_of_range", book.ModeRating, "6", "", true},
		{"rating_not_number", book.ModeRating, "four", "", true},
		{"all_ignores_term", book.ModeAll, "anything", "", false},
		{"unknown_mode", book.Mode("genre"), "x", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := book.NormalizeTerm(tt.mode, tt.raw)
			if tt.hasError {
				require.Error(t, err)
				assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

/*
TestParseMode resolves names case-insensitively.
*/
func TestParseMode(t *testing.T) {
	mode, ok := book.ParseMode(" ISBN ")
	assert.True(t, ok)
	assert.Equal(t, book.ModeISBN, mode)

	_, ok = book.ParseMode("genre")
	assert.False(t, ok)

	assert.True(t, book.ModeAll.Paginated())
	assert.False(t, book.ModeRating.Deletable())
	assert.True(t, book.ModeTitle.Deletable())
}
