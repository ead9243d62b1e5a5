// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package rating implements the five-bucket star histogram attached to every book.

A [Histogram] is loaded from the backend with the book, a new vote is applied
locally with [ApplyVote], and the resulting copy is sent back as the new source
of truth. Everything in this package is pure arithmetic; persistence lives in
the catalog service.

Invariants:

  - Count equals the sum of the five buckets after every committed update.
  - Average is the weighted mean of the buckets when Count > 0, and 0 otherwise.
*/
package rating

import (
	"fmt"

	"github.com/taibuivan/bookdesk/internal/platform/apperr"
	"github.com/taibuivan/bookdesk/internal/platform/validate"
)

// # Vote Bounds

const (
	// MinStar is the lowest vote a reader can cast.
	MinStar = 1
	// MaxStar is the highest vote a reader can cast.
	MaxStar = 5

	// FieldStar is the field name reported on invalid votes.
	FieldStar = "star"
	// FieldRatings is the field name reported on inconsistent histograms.
	FieldRatings = "ratings"
)

// Histogram is the per-book count of votes for each star value.
//
// The JSON shape matches the backend's "ratings" object.
type Histogram struct {
	Count   int     `json:"count" yaml:"count"`
	Average float64 `json:"average" yaml:"average"`
	Star1   int     `json:"rating_1" yaml:"rating_1"`
	Star2   int     `json:"rating_2" yaml:"rating_2"`
	Star3   int     `json:"rating_3" yaml:"rating_3"`
	Star4   int     `json:"rating_4" yaml:"rating_4"`
	Star5   int     `json:"rating_5" yaml:"rating_5"`
}

// # Aggregation

// ApplyVote returns a copy of h with one more vote for star.
//
// The count and the matching bucket are incremented and the average is
// recomputed from the post-increment buckets. h itself is never modified, so
// callers can keep it for rollback if persisting the vote fails.
//
// A star outside [MinStar, MaxStar] yields a VALIDATION_ERROR and h unchanged.
func ApplyVote(h Histogram, star int) (Histogram, error) {
	if err := ValidateStar(star); err != nil {
		return h, err
	}

	updated := h
	updated.Count++
	*updated.bucket(star)++
	updated.Average = updated.mean()

	return updated, nil
}

// ValidateStar checks that star is a castable vote.
func ValidateStar(star int) error {
	return (&validate.Validator{}).
		Range(FieldStar, star, MinStar, MaxStar).
		Err()
}

// # Accessors

// Bucket returns the number of votes for star, or 0 for an out-of-range star.
func (h Histogram) Bucket(star int) int {
	if star < MinStar || star > MaxStar {
		return 0
	}
	return *h.bucket(star)
}

// Sum returns the total of the five buckets.
func (h Histogram) Sum() int {
	return h.Star1 + h.Star2 + h.Star3 + h.Star4 + h.Star5
}

// WeightedSum returns 1*Star1 + 2*Star2 + 3*Star3 + 4*Star4 + 5*Star5.
func (h Histogram) WeightedSum() int {
	return h.Star1 + 2*h.Star2 + 3*h.Star3 + 4*h.Star4 + 5*h.Star5
}

// Recompute returns a copy whose Count and Average are derived from the buckets.
func (h Histogram) Recompute() Histogram {
	h.Count = h.Sum()
	h.Average = h.mean()
	return h
}

// Validate reports whether the histogram satisfies its invariants.
//
// It is used to reject hand-entered rating blocks (for example on book
// creation) before they reach the backend.
func (h Histogram) Validate() error {
	v := &validate.Validator{}
	for star := MinStar; star <= MaxStar; star++ {
		v.Custom(fmt.Sprintf("rating_%d", star), h.Bucket(star) < 0, "Must not be negative")
	}
	v.Custom(FieldRatings, h.Count != h.Sum(),
		fmt.Sprintf("Count %d does not match the sum of star buckets %d", h.Count, h.Sum()))

	if err := v.Err(); err != nil {
		return err
	}

	if h.Count > 0 && !closeEnough(h.Average, h.mean()) {
		return apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   "average",
			Message: fmt.Sprintf("Average must be %.4f for the given buckets", h.mean()),
		})
	}

	return nil
}

// bucket returns a pointer to the counter for star. star must be in range.
func (h *Histogram) bucket(star int) *int {
	switch star {
	case 1:
		return &h.Star1
	case 2:
		return &h.Star2
	case 3:
		return &h.Star3
	case 4:
		return &h.Star4
	default:
		return &h.Star5
	}
}

// mean computes the weighted average from the buckets and the current count.
func (h Histogram) mean() float64 {
	if h.Count == 0 {
		return 0
	}
	return float64(h.WeightedSum()) / float64(h.Count)
}

// averageTolerance absorbs rounding done by whoever typed or stored the average.
const averageTolerance = 0.01

func closeEnough(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff <= averageTolerance
}
