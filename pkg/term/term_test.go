// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package term_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/bookdesk/pkg/term"
)

/*
TestNormalize covers whitespace folding and accent composition.
*/
func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Tolkien", "Tolkien"},
		{"trim_and_collapse", "  J.K.   Rowling \t", "J.K. Rowling"},
		{"decomposed_accent", "Gabriel Garci\u0301a Ma\u0301rquez", "Gabriel Garc\u00eda M\u00e1rquez"},
		{"control_chars", "Dune\x00\x07", "Dune"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, term.Normalize(tt.input))
		})
	}
}

/*
TestPathSegment escapes characters that would split the backend path.
*/
func TestPathSegment(t *testing.T) {
	assert.Equal(t, "The%20Lord%20of%20the%20Rings", term.PathSegment(" The Lord  of the Rings "))
	assert.Equal(t, "AC%2FDC", term.PathSegment("AC/DC"))
}

/*
TestEqual treats composed and decomposed spellings as the same term.
*/
func TestEqual(t *testing.T) {
	assert.True(t, term.Equal("M\u00e1rquez", "Ma\u0301rquez"))
	assert.False(t, term.Equal("Dune", "Dune Messiah"))
}
