package googlebooks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanISBN(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"hyphenated isbn13", "978-4-87311-752-3", "9784873117523"},
		{"spaces", " 4873117 52X ", "487311752X"},
		{"tabs and newlines", "97\t84873\n117523", "9784873117523"},
		{"already clean", "9784873117523", "9784873117523"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanISBN(tt.in))
		})
	}
}

func TestValidISBN(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"isbn10 digits", "4873117526", true},
		{"isbn10 check X", "487311752X", true},
		{"isbn13", "9784873117523", true},
		{"isbn10 lowercase x", "487311752x", false},
		{"isbn10 X not last", "48731X7526", false},
		{"isbn13 with letter", "978487311752X", false},
		{"too short", "123456789", false},
		{"too long", "97848731175234", false},
		{"eleven digits", "12345678901", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidISBN(tt.in))
		})
	}
}
