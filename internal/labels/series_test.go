package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSeriesName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"note marker", "Crude oil production [note 1]", "Crude oil production"},
		{"case insensitive", "Imports [NOTE 12] of crude", "Imports of crude"},
		{"no space before digits", "Exports [note3]", "Exports"},
		{"several markers", "[note 1] Refinery [Note 2] output [note 3]", "Refinery output"},
		{"newlines and tabs", "Natural gas\n liquids\t(NGLs)", "Natural gas liquids (NGLs)"},
		{"other brackets kept", "Stocks [provisional]", "Stocks [provisional]"},
		{"empty", "", ""},
		{"only a marker", "  [note 4]  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSeriesName(tt.raw))
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"parentheses", "Natural Gas Liquids (NGLs)", "natural_gas_liquids_ngls"},
		{"leading and trailing", "  --Crude oil--  ", "crude_oil"},
		{"digits kept", "Feedstocks 2 (kt)", "feedstocks_2_kt"},
		{"non ascii letters", "Pétrole brut", "p_trole_brut"},
		{"empty", "", ""},
		{"only symbols", "(*)", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}
