package geomap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBandFor_Boundaries(t *testing.T) {
	tests := []struct {
		year int
		want Band
	}{
		{2034, BandFallback},
		{2035, BandA},
		{2050, BandA},
		{2051, BandB},
		{2075, BandB},
		{2076, BandC},
		{2100, BandC},
		{2101, BandFallback},
		{0, BandFallback},
		{-5, BandFallback},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BandFor(tt.year), "year %d", tt.year)
	}
}

func TestBandFor_Total(t *testing.T) {
	for y := 1900; y <= 2200; y++ {
		b := BandFor(y)
		matches := 0
		for _, s := range legendEntries {
			if y >= s.FromYear && y <= s.ToYear {
				matches++
			}
		}
		if matches == 0 {
			assert.Equal(t, BandFallback, b, "year %d", y)
		} else {
			assert.Equal(t, 1, matches, "bands overlap at %d", y)
		}
	}
}

func TestBandForFeature_NilYear(t *testing.T) {
	assert.Equal(t, BandFallback, BandForFeature(nil))
}

func TestBand_TextColorContrastsWithFill(t *testing.T) {
	assert.Equal(t, DarkText, BandA.TextColor(), "bright yellow fill")
	assert.Equal(t, DarkText, BandB.TextColor(), "bright orange fill")
	assert.Equal(t, LightText, BandC.TextColor(), "dark red fill")
}

func TestContrastText(t *testing.T) {
	assert.Equal(t, DarkText, ContrastText("#ffffff"))
	assert.Equal(t, LightText, ContrastText("#000000"))
	assert.Equal(t, DarkText, ContrastText("not-a-colour"))
}

func TestLegend(t *testing.T) {
	legend := Legend()
	if assert.Len(t, legend, 4) {
		assert.Equal(t, BandA, legend[0].Band)
		assert.Equal(t, BandFallback, legend[3].Band)
		for _, s := range legend {
			assert.NotEmpty(t, s.TextColor)
		}
	}
}
