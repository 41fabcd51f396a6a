package catalog

import (
	"strconv"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// asciiDigits folds Arabic-Indic (U+0660..U+0669) and extended
// Arabic-Indic (U+06F0..U+06F9) digits into their ASCII forms.
var asciiDigits = runes.Map(func(r rune) rune {
	switch {
	case r >= '٠' && r <= '٩':
		return '0' + (r - '٠')
	case r >= '۰' && r <= '۹':
		return '0' + (r - '۰')
	}
	return r
})

// ParsePrice extracts the per-unit amount from a display price.
// The first run of decimal digits is the amount; text without digits is 0.
func ParsePrice(text string) float64 {
	normalized, _, err := transform.String(asciiDigits, text)
	if err != nil {
		normalized = text
	}

	start := -1
	for i := 0; i < len(normalized); i++ {
		c := normalized[i]
		if c >= '0' && c <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			return parseDigits(normalized[start:i])
		}
	}
	if start >= 0 {
		return parseDigits(normalized[start:])
	}
	return 0
}

func parseDigits(run string) float64 {
	v, err := strconv.ParseFloat(run, 64)
	if err != nil {
		return 0
	}
	return v
}
