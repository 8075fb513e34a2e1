package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// accentFold maps the Hungarian diacritics the listing sites use in city
// names and listing URLs to their unaccented ASCII letters.
var accentFold = map[rune]rune{
	'ä': 'a', 'á': 'a', 'é': 'e', 'í': 'i', 'ó': 'o',
	'ö': 'o', 'ő': 'o', 'ú': 'u', 'ü': 'u', 'ű': 'u',
	'Ä': 'A', 'Á': 'A', 'É': 'E', 'Í': 'I', 'Ó': 'O',
	'Ö': 'O', 'Ő': 'O', 'Ú': 'U', 'Ü': 'U', 'Ű': 'U',
}

// FoldAccents replaces accented letters with their ASCII equivalents.
// Characters outside the table are left untouched.
func FoldAccents(s string) string {
	t := runes.Map(func(r rune) rune {
		if a, ok := accentFold[r]; ok {
			return a
		}
		return r
	})
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeCity turns a user supplied city name into the URL token the
// search pages expect, e.g. "Győr" becomes "gyor".
func NormalizeCity(city string) string {
	return FoldAccents(cases.Lower(language.Hungarian).String(strings.TrimSpace(city)))
}
