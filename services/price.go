package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// priceRegexp captures the numeric part of a Hungarian price and an optional
// multiplier word: "42,9 M Ft", "250 E Ft/hó", "1,2 Mrd Ft", "42,9 millió Ft",
// "89 900 000 HUF". The multiplier must end the word, so "eur" is not "e".
var priceRegexp = regexp.MustCompile(`(\d(?:[\d.,\s\x{00a0}]*\d)?)\s*(milliárd|millió|mrd|ezer|m|e)?(?:[^\p{L}]|$)`)

var multipliers = map[string]float64{
	"e":        1e3,
	"ezer":     1e3,
	"m":        1e6,
	"millió":   1e6,
	"mrd":      1e9,
	"milliárd": 1e9,
}

// ParsePrice converts a displayed price into a number. With a multiplier the
// comma is the decimal separator; without one, dots, commas and spaces are
// thousands separators. The result is rounded to whole units; ok is false
// when no number is found.
func ParsePrice(raw string) (value float64, ok bool) {
	match := priceRegexp.FindStringSubmatch(strings.ToLower(raw))
	if match == nil {
		return 0, false
	}

	digits := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\u00a0' || r == '\t' {
			return -1
		}
		return r
	}, match[1])

	mult, scaled := multipliers[match[2]]
	if scaled {
		digits = strings.ReplaceAll(strings.ReplaceAll(digits, ".", ""), ",", ".")
	} else {
		mult = 1
		digits = strings.NewReplacer(".", "", ",", "").Replace(digits)
	}

	n, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, false
	}
	return math.Round(n * mult), true
}
