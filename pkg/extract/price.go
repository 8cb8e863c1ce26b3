package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// currencyJunk strips currency symbols, letters used as symbols (R for rand),
// and whitespace before numeric interpretation.
var currencyJunk = regexp.MustCompile(`[R$€£¥₹₽¢₦₨₪₫₡₵₲₴₸₼₾₿\s]`)

// commaDecimal matches a comma acting as a decimal separator: a trailing
// comma group of exactly one or two digits.
var commaDecimal = regexp.MustCompile(`^\d+,\d{1,2}$`)

// Price parses a raw pricelist amount into a float. It tolerates currency
// symbols, thousands separators and European decimal commas:
//
//	"R1,234.50" -> 1234.50
//	"1234,56"   -> 1234.56
//	"1,234"     -> 1234.00
//
// ok is false for empty, non-numeric or otherwise unusable input.
func Price(raw string) (float64, bool) {
	s := currencyJunk.ReplaceAllString(raw, "")
	if s == "" {
		return 0, false
	}

	switch {
	case strings.Contains(s, ",") && strings.Contains(s, "."):
		// Both present: comma is a thousands separator.
		s = strings.ReplaceAll(s, ",", "")
	case strings.Contains(s, ","):
		if commaDecimal.MatchString(s) {
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
