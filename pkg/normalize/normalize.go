// Package normalize canonicalizes free-form product text so that records from
// differently formatted pricelists become comparable: lowercasing, diacritic
// removal, whitespace collapsing, and a word-boundary-safe synonym table for
// common audio-equipment abbreviations.
//
// Normalize is pure and idempotent: Normalize(Normalize(s)) == Normalize(s).
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// diacriticStripper decomposes to NFD, drops combining marks, recomposes.
var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Numeric unit notations are expanded before the synonym pass so that
// "5.1ch" becomes "5.1 channel" rather than being left as a glued token.
var unitExpansions = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s*ch\b`), "$1 channel"},
	{regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s*w\b`), "$1 watts"},
	{regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s*hz\b`), "$1 hertz"},
	{regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s*ohm\b`), "$1 ohms"},
}

// Domain abbreviations expanded to canonical terms. All patterns are anchored
// on word boundaries so "amp" never rewrites the inside of "sampler".
var synonyms = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`\bch\b\.?`), "channel"},
	{regexp.MustCompile(`\bamp\b`), "amplifier"},
	{regexp.MustCompile(`\brec\b`), "receiver"},
	{regexp.MustCompile(`\bsub\b`), "subwoofer"},
	{regexp.MustCompile(`\bbt\b`), "bluetooth"},
	{regexp.MustCompile(`\bmic\b`), "microphone"},
	{regexp.MustCompile(`\bspk\b`), "speaker"},
	{regexp.MustCompile(`\bpwr\b`), "power"},
}

var (
	// Keep word characters, whitespace and hyphens; hyphens carry meaning in
	// model codes like "avr-x1800h".
	punct  = regexp.MustCompile(`[^\w\s-]`)
	spaces = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes text for comparison. Empty input yields "".
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	out := strings.ToLower(s)
	out = stripDiacritics(out)

	for _, u := range unitExpansions {
		out = u.re.ReplaceAllString(out, u.repl)
	}
	for _, syn := range synonyms {
		out = syn.re.ReplaceAllString(out, syn.repl)
	}

	out = punct.ReplaceAllString(out, " ")
	out = spaces.ReplaceAllString(out, " ")

	return strings.TrimSpace(out)
}

// Tokens returns the whitespace-separated tokens of the normalized text.
func Tokens(s string) []string {
	n := Normalize(s)
	if n == "" {
		return nil
	}
	return strings.Fields(n)
}

// Equal reports whether two strings are equal after normalization, treating
// two empty inputs as not equal (an absent field never matches anything).
func Equal(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	return na == nb
}

func stripDiacritics(s string) string {
	out, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		return s
	}
	return out
}
