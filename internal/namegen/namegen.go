// Package namegen produces customer-facing display names for incoming
// products. The generated name is only an extra matching signal and a nicer
// default title; everything works when generation fails or is disabled.
package namegen

import (
	"context"
	"strings"

	"github.com/soundline/catalog-sync/pkg/extract"
	domain "github.com/soundline/catalog-sync/pkg/types"
)

// Generator produces a display name for one record. Implementations return
// "" rather than an error when they simply have nothing useful to say.
type Generator interface {
	DisplayName(ctx context.Context, rec domain.IncomingRecord) (string, error)
}

// categoryTerms maps a keyword in the raw name to the category word used in
// the templated display name.
var categoryTerms = []struct {
	keyword  string
	category string
}{
	{"receiver", "AV Receiver"},
	{"amplifier", "Amplifier"},
	{"amp", "Amplifier"},
	{"subwoofer", "Subwoofer"},
	{"soundbar", "Soundbar"},
	{"turntable", "Turntable"},
	{"microphone", "Microphone"},
	{"mic", "Microphone"},
	{"headphone", "Headphones"},
	{"speaker", "Speaker"},
}

// Template is the deterministic fallback generator: "Brand Model Category"
// from whatever fields are present. It never errors.
type Template struct {
	extractor *extract.ModelExtractor
}

// NewTemplate creates the template generator.
func NewTemplate() *Template {
	return &Template{extractor: extract.NewModelExtractor()}
}

// DisplayName implements Generator.
func (t *Template) DisplayName(_ context.Context, rec domain.IncomingRecord) (string, error) {
	var parts []string

	if rec.Manufacturer != "" {
		parts = append(parts, rec.Manufacturer)
	}

	model := rec.Model
	if model == "" {
		model = t.extractor.ModelToken(rec.Name)
	}
	if model != "" {
		parts = append(parts, strings.ToUpper(model))
	}

	if cat := category(rec.Name); cat != "" {
		parts = append(parts, cat)
	}

	if len(parts) < 2 {
		// Not enough structure for a templated name; the raw name is better.
		return "", nil
	}
	return strings.Join(parts, " "), nil
}

func category(name string) string {
	lower := strings.ToLower(name)
	for _, ct := range categoryTerms {
		for _, tok := range strings.Fields(lower) {
			if strings.TrimSuffix(tok, "s") == strings.TrimSuffix(ct.keyword, "s") {
				return ct.category
			}
		}
	}
	return ""
}
