package extract_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soundline/catalog-sync/pkg/extract"
)

func TestModelToken(t *testing.T) {
	t.Parallel()

	e := extract.NewModelExtractor()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "denon receiver",
			input: "Denon AVR-X1800H 7.2 Channel Receiver",
			want:  "AVR-X1800H",
		},
		{
			name:  "denon underscore separator",
			input: "denon avr_x2800h bundle",
			want:  "AVR-X2800H",
		},
		{
			name:  "denon avc code",
			input: "AVC-X3800H 9.4 channel amplifier",
			want:  "AVC-X3800H",
		},
		{
			name:  "pioneer cdj",
			input: "Pioneer CDJ-3000 Professional Multi Player",
			want:  "CDJ-3000",
		},
		{
			name:  "akg c series",
			input: "AKG C414 XLII condenser microphone",
			want:  "C414",
		},
		{
			name:  "generic alphanum",
			input: "Yamaha RX-V6A AV Receiver",
			want:  "RX-V6A",
		},
		{
			name:  "generic short code with transition",
			input: "mixer AB-12 rack mount",
			want:  "AB-12",
		},
		{
			name:  "pure word rejected",
			input: "Professional Studio Monitor PRO",
			want:  "",
		},
		{
			name:  "pure number rejected",
			input: "Catalogue 2024 edition",
			want:  "",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "no candidates",
			input: "premium speaker cable",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, e.ModelToken(tt.input))
		})
	}
}

func TestModelTokenMinLength(t *testing.T) {
	t.Parallel()

	e := extract.NewModelExtractor(extract.WithMinLength(6))
	assert.Equal(t, "", e.ModelToken("mixer AB-12 rack"),
		"token shorter than the configured minimum is rejected")
	assert.Equal(t, "AVR-X1800H", e.ModelToken("Denon AVR-X1800H"))
}

func TestModelTokenCustomPattern(t *testing.T) {
	t.Parallel()

	custom := extract.ModelPattern{
		Name: "sonos",
		Re:   regexp.MustCompile(`\b(ARC\d+)\b`),
	}
	e := extract.NewModelExtractor(extract.WithPatterns(custom))
	assert.Equal(t, "ARC300", e.ModelToken("Sonos ARC300 soundbar"))
}
