package services

import (
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"

	"mccwk.com/shortener/internal/landing"
)

// Palette derives fallback background colors around a base shade, keeping
// its chroma and lightness so the form stays readable on top.
type Palette struct {
	base colorful.Color
	rnd  *rand.Rand
}

// NewPalette builds a palette around hex. An unparsable hex falls back to the
// default page color.
func NewPalette(hex string, seed uint64) *Palette {
	base, err := colorful.Hex(hex)
	if err != nil {
		base, _ = colorful.Hex(landing.DefaultColor)
	}
	return &Palette{
		base: base,
		rnd:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Derive returns a hue-shifted variant of the base color as #rrggbb.
func (p *Palette) Derive() string {
	h, c, l := p.base.Hcl()
	h += p.rnd.Float64() * 360
	if h >= 360 {
		h -= 360
	}
	return colorful.Hcl(h, c, l).Clamped().Hex()
}
