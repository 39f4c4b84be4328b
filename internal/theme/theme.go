// Package theme holds the fixed set of deck color themes.
package theme

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Theme names a visual style applied uniformly to every slide of a deck.
type Theme string

const (
	Modern  Theme = "Modern"
	Classic Theme = "Classic"
	Dark    Theme = "Dark"
)

// RGB is a solid color.
type RGB struct {
	R, G, B uint8
}

// ARGB returns the opaque "AARRGGBB" hex form used by the pptx writer.
func (c RGB) ARGB() string {
	return fmt.Sprintf("FF%02X%02X%02X", c.R, c.G, c.B)
}

// Palette is the set of colors a theme paints onto slides.
type Palette struct {
	Background RGB
	Text       RGB
}

var palettes = map[Theme]Palette{
	Modern:  {Background: RGB{0, 128, 255}, Text: RGB{255, 255, 255}},
	Classic: {Background: RGB{255, 215, 0}, Text: RGB{30, 30, 30}},
	Dark:    {Background: RGB{50, 50, 50}, Text: RGB{240, 240, 240}},
}

var all = []Theme{Modern, Classic, Dark}

// All returns every known theme in a stable order.
func All() []Theme {
	out := make([]Theme, len(all))
	copy(out, all)
	return out
}

// Palette returns the colors for t. Unknown themes fall back to Modern.
func (t Theme) Palette() Palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return palettes[Modern]
}

// Valid reports whether t is one of the known themes.
func (t Theme) Valid() bool {
	_, ok := palettes[t]
	return ok
}

func (t Theme) String() string {
	return string(t)
}

// Parse resolves a case-insensitive theme name.
func Parse(name string) (Theme, error) {
	for _, t := range all {
		if strings.EqualFold(strings.TrimSpace(name), string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown theme %q", name)
}

// Selector picks the theme for a new deck.
type Selector interface {
	Choose() Theme
}

// RandomSelector picks uniformly among All().
type RandomSelector struct{}

func (RandomSelector) Choose() Theme {
	return all[rand.IntN(len(all))]
}

// FixedSelector always returns the same theme.
type FixedSelector Theme

func (f FixedSelector) Choose() Theme {
	return Theme(f)
}
