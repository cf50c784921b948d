package gesture

import (
	"fmt"
	"math"
)

// Tint is the background color revealed behind a dragged card.
type Tint int

const (
	TintNeutral Tint = iota
	TintGreen
	TintRed
	// TintNone suppresses the background entirely.
	TintNone
)

func (t Tint) String() string {
	switch t {
	case TintGreen:
		return "green"
	case TintRed:
		return "red"
	case TintNone:
		return "none"
	default:
		return "neutral"
	}
}

// MarshalText renders the tint by name.
func (t Tint) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tint) UnmarshalText(text []byte) error {
	for _, tint := range []Tint{TintNeutral, TintGreen, TintRed, TintNone} {
		if tint.String() == string(text) {
			*t = tint
			return nil
		}
	}
	return fmt.Errorf("unknown tint %q", text)
}

// Visual is the derived presentation of a card.
type Visual struct {
	Rotation    float64 `json:"rotation"` // degrees
	OffsetX     float64 `json:"offsetX"`
	Opacity     float64 `json:"opacity"`
	FillOpacity float64 `json:"fillOpacity"`
	Tint        Tint    `json:"tint"`
}

// VisualFor derives the presentation from a drag offset. Every field is a
// pure function of offset.Width.
func VisualFor(offset Offset, a Accessibility) Visual {
	return Visual{
		Rotation:    Rotation(offset),
		OffsetX:     DisplayOffset(offset),
		Opacity:     Opacity(offset),
		FillOpacity: FillOpacity(offset, a),
		Tint:        TintFor(offset, a),
	}
}

func Rotation(offset Offset) float64 {
	return offset.Width / 5
}

func DisplayOffset(offset Offset) float64 {
	return offset.Width * 5
}

func Opacity(offset Offset) float64 {
	return 2 - math.Abs(offset.Width/50)
}

// FillOpacity is the opacity of the card's white face, which fades to let
// the tint show through. It stays opaque when color is not a signal.
func FillOpacity(offset Offset, a Accessibility) float64 {
	if a.DifferentiateWithoutColor {
		return 1
	}
	return 1 - math.Abs(offset.Width/50)
}

func TintFor(offset Offset, a Accessibility) Tint {
	switch {
	case a.DifferentiateWithoutColor:
		return TintNone
	case offset.Width > 0:
		return TintGreen
	case offset.Width < 0:
		return TintRed
	default:
		return TintNeutral
	}
}
