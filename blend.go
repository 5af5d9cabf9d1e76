package paint

import (
	"github.com/gogpu/paint/internal/blend"
	"golang.org/x/text/cases"
)

// BlendMode is the pixel-combination operator a layer is composited with.
// Names follow the HTML canvas globalCompositeOperation values.
type BlendMode = blend.Mode

// Blend modes.
const (
	BlendSourceOver      = blend.SourceOver
	BlendSourceIn        = blend.SourceIn
	BlendSourceOut       = blend.SourceOut
	BlendSourceAtop      = blend.SourceAtop
	BlendDestinationOver = blend.DestinationOver
	BlendDestinationIn   = blend.DestinationIn
	BlendDestinationOut  = blend.DestinationOut
	BlendDestinationAtop = blend.DestinationAtop
	BlendLighter         = blend.Lighter
	BlendCopy            = blend.Copy
	BlendXor             = blend.Xor
	BlendMultiply        = blend.Multiply
	BlendScreen          = blend.Screen
	BlendOverlay         = blend.Overlay
	BlendDarken          = blend.Darken
	BlendLighten         = blend.Lighten
	BlendColorDodge      = blend.ColorDodge
	BlendColorBurn       = blend.ColorBurn
	BlendHardLight       = blend.HardLight
	BlendSoftLight       = blend.SoftLight
	BlendDifference      = blend.Difference
	BlendExclusion       = blend.Exclusion
	BlendHue             = blend.Hue
	BlendSaturation      = blend.Saturation
	BlendColor           = blend.Color
	BlendLuminosity      = blend.Luminosity
)

// ParseBlendMode maps a blend tag such as "multiply" or "Source-Over" to a
// BlendMode. Matching is case-insensitive; the empty tag and unknown tags
// yield BlendSourceOver with ok reporting whether the tag was recognized.
func ParseBlendMode(tag string) (mode BlendMode, ok bool) {
	if tag == "" {
		return BlendSourceOver, true
	}
	mode, ok = blend.Lookup(cases.Fold().String(tag))
	if !ok {
		return BlendSourceOver, false
	}
	return mode, true
}
