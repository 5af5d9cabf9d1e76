// Package blend implements the pixel-combination operators used when a layer
// is drawn onto the accumulated composite.
//
// The operator set is the one exposed by the HTML canvas
// globalCompositeOperation property: the Porter-Duff operators plus the
// separable and non-separable blend modes of W3C Compositing and Blending
// Level 1. All functions work on premultiplied RGBA bytes.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

// Mode identifies a compositing operator.
type Mode uint8

// Porter-Duff operators.
const (
	SourceOver Mode = iota // S + D*(1-Sa) [default]
	SourceIn               // S*Da
	SourceOut              // S*(1-Da)
	SourceAtop             // S*Da + D*(1-Sa)
	DestinationOver        // S*(1-Da) + D
	DestinationIn          // D*Sa
	DestinationOut         // D*(1-Sa)
	DestinationAtop        // S*(1-Da) + D*Sa
	Lighter                // min(S + D, 1)
	Copy                   // S
	Xor                    // S*(1-Da) + D*(1-Sa)

	// Separable blend modes.
	Multiply
	Screen
	Overlay
	Darken
	Lighten
	ColorDodge
	ColorBurn
	HardLight
	SoftLight
	Difference
	Exclusion

	// Non-separable blend modes.
	Hue
	Saturation
	Color
	Luminosity

	modeCount
)

var modeNames = [modeCount]string{
	SourceOver:      "source-over",
	SourceIn:        "source-in",
	SourceOut:       "source-out",
	SourceAtop:      "source-atop",
	DestinationOver: "destination-over",
	DestinationIn:   "destination-in",
	DestinationOut:  "destination-out",
	DestinationAtop: "destination-atop",
	Lighter:         "lighter",
	Copy:            "copy",
	Xor:             "xor",
	Multiply:        "multiply",
	Screen:          "screen",
	Overlay:         "overlay",
	Darken:          "darken",
	Lighten:         "lighten",
	ColorDodge:      "color-dodge",
	ColorBurn:       "color-burn",
	HardLight:       "hard-light",
	SoftLight:       "soft-light",
	Difference:      "difference",
	Exclusion:       "exclusion",
	Hue:             "hue",
	Saturation:      "saturation",
	Color:           "color",
	Luminosity:      "luminosity",
}

var modesByName = func() map[string]Mode {
	m := make(map[string]Mode, modeCount)
	for i, name := range modeNames {
		m[name] = Mode(i)
	}
	return m
}()

// String returns the canvas operator name, or "source-over" for unknown values.
func (m Mode) String() string {
	if !m.IsValid() {
		return modeNames[SourceOver]
	}
	return modeNames[m]
}

// IsValid reports whether m is a known operator.
func (m Mode) IsValid() bool {
	return m < modeCount
}

// Lookup returns the operator with the given canvas name.
// The name must already be lower case.
func Lookup(name string) (Mode, bool) {
	m, ok := modesByName[name]
	return m, ok
}

// Modes returns every known operator in declaration order.
func Modes() []Mode {
	out := make([]Mode, modeCount)
	for i := range out {
		out[i] = Mode(i)
	}
	return out
}
