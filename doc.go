// Package paint provides a layered raster canvas with blend-mode
// compositing and bounded undo history.
//
// # Overview
//
// A Canvas holds an ordered stack of image layers, bottom first. Each layer
// owns a premultiplied RGBA Pixmap and a BlendMode. Editing happens on a
// single live surface bound to one layer at a time; edits are published into
// the layer by Apply, by binding another layer, or by finishing a stroke.
// Composite flattens the stack into a new pixmap.
//
// # Quick Start
//
//	import "github.com/gogpu/paint"
//
//	c, err := paint.New(640, 480)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Add a layer and paint on it
//	c.AddImage("background", paint.BlendSourceOver)
//	c.Surface().Fill(color.White)
//	c.Apply()
//
//	c.AddImage("ink", paint.BlendMultiply)
//	c.Stroke([]paint.Point{{X: 10, Y: 10}, {X: 200, Y: 120}})
//
//	// Flatten and save
//	out, _ := c.Composite()
//	out.SavePNG("output.png")
//
// # History
//
// Every successful mutation appends one Record to a bounded History
// (DefaultHistoryCapacity records). Undo and Redo restore deep copies of
// records, so no layer pixels are ever shared between the live canvas and
// the log.
//
// # Groups
//
// Groups name contiguous index ranges of the stack. Inserting inside a
// group grows it, removing inside it shrinks it, and mutations below a group
// translate it. Groups are never removed implicitly.
//
// # Blend Modes
//
// Blend modes follow the HTML canvas globalCompositeOperation names: the
// Porter-Duff operators, lighter, copy, xor, and the W3C separable and
// non-separable blend modes. See ParseBlendMode.
//
// # Coordinate System
//
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
package paint

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
