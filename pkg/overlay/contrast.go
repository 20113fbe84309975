package overlay

import (
	"github.com/lucasb-eyer/go-colorful"

	"tableflip.dev/marker/pkg/doc"
	"tableflip.dev/marker/pkg/layout"
)

// Accent classes applied to overlays. Dark page backgrounds get the light
// accent so overlays stay readable on dark-themed pages.
const (
	AccentLight = "light"
	AccentDark  = "dark"
)

const defaultBackground = "#ffffff"

// accentFor picks the overlay contrast mode for a rect by walking up the
// tree from the element under the rect's top-left corner until an element
// declares a non-transparent background.
func (r *Renderer) accentFor(rect layout.Rect) string {
	bg := defaultBackground
	for n := r.Layout.ElementAt(rect.X, rect.Y); n != nil; n = n.Parent {
		if v := n.Attr("background"); v != "" && v != "transparent" {
			bg = v
			break
		}
	}
	return AccentForBackground(bg)
}

// AccentForBackground maps a background color to an accent mode. Colors
// that fail to parse count as the default white background.
func AccentForBackground(bg string) string {
	c, err := colorful.Hex(bg)
	if err != nil {
		c, _ = colorful.Hex(defaultBackground)
	}
	_, _, l := c.Hsl()
	if l < 0.5 {
		return AccentLight
	}
	return AccentDark
}

// hoverTarget resolves the element a pointer position should indicate:
// the deepest eligible element at the point, or nil.
func hoverTarget(lay *layout.Engine, x, y int) *doc.Node {
	for n := lay.ElementAt(x, y); n != nil; n = n.Parent {
		if HoverEligible(n) {
			return n
		}
	}
	return nil
}

// HoverTargetAt exposes hover resolution to the engine.
func (r *Renderer) HoverTargetAt(x, y int) *doc.Node {
	return hoverTarget(r.Layout, x, y)
}
