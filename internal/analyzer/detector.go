// Package analyzer finds drawn content in rendered frames and checks that
// it stays inside the safe area.
package analyzer

import (
	"errors"
	"fmt"
	"image"
	"sort"
)

// ErrUnknownDetector is returned by NewDetector for an unsupported variant.
var ErrUnknownDetector = errors.New("unknown detector")

// Block is a connected region of content in a frame.
type Block struct {
	Rect       image.Rectangle
	Type       string  // "text", "line", "shape"
	Confidence float64 // 0.0-1.0
}

// Detector finds content blocks in a frame.
type Detector interface {
	Detect(img image.Image) ([]Block, error)
}

// NewDetector creates a detector for the named variant. The empty name
// selects the contrast detector.
func NewDetector(variant string) (Detector, error) {
	switch variant {
	case "contrast", "":
		return NewContrastDetector(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDetector, variant)
	}
}

// ReadingOrder sorts blocks top to bottom, and left to right within a row.
// Blocks whose tops are within rowTolerance pixels share a row.
func ReadingOrder(blocks []Block, rowTolerance int) []Block {
	sorted := append([]Block(nil), blocks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		dy := sorted[i].Rect.Min.Y - sorted[j].Rect.Min.Y
		if dy > rowTolerance || dy < -rowTolerance {
			return dy < 0
		}
		return sorted[i].Rect.Min.X < sorted[j].Rect.Min.X
	})
	return sorted
}

// Violation is a block that reaches into the margin.
type Violation struct {
	Block Block
	Edges []string // "top", "bottom", "left", "right"
	// Overflow is the deepest intrusion into the margin, in pixels.
	Overflow int
}

func (v Violation) String() string {
	return fmt.Sprintf("%s block %v crosses %v by %dpx", v.Block.Type, v.Block.Rect, v.Edges, v.Overflow)
}

// CheckMargins reports blocks that come closer than margin pixels to the
// edges of bounds. Blocks are reported in reading order.
func CheckMargins(blocks []Block, bounds image.Rectangle, margin int) []Violation {
	safe := bounds.Inset(margin)
	var out []Violation
	for _, b := range ReadingOrder(blocks, 20) {
		if b.Rect.In(safe) {
			continue
		}
		v := Violation{Block: b}
		check := func(edge string, over int) {
			if over > 0 {
				v.Edges = append(v.Edges, edge)
				if over > v.Overflow {
					v.Overflow = over
				}
			}
		}
		check("top", safe.Min.Y-b.Rect.Min.Y)
		check("bottom", b.Rect.Max.Y-safe.Max.Y)
		check("left", safe.Min.X-b.Rect.Min.X)
		check("right", b.Rect.Max.X-safe.Max.X)
		if len(v.Edges) > 0 {
			out = append(out, v)
		}
	}
	return out
}
