// Package carousel implements the cyclic cursor used for multi-image
// uploads. Navigation wraps at both ends: next from the last image returns
// to the first, prev from the first jumps to the last.
package carousel

import "fmt"

type Cursor struct {
	Images  []string `json:"images"`
	Current int      `json:"currentIndex"`
}

// New creates a cursor positioned at the first image.
func New(images []string) Cursor {
	return Cursor{Images: images}
}

func (c Cursor) Len() int {
	return len(c.Images)
}

// Next advances the cursor one position, wrapping past the end.
func (c Cursor) Next() Cursor {
	if len(c.Images) == 0 {
		return c
	}
	c.Current = (c.Current + 1) % len(c.Images)
	return c
}

// Prev moves the cursor one position back, wrapping before the start.
func (c Cursor) Prev() Cursor {
	if len(c.Images) == 0 {
		return c
	}
	c.Current = (c.Current - 1 + len(c.Images)) % len(c.Images)
	return c
}

// Summary is the placeholder message text for a carousel upload without an
// explicit user instruction.
func (c Cursor) Summary() string {
	return fmt.Sprintf("Carousel with %d images", len(c.Images))
}
