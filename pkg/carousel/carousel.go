// Package carousel provides a generic prev/next picker over a fixed item
// list, the shape shared by character, item and map selectors.
//
// Boundary policy: the index wraps one step past either end. Next on the
// last item selects the first, Prev on the first selects the last. An index
// pushed further out of range lands on the opposite boundary as well.
package carousel

import "fmt"

// WrapIndex maps an out-of-range index back into [min, max]: values above
// max wrap to min, values below min wrap to max, in-range values pass
// through unchanged.
func WrapIndex(value, min, max int) int {
	if value > max {
		return min
	}
	if value < min {
		return max
	}
	return value
}

// Carousel holds an ordered item list and one selected position.
type Carousel[T any] struct {
	items   []T
	current int
}

// New creates a carousel over items, selecting the first one. The item
// slice is not copied; callers must not mutate it afterwards.
func New[T any](items []T) *Carousel[T] {
	return &Carousel[T]{items: items}
}

// Len returns the number of items.
func (c *Carousel[T]) Len() int {
	return len(c.items)
}

// Next advances the selection, wrapping past the last item to the first.
// A no-op on an empty carousel.
func (c *Carousel[T]) Next() {
	c.setIndex(c.current + 1)
}

// Prev moves the selection back, wrapping before the first item to the
// last. A no-op on an empty carousel.
func (c *Carousel[T]) Prev() {
	c.setIndex(c.current - 1)
}

// Select moves the selection to index, applying the wrap policy for
// out-of-range values. Errors only on an empty carousel.
func (c *Carousel[T]) Select(index int) error {
	if len(c.items) == 0 {
		return fmt.Errorf("carousel is empty")
	}
	c.setIndex(index)
	return nil
}

func (c *Carousel[T]) setIndex(index int) {
	if len(c.items) == 0 {
		return
	}
	c.current = WrapIndex(index, 0, len(c.items)-1)
}

// Index returns the selected position, zero on an empty carousel.
func (c *Carousel[T]) Index() int {
	return c.current
}

// Selected returns the selected item; the bool is false on an empty
// carousel.
func (c *Carousel[T]) Selected() (T, bool) {
	var zero T
	if len(c.items) == 0 {
		return zero, false
	}
	return c.items[c.current], true
}
