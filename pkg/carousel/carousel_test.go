package carousel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapIndex(t *testing.T) {
	assert.Equal(t, 0, WrapIndex(5, 0, 4))
	assert.Equal(t, 4, WrapIndex(-1, 0, 4))
	assert.Equal(t, 2, WrapIndex(2, 0, 4))
	assert.Equal(t, 0, WrapIndex(0, 0, 4))
	assert.Equal(t, 4, WrapIndex(4, 0, 4))
	assert.Equal(t, 0, WrapIndex(100, 0, 4))
	assert.Equal(t, 4, WrapIndex(-100, 0, 4))
}

func TestCarouselNextWraps(t *testing.T) {
	c := New([]string{"trapper", "wraith", "huntress"})

	selected, ok := c.Selected()
	assert.True(t, ok)
	assert.Equal(t, "trapper", selected)

	c.Next()
	c.Next()
	selected, _ = c.Selected()
	assert.Equal(t, "huntress", selected)

	c.Next()
	assert.Equal(t, 0, c.Index())
	selected, _ = c.Selected()
	assert.Equal(t, "trapper", selected)
}

func TestCarouselPrevWraps(t *testing.T) {
	c := New([]string{"trapper", "wraith", "huntress"})

	c.Prev()
	assert.Equal(t, 2, c.Index())
	selected, _ := c.Selected()
	assert.Equal(t, "huntress", selected)

	c.Prev()
	selected, _ = c.Selected()
	assert.Equal(t, "wraith", selected)
}

func TestCarouselSelect(t *testing.T) {
	c := New([]int{10, 20, 30})

	assert.NoError(t, c.Select(1))
	assert.Equal(t, 1, c.Index())

	assert.NoError(t, c.Select(3))
	assert.Equal(t, 0, c.Index())

	assert.NoError(t, c.Select(-1))
	assert.Equal(t, 2, c.Index())
}

func TestCarouselEmpty(t *testing.T) {
	c := New([]string{})

	assert.Equal(t, 0, c.Len())
	assert.Error(t, c.Select(0))

	c.Next()
	c.Prev()
	assert.Equal(t, 0, c.Index())

	_, ok := c.Selected()
	assert.False(t, ok)
}
