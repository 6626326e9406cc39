package stats

import (
	"testing"

	"trialbook/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestHistogramPreservesDeclarationOrder(t *testing.T) {
	h := NewHistogram("Trapper", "Wraith", "Hillbilly")
	h.Add("Wraith")
	h.Add("Wraith")
	h.Add("Hillbilly")

	assert.Equal(t, []string{"Trapper", "Wraith", "Hillbilly"}, h.Labels())
	assert.Equal(t, []model.Bucket{
		{Label: "Trapper", Count: 0},
		{Label: "Wraith", Count: 2},
		{Label: "Hillbilly", Count: 1},
	}, h.Buckets())
}

func TestHistogramDeclaresUnseenLabelsOnAdd(t *testing.T) {
	h := NewHistogram("A")
	h.Add("B")
	h.AddN("C", 3)

	assert.Equal(t, []string{"A", "B", "C"}, h.Labels())
	assert.Equal(t, 3, h.Count("C"))
	assert.Equal(t, 0, h.Count("A"))
	assert.Equal(t, 0, h.Count("never-seen"))
}

func TestHistogramMax(t *testing.T) {
	h := NewHistogram()
	assert.Equal(t, 0, h.Max())

	h.AddN("x", 2)
	h.AddN("y", 5)
	assert.Equal(t, 5, h.Max())
}

func TestHistogramMostAndLeastCommon(t *testing.T) {
	h := NewHistogram("first", "second", "third")

	// All zero: ties resolve to the first declared label.
	label, count, ok := h.MostCommon()
	assert.True(t, ok)
	assert.Equal(t, "first", label)
	assert.Equal(t, 0, count)

	h.AddN("second", 4)
	h.Add("third")

	label, count, ok = h.MostCommon()
	assert.True(t, ok)
	assert.Equal(t, "second", label)
	assert.Equal(t, 4, count)

	label, count, ok = h.LeastCommon()
	assert.True(t, ok)
	assert.Equal(t, "first", label)
	assert.Equal(t, 0, count)
}

func TestHistogramEmpty(t *testing.T) {
	h := NewHistogram()

	_, _, ok := h.MostCommon()
	assert.False(t, ok)
	_, _, ok = h.LeastCommon()
	assert.False(t, ok)
	assert.Equal(t, 0, h.Len())
	assert.Empty(t, h.Buckets())
}
