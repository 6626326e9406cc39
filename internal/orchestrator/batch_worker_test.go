package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitIntoBatchesEven(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6}

	batches := SplitIntoBatches(items, 2)

	assert.Len(t, batches, 3)
	assert.Equal(t, []int{1, 2}, batches[0])
	assert.Equal(t, []int{3, 4}, batches[1])
	assert.Equal(t, []int{5, 6}, batches[2])
}

func TestSplitIntoBatchesUnevenLastBatch(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}

	batches := SplitIntoBatches(items, 3)

	assert.Len(t, batches, 2)
	assert.Equal(t, []string{"a", "b", "c"}, batches[0])
	assert.Equal(t, []string{"d", "e"}, batches[1])
}

func TestSplitIntoBatchesLargerThanInput(t *testing.T) {
	items := []int{1, 2}

	batches := SplitIntoBatches(items, 50)

	assert.Len(t, batches, 1)
	assert.Equal(t, items, batches[0])
}

func TestSplitIntoBatchesEmptyInput(t *testing.T) {
	batches := SplitIntoBatches([]int{}, 10)

	assert.NotNil(t, batches)
	assert.Len(t, batches, 0)
}

func TestSplitIntoBatchesInvalidSize(t *testing.T) {
	assert.Nil(t, SplitIntoBatches([]int{1, 2, 3}, 0))
	assert.Nil(t, SplitIntoBatches([]int{1, 2, 3}, -1))
}
