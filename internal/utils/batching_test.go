package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunk(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	assert.Equal(t, [][]int{{1, 2, 3}, {4, 5, 6}, {7}}, Chunk(items, 3))
	assert.Equal(t, [][]int{{1, 2, 3, 4, 5, 6, 7}}, Chunk(items, 25))
	assert.Equal(t, [][]int{{1}, {2}, {3}, {4}, {5}, {6}, {7}}, Chunk(items, 1))
	assert.Nil(t, Chunk([]int{}, 3))
	assert.Nil(t, Chunk(items, 0))
}
