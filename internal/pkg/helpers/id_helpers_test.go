package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []int64{3, 1, 2}, UniqueIDs([]int64{3, 1, 3, 2, 1}))
	assert.Equal(t, []int64{}, UniqueIDs(nil))
}

func TestMissingID(t *testing.T) {
	id, missing := MissingID([]int64{1, 2, 3}, []int64{3, 1})
	assert.True(t, missing)
	assert.Equal(t, int64(2), id)

	_, missing = MissingID([]int64{1}, []int64{1, 5})
	assert.False(t, missing)
}
