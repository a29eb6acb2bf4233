package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvailable(t *testing.T) {
	assert.Equal(t, int32(100), Available(0, 100))
	assert.Equal(t, int32(40), Available(60, 100))
	assert.Equal(t, int32(0), Available(100, 100))
}

func TestIsEnoughSpace(t *testing.T) {
	assert.True(t, IsEnoughSpace(0, 100, 100))
	assert.True(t, IsEnoughSpace(50, 100, 50))
	assert.False(t, IsEnoughSpace(50, 100, 51))
	assert.False(t, IsEnoughSpace(100, 100, 1))
}
