package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampPage(t *testing.T) {
	take, offset := clampPage(-5, -3)
	assert.Equal(t, 50, take)
	assert.Equal(t, 0, offset)

	take, offset = clampPage(0, 10)
	assert.Equal(t, 50, take)
	assert.Equal(t, 10, offset)

	take, offset = clampPage(500, 20)
	assert.Equal(t, 100, take)
	assert.Equal(t, 20, offset)

	take, _ = clampPage(25, 0)
	assert.Equal(t, 25, take)
}
