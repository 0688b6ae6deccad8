package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTotalDuration(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	assert.Equal(t, 0, TotalDuration(nil))
	assert.Equal(t, 30, TotalDuration(map[uuid.UUID]int{a: 30}))
	assert.Equal(t, 195, TotalDuration(map[uuid.UUID]int{a: 30, b: 120, c: 45}))
}
