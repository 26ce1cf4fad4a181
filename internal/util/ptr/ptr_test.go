package ptr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPtr(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3, *Int(3))
	assert.True(t, *Bool(true))
	assert.Equal(t, "x", *To("x"))
	assert.Equal(t, 5, Deref(Int(5), 1))
	assert.Equal(t, 1, Deref[int](nil, 1))
}
