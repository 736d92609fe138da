package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedRunIDGenerator(t *testing.T) {
	gen := NewFixedRunIDGenerator("run-1", "run-2")
	assert.Equal(t, "run-1", gen.Generate())
	assert.Equal(t, "run-2", gen.Generate())
	assert.Equal(t, "run-2", gen.Generate(), "the last ID repeats")
}

func TestFixedRunIDGenerator_Default(t *testing.T) {
	assert.Equal(t, "test-run-default", NewFixedRunIDGenerator().Generate())
	assert.Equal(t, "test-run-default", NewFixedRunIDGenerator("").Generate())
}
