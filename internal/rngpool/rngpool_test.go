package rngpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsDeterministic(t *testing.T) {
	a := New(7)
	b := New(7)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestSubstreamsDiffer(t *testing.T) {
	a := Substream(1, 0)
	b := Substream(1, 1)
	assert.NotEqual(t, a.Int63(), b.Int63())
}

func TestSubstreamDeterministic(t *testing.T) {
	a := Substream(99, 3)
	b := Substream(99, 3)
	assert.Equal(t, a.Int63(), b.Int63())
}
