package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingBufferOverwritesOldest(t *testing.T) {
	r := NewRingBuffer[int](3)
	r.Push(1)
	r.Push(2)
	r.Push(3)
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []int{1, 2, 3}, r.Snapshot())

	r.Push(4) // overwrites 1
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []int{2, 3, 4}, r.Snapshot())

	r.Push(5) // overwrites 2
	assert.Equal(t, []int{3, 4, 5}, r.Snapshot())
}

func TestRingBufferPopOrder(t *testing.T) {
	r := NewRingBuffer[string](2)
	r.Push("a")
	r.Push("b")

	v, ok := r.Pop()
	require.True(t, ok)
	assert.Equal(t, "a", v)
	assert.Equal(t, 1, r.Len())

	v, ok = r.Pop()
	require.True(t, ok)
	assert.Equal(t, "b", v)

	_, ok = r.Pop()
	assert.False(t, ok, "popping an empty ring should report false")
}

func TestRingBufferPopThenPushReusesSlot(t *testing.T) {
	r := NewRingBuffer[int](2)
	r.Push(1)
	r.Push(2)
	_, _ = r.Pop() // head now points at the "2" slot, slot 0 free
	r.Push(3)
	assert.Equal(t, []int{2, 3}, r.Snapshot())
}

func TestRingBufferEmpty(t *testing.T) {
	r := NewRingBuffer[int](4)
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Snapshot())
	_, ok := r.Pop()
	assert.False(t, ok)
}
