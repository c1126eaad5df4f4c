package spool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpoolDrainScenario(t *testing.T) {
	s := New()
	for i := 0; i < 33; i++ {
		ok := s.Push(Item{NodeID: uint8(i % 8), TimestampMs: uint32(i)})
		if i < Capacity {
			assert.Truef(t, ok, "push %d should succeed", i)
		} else {
			assert.Falsef(t, ok, "push %d should be dropped", i)
		}
	}

	for i := 0; i < Capacity; i++ {
		item, ok := s.Pop()
		require.True(t, ok)
		assert.Equal(t, uint32(i), item.TimestampMs)
	}
	_, ok := s.Pop()
	assert.False(t, ok)
}

func TestSpoolHasPending(t *testing.T) {
	s := New()
	assert.False(t, s.HasPending())
	s.Push(Item{NodeID: 1})
	assert.True(t, s.HasPending())
	s.Pop()
	assert.False(t, s.HasPending())
}

func TestSpoolFIFOOrderAfterPartialDrain(t *testing.T) {
	s := New()
	s.Push(Item{NodeID: 1})
	s.Push(Item{NodeID: 2})
	item, _ := s.Pop()
	assert.Equal(t, uint8(1), item.NodeID)
	s.Push(Item{NodeID: 3})
	item, _ = s.Pop()
	assert.Equal(t, uint8(2), item.NodeID)
	item, _ = s.Pop()
	assert.Equal(t, uint8(3), item.NodeID)
}
