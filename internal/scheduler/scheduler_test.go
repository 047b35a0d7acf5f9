package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mus-extract/gomus/internal/cnf"
)

func sizeTable(sizes map[cnf.GID]int) func(cnf.GID) int {
	return func(g cnf.GID) int { return sizes[g] }
}

func TestArrangeDefaultIsAscendingGID(t *testing.T) {
	s := New(OrderDefault, 0)
	got := s.Arrange([]cnf.GID{3, 1, 2}, nil)
	assert.Equal(t, []cnf.GID{1, 2, 3}, got)
}

func TestArrangeReverseIsDescendingGID(t *testing.T) {
	s := New(OrderReverse, 0)
	got := s.Arrange([]cnf.GID{1, 2, 3}, nil)
	assert.Equal(t, []cnf.GID{3, 2, 1}, got)
}

func TestArrangeLongestFirstUsesSizeOf(t *testing.T) {
	s := New(OrderLongestFirst, 0)
	sizes := sizeTable(map[cnf.GID]int{1: 2, 2: 5, 3: 1})
	got := s.Arrange([]cnf.GID{1, 2, 3}, sizes)
	assert.Equal(t, []cnf.GID{2, 1, 3}, got)
}

func TestArrangeShortestFirstUsesSizeOf(t *testing.T) {
	s := New(OrderShortestFirst, 0)
	sizes := sizeTable(map[cnf.GID]int{1: 2, 2: 5, 3: 1})
	got := s.Arrange([]cnf.GID{1, 2, 3}, sizes)
	assert.Equal(t, []cnf.GID{3, 1, 2}, got)
}

func TestArrangeRandomIsDeterministicUnderFixedSeed(t *testing.T) {
	s1 := New(OrderRandom, 42)
	s2 := New(OrderRandom, 42)
	in := []cnf.GID{1, 2, 3, 4, 5}
	got1 := s1.Arrange(in, nil)
	got2 := s2.Arrange(in, nil)
	assert.Equal(t, got1, got2, "the same seed must produce the same permutation")
	assert.ElementsMatch(t, in, got1)
}

func TestArrangeDoesNotMutateInput(t *testing.T) {
	s := New(OrderReverse, 0)
	in := []cnf.GID{1, 2, 3}
	_ = s.Arrange(in, nil)
	assert.Equal(t, []cnf.GID{1, 2, 3}, in)
}

func TestFastTrackQueueIsFIFOAndDedupes(t *testing.T) {
	s := New(OrderDefault, 0)
	s.FastTrackPush(5, 7, 5, 9)
	assert.Equal(t, 3, s.FastTrackLen(), "duplicate pushes must not grow the queue")

	first, ok := s.FastTrackPop()
	assert.True(t, ok)
	assert.Equal(t, cnf.GID(5), first)

	second, ok := s.FastTrackPop()
	assert.True(t, ok)
	assert.Equal(t, cnf.GID(7), second)

	assert.Equal(t, 1, s.FastTrackLen())
}

func TestFastTrackPopEmptyReportsFalse(t *testing.T) {
	s := New(OrderDefault, 0)
	_, ok := s.FastTrackPop()
	assert.False(t, ok)
}

func TestFastTrackRemovalKeepsIndicesConsistent(t *testing.T) {
	s := New(OrderDefault, 0)
	s.FastTrackPush(1, 2, 3)
	s.fastTrack.Remove(2)
	assert.True(t, s.fastTrack.Contains(1))
	assert.False(t, s.fastTrack.Contains(2))
	assert.True(t, s.fastTrack.Contains(3))

	// Pushing 3 again must be a no-op (still present after the Remove of 2
	// shifted its slot), and a subsequent pop must still yield it in order.
	s.FastTrackPush(3)
	assert.Equal(t, 2, s.FastTrackLen())
	first, _ := s.FastTrackPop()
	assert.Equal(t, cnf.GID(1), first)
}
