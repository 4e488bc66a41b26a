package internal

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack(t *testing.T) {
	assert := assert.New(t)

	s := &Stack[string]{}
	assert.True(s.Empty())

	s.Push("a")
	s.Push("b")
	assert.Equal(2, s.Len())

	val, ok := s.Peek()
	assert.True(ok)
	assert.Equal("b", val)

	val, ok = s.Pop()
	assert.True(ok)
	assert.Equal("b", val)

	s.Reset()
	val, ok = s.Pop()
	assert.False(ok)
	assert.Equal("", val)
}

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := map[string]int{"x": 1}
	b := map[string]int{"y": 2}

	got := map[string]int{}
	for k, v := range IterSeq2Concat(maps.All(a), maps.All(b)) {
		got[k] = v
	}
	assert.Equal(map[string]int{"x": 1, "y": 2}, got)

	keys := slices.Collect(IterSeqConcat(slices.Values([]int{1, 2}), slices.Values([]int{3})))
	assert.Equal([]int{1, 2, 3}, keys)
}

func TestSortedMap(t *testing.T) {
	assert := assert.New(t)

	var keys []string
	for k := range SortedMap(map[string]bool{"c": true, "a": true, "b": false}) {
		keys = append(keys, k)
	}
	assert.Equal([]string{"a", "b", "c"}, keys)
}
