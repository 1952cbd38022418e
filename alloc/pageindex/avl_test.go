package pageindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertFind(t *testing.T) {
	var tr Tree
	tr.Insert(Entry{Start: 0x1000, Handle: 0x1000})
	tr.Insert(Entry{Start: 0x3000, Handle: 0x3000})
	tr.Insert(Entry{Start: 0x5000, Handle: 0x5000})

	e, ok := tr.Find(0x3000)
	require.True(t, ok)
	assert.Equal(t, uintptr(0x3000), e.Start)
}

func TestFindInteriorAddress(t *testing.T) {
	var tr Tree
	tr.Insert(Entry{Start: 0x2000, Handle: 0x2000})

	e, ok := tr.Find(0x2000 + superblockSize - 1)
	require.True(t, ok)
	assert.Equal(t, uintptr(0x2000), e.Start)
}

func TestFindMiss(t *testing.T) {
	var tr Tree
	tr.Insert(Entry{Start: 0x2000, Handle: 0x2000})

	_, ok := tr.Find(0x9000)
	assert.False(t, ok)
}

func TestDeleteRemovesEntry(t *testing.T) {
	var tr Tree
	tr.Insert(Entry{Start: 0x1000, Handle: 0x1000})
	tr.Insert(Entry{Start: 0x3000, Handle: 0x3000})

	tr.Delete(0x1000)
	_, ok := tr.Find(0x1000)
	assert.False(t, ok)

	e, ok := tr.Find(0x3000)
	require.True(t, ok)
	assert.Equal(t, uintptr(0x3000), e.Start)
}

func TestStaysBalancedUnderSortedInsertion(t *testing.T) {
	// Inserting in strictly increasing order is the classic degenerate
	// case for an unbalanced BST; an AVL tree must still stay shallow.
	var tr Tree
	const n = 1000
	for i := 0; i < n; i++ {
		tr.Insert(Entry{Start: uintptr(i * superblockSize), Handle: uintptr(i * superblockSize)})
	}

	for i := 0; i < n; i++ {
		e, ok := tr.Find(uintptr(i*superblockSize) + 17)
		require.True(t, ok)
		assert.Equal(t, uintptr(i*superblockSize), e.Start)
	}

	assert.LessOrEqual(t, tr.root.height, 2*intLog2(n+1)+2)
}

func intLog2(n int) int {
	l := 0
	for n > 1 {
		n >>= 1
		l++
	}
	return l
}
