package sponsorship

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeLookup resolves sponsors from a map; absent keys are missing agents.
type fakeLookup struct {
	sponsors map[uint]*uint
}

func (f *fakeLookup) SponsorOf(_ *gorm.DB, agentID uint) (*uint, error) {
	s, ok := f.sponsors[agentID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func ptr(v uint) *uint { return &v }

func TestUplineChainOrdersNearestFirst(t *testing.T) {
	// 1 <- 2 <- 3
	w := NewWalker(&fakeLookup{sponsors: map[uint]*uint{
		3: ptr(2),
		2: ptr(1),
		1: nil,
	}})

	chain, err := w.UplineChain(nil, 3, MaxTiers)
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 1}, chain)
}

func TestUplineChainExcludesRoot(t *testing.T) {
	w := NewWalker(&fakeLookup{sponsors: map[uint]*uint{1: nil}})

	chain, err := w.UplineChain(nil, 1, MaxTiers)
	require.NoError(t, err)
	assert.Empty(t, chain)
}

func TestUplineChainBoundedAtFiveTiers(t *testing.T) {
	// ten-deep chain: 10 <- 9 <- ... <- 1
	sponsors := map[uint]*uint{1: nil}
	for id := uint(2); id <= 10; id++ {
		sponsors[id] = ptr(id - 1)
	}
	w := NewWalker(&fakeLookup{sponsors: sponsors})

	chain, err := w.UplineChain(nil, 10, 100)
	require.NoError(t, err)
	assert.Equal(t, []uint{9, 8, 7, 6, 5}, chain)
}

func TestUplineChainTerminatesOnCycle(t *testing.T) {
	// 1 <-> 2 sponsor each other
	w := NewWalker(&fakeLookup{sponsors: map[uint]*uint{
		1: ptr(2),
		2: ptr(1),
	}})

	chain, err := w.UplineChain(nil, 1, MaxTiers)
	require.NoError(t, err)
	assert.Equal(t, []uint{2}, chain)
}

func TestUplineChainStopsAtMissingSponsor(t *testing.T) {
	// 2's sponsor record was deleted
	w := NewWalker(&fakeLookup{sponsors: map[uint]*uint{
		3: ptr(2),
	}})

	chain, err := w.UplineChain(nil, 3, MaxTiers)
	require.NoError(t, err)
	assert.Equal(t, []uint{2}, chain)
}

func TestDownlineIDsBreadthFirst(t *testing.T) {
	children := map[uint][]uint{
		1: {2, 3},
		2: {4},
	}
	lookup := childrenFunc(func(_ *gorm.DB, id uint) ([]uint, error) {
		return children[id], nil
	})

	ids, err := DownlineIDs(nil, lookup, 1, MaxTiers)
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3, 4}, ids)
}

type childrenFunc func(db *gorm.DB, sponsorID uint) ([]uint, error)

func (f childrenFunc) ChildrenOf(db *gorm.DB, sponsorID uint) ([]uint, error) {
	return f(db, sponsorID)
}
