package numbering

import (
	"testing"
	"time"

	"github.com/mduarte/ata/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemWithNumber(number string) *domain.Item {
	return domain.NewItem(number, 1, nil, time.Now().UTC())
}

func childOf(parent *domain.Item, number string) *domain.Item {
	return domain.NewItem(number, parent.Level+1, &parent.ID, time.Now().UTC())
}

func TestNextRootNumber_EmptyListIsOne(t *testing.T) {
	assert.Equal(t, 1, NextRootNumber(nil))
}

func TestNextRootNumber_MaxPlusOne(t *testing.T) {
	items := []*domain.Item{
		itemWithNumber("1"),
		itemWithNumber("3"),
		itemWithNumber("2"),
	}
	assert.Equal(t, 4, NextRootNumber(items))
}

func TestNextRootNumber_IgnoresChildrenAndGaps(t *testing.T) {
	root := itemWithNumber("5")
	items := []*domain.Item{
		root,
		childOf(root, "5.9"),
		childOf(root, "5.10"),
	}
	// Only dot-free numbers participate; gaps are not backfilled.
	assert.Equal(t, 6, NextRootNumber(items))
}

func TestNextRootNumber_MalformedCountsAsZero(t *testing.T) {
	items := []*domain.Item{itemWithNumber("abc"), itemWithNumber("2")}
	assert.Equal(t, 3, NextRootNumber(items))

	items = []*domain.Item{itemWithNumber("abc")}
	assert.Equal(t, 1, NextRootNumber(items))
}

func TestNextChildNumber_FirstChild(t *testing.T) {
	parent := itemWithNumber("2")
	assert.Equal(t, "2.1", NextChildNumber([]*domain.Item{parent}, parent))
}

func TestNextChildNumber_MaxSuffixPlusOne(t *testing.T) {
	parent := itemWithNumber("1")
	items := []*domain.Item{
		parent,
		childOf(parent, "1.1"),
		childOf(parent, "1.4"),
		childOf(parent, "1.2"),
	}
	assert.Equal(t, "1.5", NextChildNumber(items, parent))
}

func TestNextChildNumber_MalformedSuffixCountsAsZero(t *testing.T) {
	parent := itemWithNumber("1")
	items := []*domain.Item{parent, childOf(parent, "1.x")}
	assert.Equal(t, "1.1", NextChildNumber(items, parent))
}

func TestNextChildNumber_DeepNesting(t *testing.T) {
	parent := itemWithNumber("1.2")
	items := []*domain.Item{
		parent,
		childOf(parent, "1.2.1"),
		childOf(parent, "1.2.2"),
	}
	assert.Equal(t, "1.2.3", NextChildNumber(items, parent))
}

func TestCompare_TotalOrder(t *testing.T) {
	assert.Equal(t, 0, Compare("1.2", "1.2"))
	assert.Equal(t, -1, Compare("1", "1.1"))
	assert.Equal(t, 1, Compare("1.10", "1.2"))
	assert.Equal(t, -1, Compare("1.2", "2"))
	assert.Equal(t, 0, Compare("bad", "0"))
}

func TestSorted_NumericNotLexicographic(t *testing.T) {
	items := []*domain.Item{
		itemWithNumber("2"),
		itemWithNumber("1.10"),
		itemWithNumber("1.2"),
		itemWithNumber("1"),
		itemWithNumber("1.1"),
	}

	sorted := Sorted(items)
	numbers := make([]string, len(sorted))
	for i, it := range sorted {
		numbers[i] = it.Number
	}
	assert.Equal(t, []string{"1", "1.1", "1.2", "1.10", "2"}, numbers)

	// Input order untouched.
	assert.Equal(t, "2", items[0].Number)
}

func TestSorted_IdempotentAndStable(t *testing.T) {
	a := itemWithNumber("1")
	b := itemWithNumber("1") // duplicate number, must keep relative order
	c := itemWithNumber("0.5")
	items := []*domain.Item{a, b, c}

	first := Sorted(items)
	second := Sorted(first)
	require.Equal(t, first, second)

	assert.Same(t, a, first[1])
	assert.Same(t, b, first[2])
}
