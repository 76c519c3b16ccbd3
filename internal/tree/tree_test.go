package tree

import (
	"testing"
	"time"

	"github.com/mduarte/ata/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func now() time.Time { return time.Now().UTC() }

func TestAddRoot_NumbersSequentially(t *testing.T) {
	tr := New(nil)

	first := tr.AddRoot(now())
	second := tr.AddRoot(now())

	a, ok := tr.Find(first)
	require.True(t, ok)
	b, ok := tr.Find(second)
	require.True(t, ok)

	assert.Equal(t, "1", a.Number)
	assert.Equal(t, "2", b.Number)
	assert.Equal(t, 1, a.Level)
	assert.Nil(t, a.ParentID)
	require.Len(t, a.History, 1)
	assert.Equal(t, a.History[0], a.LatestEntry)
	require.NoError(t, tr.CheckIntegrity())
}

func TestAddChild_NumbersUnderParent(t *testing.T) {
	tr := New(nil)
	rootID := tr.AddRoot(now())
	tr.AddRoot(now()) // "2", must not influence the child numbering

	c1, ok := tr.AddChild(rootID, now())
	require.True(t, ok)
	c2, ok := tr.AddChild(rootID, now())
	require.True(t, ok)

	root, _ := tr.Find(rootID)
	child1, _ := tr.Find(c1)
	child2, _ := tr.Find(c2)

	assert.Equal(t, "1.1", child1.Number)
	assert.Equal(t, "1.2", child2.Number)
	assert.Equal(t, 2, child1.Level)
	require.NotNil(t, child1.ParentID)
	assert.Equal(t, rootID, *child1.ParentID)
	assert.Equal(t, []string{c1, c2}, root.ChildIDs)
	require.NoError(t, tr.CheckIntegrity())
}

func TestAddChild_MissingParentIsNoop(t *testing.T) {
	tr := New(nil)
	tr.AddRoot(now())

	id, ok := tr.AddChild("missing", now())

	assert.False(t, ok)
	assert.Empty(t, id)
	assert.Equal(t, 1, tr.Len())
}

func TestAddChild_Grandchildren(t *testing.T) {
	tr := New(nil)
	rootID := tr.AddRoot(now())
	childID, _ := tr.AddChild(rootID, now())

	grandID, ok := tr.AddChild(childID, now())
	require.True(t, ok)

	grand, _ := tr.Find(grandID)
	assert.Equal(t, "1.1.1", grand.Number)
	assert.Equal(t, 3, grand.Level)
	require.NoError(t, tr.CheckIntegrity())
}

func TestRemove_CascadesAndRepairsReferences(t *testing.T) {
	tr := New(nil)
	rootID := tr.AddRoot(now()) // "1"
	otherID := tr.AddRoot(now()) // "2"
	c1, _ := tr.AddChild(rootID, now()) // "1.1"
	c2, _ := tr.AddChild(rootID, now()) // "1.2"
	g1, _ := tr.AddChild(c1, now())     // "1.1.1"

	tr.Remove(rootID)

	assert.Equal(t, 1, tr.Len())
	for _, id := range []string{rootID, c1, c2, g1} {
		_, ok := tr.Find(id)
		assert.False(t, ok, id)
	}
	other, ok := tr.Find(otherID)
	require.True(t, ok)
	assert.Empty(t, other.ChildIDs)
	require.NoError(t, tr.CheckIntegrity())
}

func TestRemove_LeafKeepsSiblingsAndParentLink(t *testing.T) {
	tr := New(nil)
	rootID := tr.AddRoot(now())
	c1, _ := tr.AddChild(rootID, now())
	c2, _ := tr.AddChild(rootID, now())

	tr.Remove(c1)

	root, _ := tr.Find(rootID)
	assert.Equal(t, []string{c2}, root.ChildIDs)
	require.NoError(t, tr.CheckIntegrity())

	// Freed numbers are not reused.
	c3, _ := tr.AddChild(rootID, now())
	third, _ := tr.Find(c3)
	assert.Equal(t, "1.3", third.Number)
}

func TestRemove_UnknownIDIsNoop(t *testing.T) {
	tr := New(nil)
	tr.AddRoot(now())

	tr.Remove("missing")

	assert.Equal(t, 1, tr.Len())
}

func TestSetNumber(t *testing.T) {
	tr := New(nil)
	id := tr.AddRoot(now())

	require.True(t, tr.SetNumber(id, "7"))
	it, _ := tr.Find(id)
	assert.Equal(t, "7", it.Number)

	assert.False(t, tr.SetNumber("missing", "9"))
}

func TestSorted_HierarchicalOrder(t *testing.T) {
	tr := New(nil)
	r1 := tr.AddRoot(now())
	tr.AddRoot(now())
	tr.AddChild(r1, now())
	tr.AddChild(r1, now())

	var numbers []string
	for _, it := range tr.Sorted() {
		numbers = append(numbers, it.Number)
	}
	assert.Equal(t, []string{"1", "1.1", "1.2", "2"}, numbers)
}

func TestCheckIntegrity_DetectsDrift(t *testing.T) {
	parent := domain.NewItem("1", 1, nil, now())
	orphan := domain.NewItem("1.1", 2, &parent.ID, now())
	// Parent does not list the child.
	tr := New([]*domain.Item{parent, orphan})
	assert.Error(t, tr.CheckIntegrity())

	parent.ChildIDs = []string{orphan.ID}
	assert.NoError(t, tr.CheckIntegrity())

	parent.ChildIDs = append(parent.ChildIDs, "ghost")
	assert.Error(t, tr.CheckIntegrity())
}

func TestScenario_RootsAndChildrenLifecycle(t *testing.T) {
	// Roots "1" and "2" exist; children are added under "1", then "1" is
	// removed with its subtree and "2" survives.
	tr := New(nil)
	one := tr.AddRoot(now())
	two := tr.AddRoot(now())

	c1, ok := tr.AddChild(one, now())
	require.True(t, ok)
	item, _ := tr.Find(c1)
	assert.Equal(t, "1.1", item.Number)

	c2, _ := tr.AddChild(one, now())
	item, _ = tr.Find(c2)
	assert.Equal(t, "1.2", item.Number)

	tr.Remove(one)

	assert.Equal(t, 1, tr.Len())
	survivor, ok := tr.Find(two)
	require.True(t, ok)
	assert.Equal(t, "2", survivor.Number)
}
