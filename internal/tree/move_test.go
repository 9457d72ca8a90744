package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ripopov/surfer-sub000/internal/model"
)

// groups is the children predicate used with testTree: only 1, 2 and 3 are
// groups.
func groups(n Node) bool {
	return n.Item == 1 || n.Item == 2 || n.Item == 3
}

func levelOf(t *testing.T, tr *Tree, item model.ItemRef) uint8 {
	t.Helper()
	idx, ok := tr.IndexOf(item)
	require.True(t, ok, "item %d not in tree", item)
	return tr.items[idx].Level
}

func TestMoveItemsToFront(t *testing.T) {
	tr := testTree(t)
	require.NoError(t, tr.MoveItems([]ItemIndex{8}, TargetPosition{Before: 0, Level: 0}))
	assert.Equal(t, refs(4, 0, 1, 2, 20, 200, 3, 30, 31, 5), itemsOf(tr))
	assert.NoError(t, Validate(tr.items))
}

func TestMoveItemsAfterSubtree(t *testing.T) {
	tr := testTree(t)
	require.NoError(t, tr.MoveItems([]ItemIndex{0}, TargetPosition{Before: 5, Level: 0}))
	assert.Equal(t, refs(1, 2, 20, 200, 0, 3, 30, 31, 4, 5), itemsOf(tr))
}

func TestMoveItemsBackwards(t *testing.T) {
	tr := testTree(t)
	require.NoError(t, tr.MoveItems([]ItemIndex{9, 8}, TargetPosition{Before: 1, Level: 0}))
	assert.Equal(t, refs(0, 4, 5, 1, 2, 20, 200, 3, 30, 31), itemsOf(tr))
	assert.NoError(t, Validate(tr.items))
}

func TestMoveItemsBothDirections(t *testing.T) {
	tr := testTree(t)
	require.NoError(t, tr.MoveItems([]ItemIndex{1, 8}, TargetPosition{Before: 5, Level: 0}))
	assert.Equal(t, refs(0, 2, 20, 200, 1, 4, 3, 30, 31, 5), itemsOf(tr))
	assert.NoError(t, Validate(tr.items))
}

func TestMoveItemsIntoSubtree(t *testing.T) {
	tr := testTree(t)
	require.NoError(t, tr.MoveItems([]ItemIndex{1, 8}, TargetPosition{Before: 4, Level: 2}))
	assert.Equal(t, refs(0, 2, 20, 1, 4, 200, 3, 30, 31, 5), itemsOf(tr))
	assert.Equal(t, []uint8{0, 0, 1, 2, 2, 2, 0, 1, 1, 0}, levelsOf(tr))
	assert.NoError(t, Validate(tr.items))
}

func TestMoveItemsNodeWithDescendant(t *testing.T) {
	tr := testTree(t)
	require.NoError(t, tr.MoveItems([]ItemIndex{2, 4}, TargetPosition{Before: 9, Level: 0}))
	assert.Equal(t, refs(0, 1, 3, 30, 31, 4, 2, 20, 200, 5), itemsOf(tr))
	assert.Equal(t, uint8(0), levelOf(t, tr, 2))
	assert.Equal(t, uint8(1), levelOf(t, tr, 20))
	assert.Equal(t, uint8(0), levelOf(t, tr, 200), "moved descendant leaves the subtree")
	assert.NoError(t, Validate(tr.items))
}

func TestMoveItemsWithStable(t *testing.T) {
	tr := testTree(t)
	require.NoError(t, tr.MoveItems([]ItemIndex{0, 3, 9}, TargetPosition{Before: 3, Level: 1}))
	assert.Equal(t, refs(1, 2, 0, 20, 5, 200, 3, 30, 31, 4), itemsOf(tr))
	assert.Equal(t, uint8(1), levelOf(t, tr, 0))
	assert.Equal(t, uint8(1), levelOf(t, tr, 20))
	assert.Equal(t, uint8(1), levelOf(t, tr, 5))
	assert.Equal(t, uint8(2), levelOf(t, tr, 200))
	assert.NoError(t, Validate(tr.items))
}

func TestMoveItemsEmpty(t *testing.T) {
	tr := testTree(t)
	require.NoError(t, tr.MoveItems(nil, TargetPosition{Before: 3, Level: 0}))
	assert.Equal(t, testTree(t).items, tr.items)
}

func TestMoveItemsCircular(t *testing.T) {
	tr := buildTree(t,
		node(1, 0, true),
		node(10, 1, true),
		node(100, 2, true),
		node(11, 3, true),
	)
	before := tr.Nodes()
	err := tr.MoveItems([]ItemIndex{1, 2}, TargetPosition{Before: 4, Level: 2})
	assert.ErrorIs(t, err, ErrCircularMove)
	assert.Equal(t, before, tr.items)
}

func TestMoveItemsInvalidIndex(t *testing.T) {
	tr := testTree(t)
	assert.ErrorIs(t, tr.MoveItems([]ItemIndex{10}, TargetPosition{Before: 0}), ErrInvalidIndex)
	assert.ErrorIs(t, tr.MoveItems([]ItemIndex{-1}, TargetPosition{Before: 0}), ErrInvalidIndex)
	assert.ErrorIs(t, tr.MoveItems([]ItemIndex{0}, TargetPosition{Before: 11}), ErrInvalidIndex)
	assert.Equal(t, testTree(t).items, tr.items)

	err := tr.MoveItems([]ItemIndex{-1, 3}, TargetPosition{Before: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "moved index -1")
	err = tr.MoveItems([]ItemIndex{3, 12}, TargetPosition{Before: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "moved index 12")
}

func TestMoveItemsDeepTailBeforeShallowerNode(t *testing.T) {
	//	0: 1
	//	1:   2
	//	2:     3
	//	3: 4
	//	4:   5
	tr := buildTree(t,
		node(1, 0, true),
		node(2, 1, true),
		node(3, 2, true),
		node(4, 0, true),
		node(5, 1, true),
	)
	require.NoError(t, tr.MoveItems([]ItemIndex{3}, TargetPosition{Before: 2, Level: 0}))
	assert.Equal(t, refs(1, 2, 4, 5, 3), itemsOf(tr))
	assert.Equal(t, []uint8{0, 1, 0, 1, 2}, levelsOf(tr))
	assert.NoError(t, Validate(tr.items))
}

func TestMoveItemsGroupBeforeNestedNode(t *testing.T) {
	tr := testTree(t)
	// 3 keeps 30 and 31, and 31 leaves room for 200 at level 2
	require.NoError(t, tr.MoveItems([]ItemIndex{5}, TargetPosition{Before: 4, Level: 0}))
	assert.Equal(t, refs(0, 1, 2, 20, 3, 30, 31, 200, 4, 5), itemsOf(tr))
	assert.Equal(t, []uint8{0, 0, 0, 1, 0, 1, 1, 2, 0, 0}, levelsOf(tr))
	assert.NoError(t, Validate(tr.items))
}

func TestMoveItemsLeafBeforeNestedNode(t *testing.T) {
	tr := buildTree(t,
		node(1, 0, true),
		node(10, 1, true),
		node(100, 2, true),
		node(2, 0, true),
	)
	// 100 would follow a level 0 leaf
	assert.ErrorIs(t, tr.MoveItems([]ItemIndex{3}, TargetPosition{Before: 2, Level: 0}), ErrInvalidLevel)
	assert.Equal(t, refs(1, 10, 100, 2), itemsOf(tr))
}

// moveSingleNaive moves the subtree at idx without any level checks.
func moveSingleNaive(nodes []Node, idx, before int, level uint8) []Node {
	end := idx + 1
	for end < len(nodes) && nodes[end].Level > nodes[idx].Level {
		end++
	}
	block := append([]Node(nil), nodes[idx:end]...)
	shiftSubtreeToLevel(block, level)
	rest := append(append([]Node(nil), nodes[:idx]...), nodes[end:]...)
	pos := before
	if before >= end {
		pos = before - len(block)
	}
	result := append([]Node(nil), rest[:pos]...)
	result = append(result, block...)
	return append(result, rest[pos:]...)
}

func TestMoveItemsSingleMatchesNaiveMove(t *testing.T) {
	base := testTree(t)
	for idx := range base.Len() {
		end := base.subtreeEnd(idx)
		for before := 0; before <= base.Len(); before++ {
			for level := range uint8(4) {
				tr := base.Clone()
				err := tr.MoveItems([]ItemIndex{ItemIndex(idx)}, TargetPosition{Before: ItemIndex(before), Level: level})
				if before > idx && before < end {
					assert.Error(t, err, "move %d before %d level %d", idx, before, level)
					continue
				}
				want := moveSingleNaive(base.items, idx, before, level)
				if Validate(want) != nil {
					assert.ErrorIs(t, err, ErrInvalidLevel, "move %d before %d level %d", idx, before, level)
					continue
				}
				if assert.NoError(t, err, "move %d before %d level %d", idx, before, level) {
					assert.Equal(t, want, tr.items, "move %d before %d level %d", idx, before, level)
				}
			}
		}
	}
}

func TestMoveItemsInvalidLevel(t *testing.T) {
	tr := testTree(t)
	// 2 would be dropped in the middle of its own subtree
	assert.ErrorIs(t, tr.MoveItems([]ItemIndex{2}, TargetPosition{Before: 4, Level: 0}), ErrInvalidLevel)
	// 0 only has room for a child at level 1
	assert.ErrorIs(t, tr.MoveItems([]ItemIndex{9}, TargetPosition{Before: 1, Level: 2}), ErrInvalidLevel)
	assert.Equal(t, testTree(t).items, tr.items)
}

func TestPartitionIndicesDuplicateStable(t *testing.T) {
	_, _, _, err := partitionIndices([]ItemIndex{1, 3, 3, 5}, 3)
	assert.ErrorIs(t, err, ErrMultipleStable)

	pre, stable, post, err := partitionIndices([]ItemIndex{1, 3, 5}, 3)
	require.NoError(t, err)
	assert.Equal(t, []ItemIndex{1}, pre)
	assert.Equal(t, 3, stable)
	assert.Equal(t, []ItemIndex{5}, post)
}

func TestMoveItemDown(t *testing.T) {
	tr := testTree(t)
	vidx, err := tr.MoveItem(0, MoveDown, groups)
	require.NoError(t, err)
	assert.Equal(t, VisibleItemIndex(1), vidx)
	assert.Equal(t, refs(1, 0, 2, 20, 200, 3, 30, 31, 4, 5), itemsOf(tr))
	assert.Equal(t, uint8(1), levelOf(t, tr, 0))
}

func TestMoveItemDownIntoGroup(t *testing.T) {
	tr := testTree(t)
	vidx, err := tr.MoveItem(2, MoveDown, groups)
	require.NoError(t, err)
	assert.Equal(t, VisibleItemIndex(3), vidx)
	assert.Equal(t, refs(0, 1, 3, 2, 20, 200, 30, 31, 4, 5), itemsOf(tr))
	assert.Equal(t, uint8(1), levelOf(t, tr, 2))
	assert.Equal(t, uint8(2), levelOf(t, tr, 20))
	assert.Equal(t, uint8(3), levelOf(t, tr, 200))

	n, ok := tr.GetVisible(vidx)
	require.True(t, ok)
	assert.Equal(t, model.ItemRef(2), n.Item)
}

func TestMoveItemDownOutOfGroup(t *testing.T) {
	tr := testTree(t)
	vidx, err := tr.MoveItem(5, MoveDown, groups)
	require.NoError(t, err)
	assert.Equal(t, VisibleItemIndex(5), vidx)
	assert.Equal(t, refs(0, 1, 2, 20, 200, 3, 30, 31, 4, 5), itemsOf(tr))
	assert.Equal(t, uint8(0), levelOf(t, tr, 31))
}

func TestMoveItemDownOverSibling(t *testing.T) {
	tr := testTree(t)
	vidx, err := tr.MoveItem(6, MoveDown, groups)
	require.NoError(t, err)
	assert.Equal(t, VisibleItemIndex(7), vidx)
	assert.Equal(t, refs(0, 1, 2, 20, 200, 3, 30, 31, 5, 4), itemsOf(tr))
}

func TestMoveItemDownAtEnd(t *testing.T) {
	tr := testTree(t)
	for range 3 {
		vidx, err := tr.MoveItem(7, MoveDown, groups)
		require.NoError(t, err)
		assert.Equal(t, VisibleItemIndex(7), vidx)
	}
	assert.Equal(t, testTree(t).items, tr.items)
}

func TestMoveItemUpAtStart(t *testing.T) {
	tr := testTree(t)
	vidx, err := tr.MoveItem(0, MoveUp, groups)
	require.NoError(t, err)
	assert.Equal(t, VisibleItemIndex(0), vidx)
	assert.Equal(t, testTree(t).items, tr.items)
}

func TestMoveItemUpOverFoldedSubtree(t *testing.T) {
	tr := testTree(t)
	vidx, err := tr.MoveItem(3, MoveUp, groups)
	require.NoError(t, err)
	assert.Equal(t, VisibleItemIndex(2), vidx)
	assert.Equal(t, refs(0, 1, 3, 30, 31, 2, 20, 200, 4, 5), itemsOf(tr))
	assert.Equal(t, []uint8{0, 0, 0, 1, 1, 0, 1, 2, 0, 0}, levelsOf(tr))
}

func TestMoveItemUpIntoGroup(t *testing.T) {
	tr := testTree(t)
	vidx, err := tr.MoveItem(2, MoveUp, groups)
	require.NoError(t, err)
	assert.Equal(t, VisibleItemIndex(2), vidx)
	assert.Equal(t, refs(0, 1, 2, 20, 200, 3, 30, 31, 4, 5), itemsOf(tr))
	assert.Equal(t, []uint8{0, 0, 1, 2, 3, 0, 1, 1, 0, 0}, levelsOf(tr))
}

func TestMoveItemUpOutOfGroup(t *testing.T) {
	tr := testTree(t)
	vidx, err := tr.MoveItem(4, MoveUp, groups)
	require.NoError(t, err)
	assert.Equal(t, VisibleItemIndex(3), vidx)
	assert.Equal(t, refs(0, 1, 2, 20, 200, 30, 3, 31, 4, 5), itemsOf(tr))
	assert.Equal(t, uint8(0), levelOf(t, tr, 30))
}

func TestMoveItemUpIntoPrecedingGroupEnd(t *testing.T) {
	tr := testTree(t)
	vidx, err := tr.MoveItem(6, MoveUp, groups)
	require.NoError(t, err)
	assert.Equal(t, VisibleItemIndex(6), vidx)
	assert.Equal(t, uint8(1), levelOf(t, tr, 4))
	assert.NoError(t, Validate(tr.items))
}

func TestMoveItemInvalidIndex(t *testing.T) {
	tr := testTree(t)
	_, err := tr.MoveItem(8, MoveDown, groups)
	assert.ErrorIs(t, err, ErrInvalidIndex)
	_, err = tr.MoveItem(-1, MoveUp, groups)
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

func TestRotate(t *testing.T) {
	s := []Node{node(1, 0, true), node(2, 0, true), node(3, 0, true), node(4, 0, true)}
	rotateLeft(s, 1)
	assert.Equal(t, []model.ItemRef{2, 3, 4, 1}, []model.ItemRef{s[0].Item, s[1].Item, s[2].Item, s[3].Item})
	rotateRight(s, 1)
	assert.Equal(t, []model.ItemRef{1, 2, 3, 4}, []model.ItemRef{s[0].Item, s[1].Item, s[2].Item, s[3].Item})
	rotateLeft(s[:0], 3)
}

func TestAddLevelSaturates(t *testing.T) {
	assert.Equal(t, uint8(255), addLevel(250, 10))
	assert.Equal(t, uint8(0), addLevel(3, -10))
	assert.Equal(t, uint8(5), addLevel(3, 2))
}
