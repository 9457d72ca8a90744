package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ripopov/surfer-sub000/internal/model"
)

func TestVisible(t *testing.T) {
	tr := testTree(t)
	assert.Equal(t, refs(0, 1, 2, 3, 30, 31, 4, 5), visibleItemsOf(tr))
	assert.Equal(t, 8, tr.VisibleLen())
}

func TestVisibleNestedFold(t *testing.T) {
	tr := testTree(t)
	tr.items[2].Unfolded = true
	tr.items[3].Unfolded = false
	assert.Equal(t, refs(0, 1, 2, 20, 3, 30, 31, 4, 5), visibleItemsOf(tr))
}

func TestVisibleEmptyTree(t *testing.T) {
	tr := New()
	assert.Empty(t, visibleItemsOf(tr))
	assert.Equal(t, 0, tr.VisibleLen())
	_, ok := tr.GetVisible(0)
	assert.False(t, ok)
}

func TestVisibleStopsEarly(t *testing.T) {
	tr := testTree(t)
	var seen []model.ItemRef
	for n := range tr.Visible() {
		seen = append(seen, n.Item)
		if n.Item == 3 {
			break
		}
	}
	assert.Equal(t, refs(0, 1, 2, 3), seen)
}

func TestVisibleExtra(t *testing.T) {
	type row struct {
		item     model.ItemRef
		idx      ItemIndex
		hasChild bool
		last     bool
	}
	tr := testTree(t)
	var rows []row
	for info := range tr.VisibleExtra() {
		rows = append(rows, row{info.Node.Item, info.Index, info.HasChild, info.Last})
	}
	assert.Equal(t, []row{
		{0, 0, false, false},
		{1, 1, false, false},
		{2, 2, true, false},
		{3, 5, true, false},
		{30, 6, false, false},
		{31, 7, false, false},
		{4, 8, false, false},
		{5, 9, false, true},
	}, rows)
}

func TestVisibleExtraLastBehindFoldedSubtree(t *testing.T) {
	tr := buildTree(t,
		node(1, 0, true),
		node(2, 0, false),
		node(20, 1, true),
	)
	var last []bool
	for info := range tr.VisibleExtra() {
		last = append(last, info.Last)
	}
	assert.Equal(t, []bool{false, true}, last)
}

func TestVisibleMut(t *testing.T) {
	tr := testTree(t)
	for n := range tr.VisibleMut() {
		if n.Item == 3 {
			// folding during the walk hides the rest of the subtree
			n.Unfolded = false
		}
		n.Selected = true
	}
	var selected []model.ItemRef
	for n := range tr.Selected() {
		selected = append(selected, n.Item)
	}
	assert.Equal(t, refs(0, 1, 2, 3, 4, 5), selected)
}

func TestGetVisibleAndConversions(t *testing.T) {
	tr := testTree(t)

	n, ok := tr.GetVisible(3)
	require.True(t, ok)
	assert.Equal(t, model.ItemRef(3), n.Item)

	idx, ok := tr.ToDisplayed(3)
	require.True(t, ok)
	assert.Equal(t, ItemIndex(5), idx)

	_, ok = tr.ToDisplayed(8)
	assert.False(t, ok)
	_, ok = tr.ToDisplayed(-1)
	assert.False(t, ok)

	vidx, ok := tr.ToVisible(5)
	require.True(t, ok)
	assert.Equal(t, VisibleItemIndex(3), vidx)

	_, ok = tr.ToVisible(3)
	assert.False(t, ok, "hidden nodes have no visible index")

	info, ok := tr.GetVisibleExtra(7)
	require.True(t, ok)
	assert.True(t, info.Last)
	assert.Equal(t, ItemIndex(9), info.Index)
}

func TestVisibleSelected(t *testing.T) {
	tr := testTree(t)
	tr.items[3].Selected = true
	tr.items[6].Selected = true
	var selected []model.ItemRef
	for n := range tr.VisibleSelected() {
		selected = append(selected, n.Item)
	}
	assert.Equal(t, refs(30), selected)
}
