package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ripopov/surfer-sub000/internal/model"
	"github.com/ripopov/surfer-sub000/internal/storage"
	"github.com/ripopov/surfer-sub000/internal/tree"
)

// baseLayout is top{clk, rst}, A
func baseLayout(t *testing.T) (*model.Registry, *tree.Tree) {
	t.Helper()
	reg := model.NewRegistry()
	top := reg.Add(model.KindGroup, "top")
	clk := reg.Add(model.KindVariable, "clk")
	rst := reg.Add(model.KindVariable, "rst")
	mark := reg.Add(model.KindMarker, "A")
	tr, err := tree.FromNodes([]tree.Node{
		{Item: top, Level: 0, Unfolded: true},
		{Item: clk, Level: 1, Unfolded: true},
		{Item: rst, Level: 1, Unfolded: true},
		{Item: mark, Level: 0, Unfolded: true},
	})
	require.NoError(t, err)
	return reg, tr
}

func TestComputeDiffIdentical(t *testing.T) {
	reg, tr := baseLayout(t)
	result, err := ComputeDiff(storage.NewLayout(reg, tr), storage.NewLayout(reg, tr))
	require.NoError(t, err)
	assert.True(t, result.Empty())
	assert.Empty(t, BuildDiffLines(result, true))
}

func TestComputeDiffChanges(t *testing.T) {
	reg, tr := baseLayout(t)
	old := storage.NewLayout(reg, tr)

	// rename clk, recolor A, move rst to the top level, add bus
	reg.Rename(1, "clock")
	reg.Get(3).Color = "red"
	_, err := tr.MoveItem(2, tree.MoveDown, func(n tree.Node) bool { return reg.CanHaveChildren(n.Item) })
	require.NoError(t, err)
	bus := reg.Add(model.KindGroup, "bus")
	tr.PushItem(bus)
	tr.SetUnfolded(0, false)

	result, err := ComputeDiff(old, storage.NewLayout(reg, tr))
	require.NoError(t, err)

	require.Contains(t, result.NewItems, bus)
	assert.False(t, result.NewItems[bus].HasParent())
	assert.Equal(t, 3, result.NewItems[bus].Position)
	assert.Empty(t, result.DeletedItems)

	require.Len(t, result.ModifiedItems, 4)
	assert.True(t, result.ModifiedItems[1].NameChanged)
	assert.False(t, result.ModifiedItems[1].StructureChanged)
	assert.True(t, result.ModifiedItems[2].StructureChanged)
	assert.Equal(t, model.ItemRef(0), result.ModifiedItems[2].OldItem.Parent)
	assert.True(t, result.ModifiedItems[3].ColorChanged)
	assert.True(t, result.ModifiedItems[3].StructureChanged)
	assert.True(t, result.ModifiedItems[0].FoldChanged)
	assert.Equal(t, "4 modified, 1 added, 0 deleted", Summary(result))

	text := FormatLines(BuildDiffLines(result, false))
	assert.Contains(t, text, "  + 4: group \"bus\"\n")
	assert.Contains(t, text, "NAME: \"clk\" -> \"clock\"")
	assert.Contains(t, text, "MOVED: in 0 at position 1 -> top level at position 1")
	assert.Contains(t, text, "COLOR: default -> red")
	assert.NotContains(t, text, "FOLDED")
	assert.Contains(t, FormatLines(BuildDiffLines(result, true)), "FOLDED")
}

func TestComputeDiffDeleted(t *testing.T) {
	reg, tr := baseLayout(t)
	old := storage.NewLayout(reg, tr)
	removed := tr.RemoveRecursive(0)
	reg.Remove(removed...)

	result, err := ComputeDiff(old, storage.NewLayout(reg, tr))
	require.NoError(t, err)
	assert.Len(t, result.DeletedItems, 3)
	require.Contains(t, result.ModifiedItems, model.ItemRef(3))
	assert.Equal(t, 0, result.ModifiedItems[3].Item.Position)
	assert.Contains(t, FormatLines(BuildDiffLines(result, false)), "Deleted Items:")
}

func TestComputeDiffInvalidLayout(t *testing.T) {
	reg, tr := baseLayout(t)
	bad := &storage.Layout{Version: storage.LayoutVersion, Tree: []tree.Node{{Item: 0, Level: 1}}}
	_, err := ComputeDiff(storage.NewLayout(reg, tr), bad)
	assert.Error(t, err)
}
