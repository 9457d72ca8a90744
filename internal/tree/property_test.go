package tree

import (
	"slices"
	"testing"

	"pgregory.net/rapid"

	"github.com/ripopov/surfer-sub000/internal/model"
)

// genTree draws a random tree with valid levels
func genTree(t *rapid.T) *Tree {
	n := rapid.IntRange(1, 16).Draw(t, "len")
	nodes := make([]Node, n)
	for i := range nodes {
		level := 0
		if i > 0 {
			level = rapid.IntRange(0, int(nodes[i-1].Level)+1).Draw(t, "level")
		}
		nodes[i] = Node{
			Item:     model.ItemRef(i),
			Level:    uint8(level),
			Unfolded: rapid.Bool().Draw(t, "unfolded"),
			Selected: rapid.Bool().Draw(t, "selected"),
		}
	}
	tr, err := FromNodes(nodes)
	if err != nil {
		t.Fatalf("generated invalid tree: %v", err)
	}
	return tr
}

func sortedItems(tr *Tree) []model.ItemRef {
	items := make([]model.ItemRef, 0, tr.Len())
	for _, n := range tr.All() {
		items = append(items, n.Item)
	}
	slices.Sort(items)
	return items
}

func evenItems(n Node) bool {
	return n.Item%2 == 0
}

func TestMoveItemsKeepsTreeValid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tr := genTree(t)
		indices := rapid.SliceOfN(rapid.IntRange(0, tr.Len()-1), 0, 4).Draw(t, "indices")
		target := TargetPosition{
			Before: ItemIndex(rapid.IntRange(0, tr.Len()).Draw(t, "before")),
			Level:  uint8(rapid.IntRange(0, 4).Draw(t, "level")),
		}
		moved := make([]ItemIndex, len(indices))
		for i, idx := range indices {
			moved[i] = ItemIndex(idx)
		}

		before := tr.Nodes()
		wantItems := sortedItems(tr)
		if err := tr.MoveItems(moved, target); err != nil {
			if !slices.Equal(before, tr.items) {
				t.Fatalf("failed move %v -> %+v changed the tree: %v", moved, target, err)
			}
			return
		}
		if err := Validate(tr.items); err != nil {
			t.Fatalf("move %v -> %+v broke the tree: %v", moved, target, err)
		}
		if !slices.Equal(wantItems, sortedItems(tr)) {
			t.Fatalf("move %v -> %+v lost or duplicated items", moved, target)
		}
	})
}

func TestMoveItemKeepsTreeValid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tr := genTree(t)
		vidx := VisibleItemIndex(rapid.IntRange(0, tr.VisibleLen()-1).Draw(t, "vidx"))
		dir := MoveDir(rapid.IntRange(0, 1).Draw(t, "dir"))

		wantItems := sortedItems(tr)
		newVidx, err := tr.MoveItem(vidx, dir, evenItems)
		if err != nil {
			t.Fatalf("move %s at %d: %v", dir, vidx, err)
		}
		if err := Validate(tr.items); err != nil {
			t.Fatalf("move %s at %d broke the tree: %v", dir, vidx, err)
		}
		if !slices.Equal(wantItems, sortedItems(tr)) {
			t.Fatalf("move %s at %d lost or duplicated items", dir, vidx)
		}
		if _, ok := tr.GetVisible(newVidx); !ok {
			t.Fatalf("move %s at %d returned hidden index %d", dir, vidx, newVidx)
		}
	})
}

func TestVisibleMatchesAncestors(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tr := genTree(t)
		var want []model.ItemRef
		for idx, n := range tr.All() {
			if tr.IsVisible(idx) {
				want = append(want, n.Item)
			}
		}
		got := visibleItemsOf(tr)
		if !slices.Equal(want, got) {
			t.Fatalf("visible %v, want %v", got, want)
		}
		if tr.VisibleLen() != len(want) {
			t.Fatalf("visible len %d, want %d", tr.VisibleLen(), len(want))
		}
	})
}

func TestSubtreeEndProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tr := genTree(t)
		i := rapid.IntRange(0, tr.Len()-1).Draw(t, "idx")
		end := int(tr.SubtreeEnd(ItemIndex(i)))
		if end <= i || end > tr.Len() {
			t.Fatalf("subtree end %d out of bounds for %d", end, i)
		}
		for j := i + 1; j < end; j++ {
			if tr.items[j].Level <= tr.items[i].Level {
				t.Fatalf("node %d inside subtree of %d has level %d", j, i, tr.items[j].Level)
			}
		}
		if end < tr.Len() && tr.items[end].Level > tr.items[i].Level {
			t.Fatalf("subtree of %d stops early at %d", i, end)
		}
	})
}

// TestEditSequencesKeepTreeValid runs random sequences of edits on one tree
// and checks after every step that the levels stay valid and that no item is
// lost or duplicated.
func TestEditSequencesKeepTreeValid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tr := genTree(t)
		want := sortedItems(tr)
		next := model.ItemRef(tr.Len())

		// drop removes refs from want, failing on refs it does not hold
		drop := func(op string, refs ...model.ItemRef) {
			for _, ref := range refs {
				i, ok := slices.BinarySearch(want, ref)
				if !ok {
					t.Fatalf("%s removed unknown item %d", op, ref)
				}
				want = slices.Delete(want, i, i+1)
			}
		}
		randomIndex := func() ItemIndex {
			return ItemIndex(rapid.IntRange(0, tr.Len()-1).Draw(t, "idx"))
		}

		t.Repeat(map[string]func(*rapid.T){
			"insert": func(t *rapid.T) {
				vidx := VisibleItemIndex(rapid.IntRange(0, tr.VisibleLen()).Draw(t, "vidx"))
				levels := tr.ValidLevelsVisible(vidx, evenItems)
				if levels.End <= int(levels.Start) {
					t.Fatalf("empty level range %+v at %d", levels, vidx)
				}
				level := uint8(rapid.IntRange(int(levels.Start), levels.End-1).Draw(t, "level"))
				if !levels.Contains(level) {
					t.Fatalf("level %d outside %+v", level, levels)
				}
				before, ok := tr.ToDisplayed(vidx)
				if !ok {
					before = ItemIndex(tr.Len())
				}
				tr.InsertItem(next, TargetPosition{Before: before, Level: level})
				want = append(want, next)
				next++
			},
			"remove recursive": func(t *rapid.T) {
				if tr.IsEmpty() {
					t.Skip("empty tree")
				}
				drop("remove recursive", tr.RemoveRecursive(randomIndex())...)
			},
			"remove dissolve": func(t *rapid.T) {
				if tr.IsEmpty() {
					t.Skip("empty tree")
				}
				drop("remove dissolve", tr.RemoveDissolve(randomIndex()))
			},
			"extract": func(t *rapid.T) {
				mod := model.ItemRef(rapid.IntRange(2, 5).Draw(t, "mod"))
				drop("extract", tr.ExtractRecursiveIf(func(n Node) bool { return n.Item%mod == 0 })...)
			},
			"move item": func(t *rapid.T) {
				if tr.VisibleLen() == 0 {
					t.Skip("nothing visible")
				}
				vidx := VisibleItemIndex(rapid.IntRange(0, tr.VisibleLen()-1).Draw(t, "vidx"))
				dir := MoveDir(rapid.IntRange(0, 1).Draw(t, "dir"))
				newVidx, err := tr.MoveItem(vidx, dir, evenItems)
				if err != nil {
					t.Fatalf("move %s at %d: %v", dir, vidx, err)
				}
				if _, ok := tr.GetVisible(newVidx); !ok {
					t.Fatalf("move %s at %d returned hidden index %d", dir, vidx, newVidx)
				}
			},
			"move items": func(t *rapid.T) {
				if tr.IsEmpty() {
					t.Skip("empty tree")
				}
				indices := rapid.SliceOfN(rapid.IntRange(0, tr.Len()-1), 1, 4).Draw(t, "indices")
				moved := make([]ItemIndex, len(indices))
				for i, idx := range indices {
					moved[i] = ItemIndex(idx)
				}
				target := TargetPosition{
					Before: ItemIndex(rapid.IntRange(0, tr.Len()).Draw(t, "before")),
					Level:  uint8(rapid.IntRange(0, 4).Draw(t, "level")),
				}
				saved := tr.Nodes()
				if err := tr.MoveItems(moved, target); err != nil && !slices.Equal(saved, tr.items) {
					t.Fatalf("failed move %v -> %+v changed the tree: %v", moved, target, err)
				}
			},
			"fold": func(t *rapid.T) {
				if tr.IsEmpty() {
					t.Skip("empty tree")
				}
				idx := randomIndex()
				unfolded := rapid.Bool().Draw(t, "unfolded")
				if rapid.Bool().Draw(t, "subtree") {
					tr.SetUnfoldedSubtree(idx, unfolded)
				} else {
					tr.SetUnfolded(idx, unfolded)
				}
			},
			"": func(t *rapid.T) {
				if err := Validate(tr.items); err != nil {
					t.Fatalf("tree broke: %v", err)
				}
				if got := sortedItems(tr); !slices.Equal(want, got) {
					t.Fatalf("items %v, want %v", got, want)
				}
				if tr.VisibleLen() > tr.Len() {
					t.Fatalf("%d visible of %d nodes", tr.VisibleLen(), tr.Len())
				}
			},
		})
	})
}
