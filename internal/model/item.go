// Package model contains the displayed items shown in the item panel
package model

import (
	"fmt"
	"sort"
	"strings"
)

// ItemRef is an opaque handle of a displayed item
type ItemRef uint64

// ItemKind identifies what a displayed item shows
type ItemKind int

const (
	KindVariable ItemKind = iota
	KindDivider
	KindMarker
	KindTimeLine
	KindPlaceholder
	KindStream
	KindGroup
)

var kindNames = map[ItemKind]string{
	KindVariable:    "variable",
	KindDivider:     "divider",
	KindMarker:      "marker",
	KindTimeLine:    "timeline",
	KindPlaceholder: "placeholder",
	KindStream:      "stream",
	KindGroup:       "group",
}

func (k ItemKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind converts a kind name (case-insensitive) back to an ItemKind
func ParseKind(name string) (ItemKind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// MarshalText implements encoding.TextMarshaler so layouts store kind names
func (k ItemKind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("unknown item kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *ItemKind) UnmarshalText(text []byte) error {
	parsed, ok := ParseKind(string(text))
	if !ok {
		return fmt.Errorf("unknown item kind %q", string(text))
	}
	*k = parsed
	return nil
}

// DisplayedItem represents a single row of the item panel
type DisplayedItem struct {
	Ref             ItemRef  `json:"ref" toml:"ref" yaml:"ref"`
	Kind            ItemKind `json:"kind" toml:"kind" yaml:"kind"`
	Name            string   `json:"name" toml:"name" yaml:"name"`
	Color           string   `json:"color,omitempty" toml:"color,omitempty" yaml:"color,omitempty"`
	BackgroundColor string   `json:"background_color,omitempty" toml:"background_color,omitempty" yaml:"background_color,omitempty"`
}

// CanHaveChildren reports whether items of this kind may nest other items
func (i *DisplayedItem) CanHaveChildren() bool {
	return i.Kind == KindGroup
}

// Registry owns the displayed items referenced by the item tree
type Registry struct {
	items map[ItemRef]*DisplayedItem
	next  ItemRef
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		items: make(map[ItemRef]*DisplayedItem),
	}
}

// Add registers a new item and returns its handle
func (r *Registry) Add(kind ItemKind, name string) ItemRef {
	ref := r.next
	r.next++
	r.items[ref] = &DisplayedItem{
		Ref:  ref,
		Kind: kind,
		Name: name,
	}
	return ref
}

// Get returns the item for ref, or nil if it is unknown
func (r *Registry) Get(ref ItemRef) *DisplayedItem {
	return r.items[ref]
}

// Remove drops items from the registry. Unknown refs are ignored.
func (r *Registry) Remove(refs ...ItemRef) {
	for _, ref := range refs {
		delete(r.items, ref)
	}
}

// Rename changes the display name of an item
func (r *Registry) Rename(ref ItemRef, name string) bool {
	item, ok := r.items[ref]
	if !ok {
		return false
	}
	item.Name = name
	return true
}

// Len returns the number of registered items
func (r *Registry) Len() int {
	return len(r.items)
}

// CanHaveChildren is the nesting policy handed to the item tree
func (r *Registry) CanHaveChildren(ref ItemRef) bool {
	item, ok := r.items[ref]
	return ok && item.CanHaveChildren()
}

// Items returns copies of all items ordered by ref
func (r *Registry) Items() []DisplayedItem {
	result := make([]DisplayedItem, 0, len(r.items))
	for _, item := range r.items {
		result = append(result, *item)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Ref < result[j].Ref
	})
	return result
}

// Restore replaces the registry contents, e.g. after loading a layout.
// New refs continue after the highest restored ref.
func (r *Registry) Restore(items []DisplayedItem) {
	r.items = make(map[ItemRef]*DisplayedItem, len(items))
	r.next = 0
	for _, item := range items {
		item := item
		r.items[item.Ref] = &item
		if item.Ref >= r.next {
			r.next = item.Ref + 1
		}
	}
}

// Clone returns a deep copy of the registry
func (r *Registry) Clone() *Registry {
	c := NewRegistry()
	c.Restore(r.Items())
	c.next = r.next
	return c
}
