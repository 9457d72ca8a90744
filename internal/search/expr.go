// Package search filters and ranks the items of the item panel
package search

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/ripopov/surfer-sub000/internal/model"
)

// Subject is what a filter looks at: an item and where it sits in the tree
type Subject struct {
	Item     *model.DisplayedItem
	Level    uint8
	Selected bool
}

// FilterExpr represents a filter expression that can match items
type FilterExpr interface {
	Matches(s Subject) bool
	String() string
}

// TextExpr matches items whose name contains the term (case-insensitive)
type TextExpr struct {
	term string
}

func NewTextExpr(term string) *TextExpr {
	return &TextExpr{term: strings.ToLower(term)}
}

func (e *TextExpr) Matches(s Subject) bool {
	return strings.Contains(strings.ToLower(s.Item.Name), e.term)
}

func (e *TextExpr) String() string {
	return fmt.Sprintf("text(%q)", e.term)
}

// FuzzyExpr matches items whose name fuzzy-matches the term
type FuzzyExpr struct {
	term string
}

func NewFuzzyExpr(term string) *FuzzyExpr {
	return &FuzzyExpr{term: term}
}

func (e *FuzzyExpr) Matches(s Subject) bool {
	return fuzzy.MatchFold(e.term, s.Item.Name)
}

func (e *FuzzyExpr) String() string {
	return fmt.Sprintf("fuzzy(%q)", e.term)
}

// RegexExpr matches item names against a regular expression
type RegexExpr struct {
	pattern string
	re      *regexp.Regexp
}

func NewRegexExpr(pattern string) (*RegexExpr, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern: %w", err)
	}
	return &RegexExpr{pattern: pattern, re: re}, nil
}

func (e *RegexExpr) Matches(s Subject) bool {
	return e.re.MatchString(s.Item.Name)
}

func (e *RegexExpr) String() string {
	return fmt.Sprintf("regex(/%s/)", e.pattern)
}

// KindExpr matches items of one kind
type KindExpr struct {
	kind model.ItemKind
}

func NewKindExpr(kind model.ItemKind) *KindExpr {
	return &KindExpr{kind: kind}
}

func (e *KindExpr) Matches(s Subject) bool {
	return s.Item.Kind == e.kind
}

func (e *KindExpr) String() string {
	return fmt.Sprintf("kind(%s)", e.kind)
}

// DepthExpr compares the nesting level of the node
type DepthExpr struct {
	op    ComparisonOp
	value int
}

func NewDepthExpr(op ComparisonOp, value int) *DepthExpr {
	return &DepthExpr{op: op, value: value}
}

func (e *DepthExpr) Matches(s Subject) bool {
	return compare(int(s.Level), e.op, e.value)
}

func (e *DepthExpr) String() string {
	return fmt.Sprintf("depth(%s%d)", e.op, e.value)
}

// SelectedExpr matches on the selection state
type SelectedExpr struct {
	selected bool
}

func NewSelectedExpr(selected bool) *SelectedExpr {
	return &SelectedExpr{selected: selected}
}

func (e *SelectedExpr) Matches(s Subject) bool {
	return s.Selected == e.selected
}

func (e *SelectedExpr) String() string {
	return fmt.Sprintf("selected(%t)", e.selected)
}

// AlwaysMatchExpr matches all items (for empty queries)
type AlwaysMatchExpr struct{}

func NewAlwaysMatchExpr() *AlwaysMatchExpr {
	return &AlwaysMatchExpr{}
}

func (e *AlwaysMatchExpr) Matches(Subject) bool {
	return true
}

func (e *AlwaysMatchExpr) String() string {
	return "always-match"
}

// AndExpr matches if both left and right match
type AndExpr struct {
	left  FilterExpr
	right FilterExpr
}

func NewAndExpr(left, right FilterExpr) *AndExpr {
	return &AndExpr{left: left, right: right}
}

func (e *AndExpr) Matches(s Subject) bool {
	return e.left.Matches(s) && e.right.Matches(s)
}

func (e *AndExpr) String() string {
	return fmt.Sprintf("and(%s, %s)", e.left, e.right)
}

// OrExpr matches if either left or right matches
type OrExpr struct {
	left  FilterExpr
	right FilterExpr
}

func NewOrExpr(left, right FilterExpr) *OrExpr {
	return &OrExpr{left: left, right: right}
}

func (e *OrExpr) Matches(s Subject) bool {
	return e.left.Matches(s) || e.right.Matches(s)
}

func (e *OrExpr) String() string {
	return fmt.Sprintf("or(%s, %s)", e.left, e.right)
}

// NotExpr negates an expression
type NotExpr struct {
	expr FilterExpr
}

func NewNotExpr(expr FilterExpr) *NotExpr {
	return &NotExpr{expr: expr}
}

func (e *NotExpr) Matches(s Subject) bool {
	return !e.expr.Matches(s)
}

func (e *NotExpr) String() string {
	return fmt.Sprintf("not(%s)", e.expr)
}

func compare(a int, op ComparisonOp, b int) bool {
	switch op {
	case OpEqual:
		return a == b
	case OpNotEqual:
		return a != b
	case OpGreater:
		return a > b
	case OpGreaterEqual:
		return a >= b
	case OpLess:
		return a < b
	case OpLessEqual:
		return a <= b
	}
	return false
}

// Rank orders items by how well their names fuzzy-match term, best first.
// Items that don't match are left out; ties keep the input order.
func Rank(term string, items []model.DisplayedItem) []model.DisplayedItem {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	ranks := fuzzy.RankFindFold(term, names)
	slices.SortStableFunc(ranks, func(a, b fuzzy.Rank) int {
		if a.Distance != b.Distance {
			return a.Distance - b.Distance
		}
		return a.OriginalIndex - b.OriginalIndex
	})

	result := make([]model.DisplayedItem, 0, len(ranks))
	for _, r := range ranks {
		result = append(result, items[r.OriginalIndex])
	}
	return result
}
