// Package numbering computes the hierarchical dotted numbers assigned to
// agenda items ("1", "1.1", "1.1.1") and orders items by them.
//
// Numbers are strings on purpose: "1.10" and "1.1" are distinct paths and
// must never collapse the way floats would. Allocation is max-based per
// sibling group, so numbers freed by deletion are not reused and gaps are
// not backfilled.
package numbering

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mduarte/ata/internal/domain"
)

// NextRootNumber returns the next number for a root item: one past the
// highest existing dot-free number, or 1 when no root items exist.
// Unparsable numbers count as 0.
func NextRootNumber(items []*domain.Item) int {
	max := 0
	found := false
	for _, it := range items {
		if strings.Contains(it.Number, ".") {
			continue
		}
		found = true
		if n := parseSegment(it.Number); n > max {
			max = n
		}
	}
	if !found {
		return 1
	}
	return max + 1
}

// NextChildNumber returns the next number for a child of parent, formed as
// parent.Number + "." + (highest existing child suffix + 1). The first
// child of a parent gets suffix 1. Unparsable suffixes count as 0.
func NextChildNumber(items []*domain.Item, parent *domain.Item) string {
	prefix := parent.Number + "."
	max := 0
	found := false
	for _, it := range items {
		if it.ParentID == nil || *it.ParentID != parent.ID {
			continue
		}
		found = true
		suffix := strings.TrimPrefix(it.Number, prefix)
		if n := parseSegment(suffix); n > max {
			max = n
		}
	}
	if !found {
		return prefix + "1"
	}
	return prefix + strconv.Itoa(max+1)
}

// Compare orders two dotted numbers segment by segment, numerically.
// A missing segment counts as 0, so "1" sorts before "1.1", and "1.10"
// sorts after "1.2" (numeric, not lexicographic). Malformed segments count
// as 0 rather than failing.
func Compare(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		va, vb := 0, 0
		if i < len(as) {
			va = parseSegment(as[i])
		}
		if i < len(bs) {
			vb = parseSegment(bs[i])
		}
		if va != vb {
			if va < vb {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Sorted returns a copy of items in hierarchical number order. The sort is
// stable, so items with equal numbers keep their relative positions, and
// sorting an already sorted list is a no-op.
func Sorted(items []*domain.Item) []*domain.Item {
	out := make([]*domain.Item, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return Compare(out[i].Number, out[j].Number) < 0
	})
	return out
}

// parseSegment parses one number segment, treating anything unparsable as 0.
func parseSegment(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
