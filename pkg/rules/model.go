package rules

import (
	"slices"

	"github.com/kukaryambik/prunepath/pkg/paths"
	"github.com/kukaryambik/prunepath/pkg/util"
)

const (
	// KeyKeep lists paths that survive pruning at their directory level.
	KeyKeep = "keep"
	// KeyDelete lists paths removed unconditionally.
	KeyDelete = "delete"
	// TargetAll applies a path list to every packaged unit.
	TargetAll = "all"
)

// CategoryKind tells which shape a category was written in.
type CategoryKind uint8

const (
	// KindTargets is the mapping form: target identifier -> paths.
	KindTargets CategoryKind = iota
	// KindList is the legacy flat list form, rejected by Validate.
	KindList
)

// Category is one of the keep/delete rule groups, resolved once at load time.
type Category struct {
	Kind CategoryKind

	// List holds the paths of a KindList category.
	List []string

	// Targets holds the paths of a KindTargets category; Order keeps the
	// mapping keys in the order they were written.
	Targets map[string][]string
	Order   []string
}

// RuleSet is the prunePath block of a service configuration.
type RuleSet struct {
	// Keys lists every key present in the block, known or not.
	Keys   []string
	Keep   *Category
	Delete *Category
}

// NewList returns a legacy flat-list category.
func NewList(p ...string) *Category {
	return &Category{Kind: KindList, List: p}
}

// NewTargets returns an empty mapping category.
func NewTargets() *Category {
	return &Category{Kind: KindTargets, Targets: make(map[string][]string)}
}

// Set assigns the paths for a target, recording key order on first use.
func (c *Category) Set(target string, p ...string) *Category {
	if c.Targets == nil {
		c.Targets = make(map[string][]string)
	}
	if _, ok := c.Targets[target]; !ok {
		c.Order = append(c.Order, target)
	}
	c.Targets[target] = p
	return c
}

// Keys returns the mapping keys in written order.
func (c *Category) Keys() []string {
	if c == nil || c.Kind != KindTargets {
		return nil
	}
	return slices.Clone(c.Order)
}

// Paths flattens the category for one target context and returns
// de-duplicated, normalized relative paths.
//
// The "all" context (one unit packaged together) is the union of every
// list in the mapping; a named target gets the "all" list when present,
// otherwise its own list.
func (c *Category) Paths(target string) []string {
	if c == nil {
		return nil
	}

	var raw []string
	switch {
	case c.Kind == KindList:
		raw = c.List
	case target == TargetAll:
		for _, k := range c.Order {
			raw = append(raw, c.Targets[k]...)
		}
	default:
		if all, ok := c.Targets[TargetAll]; ok {
			raw = all
		} else {
			raw = c.Targets[target]
		}
	}

	out := make([]string, 0, len(raw))
	for _, p := range raw {
		out = append(out, paths.Normalize(p))
	}
	return util.UniqString(out)
}

// Has reports whether the key is present in the block.
func (rs *RuleSet) Has(key string) bool {
	return rs != nil && slices.Contains(rs.Keys, key)
}

// UnitRules is the target-resolved path lists of one packaged unit.
type UnitRules struct {
	Target string
	Keep   []string
	Delete []string
}

// ForTarget resolves both categories for one target context.
func (rs *RuleSet) ForTarget(target string) UnitRules {
	return UnitRules{
		Target: target,
		Keep:   rs.Keep.Paths(target),
		Delete: rs.Delete.Paths(target),
	}
}

// Empty reports whether the unit has nothing to prune.
func (u UnitRules) Empty() bool {
	return len(u.Keep) == 0 && len(u.Delete) == 0
}
