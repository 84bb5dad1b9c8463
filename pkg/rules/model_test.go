package rules

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryPaths(t *testing.T) {
	all := NewTargets().Set(TargetAll, "./a/b/", "a/b", "c")
	perFn := NewTargets().Set("api", "x", "y").Set("worker", "y", "z")

	assert.Equal(t, []string{"a/b", "c"}, all.Paths("api"))
	assert.Equal(t, []string{"a/b", "c"}, all.Paths(TargetAll))

	assert.Equal(t, []string{"x", "y"}, perFn.Paths("api"))
	assert.Equal(t, []string{"y", "z"}, perFn.Paths("worker"))
	assert.Empty(t, perFn.Paths("other"))
	assert.Equal(t, []string{"x", "y", "z"}, perFn.Paths(TargetAll))

	assert.Equal(t, []string{"a"}, NewList("/a", "a/").Paths("api"))

	var missing *Category
	assert.Nil(t, missing.Paths("api"))
}

func TestRuleSetForTarget(t *testing.T) {
	rs := &RuleSet{
		Keys:   []string{KeyKeep, KeyDelete},
		Keep:   NewTargets().Set(TargetAll, "keep/me"),
		Delete: NewTargets().Set("worker", "drop/me"),
	}

	api := rs.ForTarget("api")
	assert.Equal(t, UnitRules{Target: "api", Keep: []string{"keep/me"}, Delete: []string{}}, api)

	worker := rs.ForTarget("worker")
	assert.Equal(t, []string{"drop/me"}, worker.Delete)
	assert.False(t, worker.Empty())

	assert.True(t, (&RuleSet{}).ForTarget("api").Empty())
	assert.True(t, rs.Has(KeyDelete))
	assert.False(t, rs.Has("other"))
}

func TestCategoryKeysKeepOrder(t *testing.T) {
	c := NewTargets().Set("b", "1").Set("a", "2").Set("b", "3")
	assert.Equal(t, []string{"b", "a"}, c.Keys())
	assert.Equal(t, []string{"3"}, c.Targets["b"])
}

func TestErrorIs(t *testing.T) {
	err := fmt.Errorf("unit api: %w", PathNotFound("/tmp/x"))
	assert.True(t, errors.Is(err, ErrPathNotFound))
	assert.False(t, errors.Is(err, ErrContradiction))
	assert.Equal(t, "unit api: File not found: /tmp/x", err.Error())
	assert.Equal(t, "PathNotFound", KindPathNotFound.String())
}
