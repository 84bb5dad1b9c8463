package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindContradictions(t *testing.T) {
	tests := []struct {
		name string
		keep []string
		del  []string
		want []Contradiction
	}{
		{
			name: "disjoint",
			keep: []string{"a/b", "c"},
			del:  []string{"d", "a/bc"},
		},
		{
			name: "keep equals delete",
			keep: []string{"a/b"},
			del:  []string{"a/b"},
			want: []Contradiction{{Keep: "a/b", Other: "a/b"}},
		},
		{
			name: "keep inside delete",
			keep: []string{"path/to/keep/nested.txt"},
			del:  []string{"path/to/keep"},
			want: []Contradiction{{Keep: "path/to/keep/nested.txt", Other: "path/to/keep"}},
		},
		{
			name: "delete inside keep is allowed",
			keep: []string{"path/to/keep"},
			del:  []string{"path/to/keep/nested.txt"},
		},
		{
			name: "nested keeps",
			keep: []string{"a", "b", "a/x"},
			want: []Contradiction{{Keep: "a", Other: "a/x", OtherIsKeep: true}},
		},
		{
			name: "sibling prefix is not containment",
			keep: []string{"lib", "library/file"},
		},
		{
			name: "normalized before comparison",
			keep: []string{"./a/b/", "/a/b"},
			del:  []string{"a//b"},
			want: []Contradiction{{Keep: "a/b", Other: "a/b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindContradictions(tt.keep, tt.del))
		})
	}
}

// Swapping the roles of a nested pair flips whether it contradicts.
func TestFindContradictions_Direction(t *testing.T) {
	pairs := [][2]string{
		{"x", "x/y"},
		{"node_modules/lib", "node_modules/lib/README.md"},
		{"a/b", "a/b/c/d"},
	}
	for _, p := range pairs {
		outer, inner := p[0], p[1]
		assert.Empty(t, FindContradictions([]string{outer}, []string{inner}), "keep %s delete %s", outer, inner)
		assert.NotEmpty(t, FindContradictions([]string{inner}, []string{outer}), "keep %s delete %s", inner, outer)
	}
}

func TestCheckContradictions(t *testing.T) {
	assert.NoError(t, CheckContradictions([]string{"a"}, []string{"b"}))

	err := CheckContradictions([]string{"a", "a/b"}, []string{"a/b/c", "a"})
	assert.ErrorIs(t, err, ErrContradiction)
	assert.EqualError(t, err,
		`Contradictory paths found: Keep: "a", Keep: "a/b", Keep: "a", Delete: "a", Keep: "a/b", Delete: "a"`)
}
