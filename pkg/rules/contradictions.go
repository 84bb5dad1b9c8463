package rules

import (
	"fmt"
	"strings"

	"github.com/kukaryambik/prunepath/pkg/paths"
	"github.com/kukaryambik/prunepath/pkg/util"
)

// Contradiction is a pair of rules whose combined intent is ambiguous.
type Contradiction struct {
	Keep string
	// Other is the conflicting path; OtherIsKeep tells which list it came from.
	Other       string
	OtherIsKeep bool
}

func (c Contradiction) String() string {
	label := "Delete"
	if c.OtherIsKeep {
		label = "Keep"
	}
	return fmt.Sprintf("Keep: %q, %s: %q", c.Keep, label, c.Other)
}

// FindContradictions reports keep/keep pairs where one path contains the
// other, and keep/delete pairs where the keep path equals or lies inside a
// delete path. A delete path nested in a kept directory is not reported:
// deletes run first and the kept directory survives.
//
// Containment is by whole path segments, not by string prefix: "lib"
// contains "lib/x" but not "library/file", so that pair is not reported.
func FindContradictions(keep, del []string) []Contradiction {
	keep = normalizeAll(keep)
	del = normalizeAll(del)

	var found []Contradiction
	for i, a := range keep {
		for _, b := range keep[i+1:] {
			if paths.Within(b, a) || paths.Within(a, b) {
				found = append(found, Contradiction{Keep: a, Other: b, OtherIsKeep: true})
			}
		}
	}

	for _, k := range keep {
		for _, d := range del {
			if paths.Within(k, d) {
				found = append(found, Contradiction{Keep: k, Other: d})
			}
		}
	}
	return found
}

// CheckContradictions wraps FindContradictions into a single error listing
// every pair found.
func CheckContradictions(keep, del []string) error {
	found := FindContradictions(keep, del)
	if len(found) == 0 {
		return nil
	}

	pairs := make([]string, len(found))
	for i, c := range found {
		pairs[i] = c.String()
	}
	return newError(KindContradiction, "Contradictory paths found: %s", strings.Join(pairs, ", "))
}

func normalizeAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		out = append(out, paths.Normalize(p))
	}
	return util.UniqString(out)
}
