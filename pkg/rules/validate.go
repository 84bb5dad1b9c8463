package rules

import (
	"slices"

	"github.com/kukaryambik/prunepath/pkg/paths"
)

// Validate checks the shape of a prunePath block against the declared
// functions. Checks run in a fixed order and stop at the first failure;
// a nil RuleSet means the block is absent.
func Validate(rs *RuleSet, functions []string) error {
	if rs == nil {
		return newError(KindConfigMissing, "prunePath configuration is missing from custom")
	}

	if len(rs.Keys) == 0 || (rs.Keep == nil && rs.Delete == nil) {
		return newError(KindEmptyConfig, "At least one of %s or %s must exist in prunePath", KeyKeep, KeyDelete)
	}

	var invalid []string
	for _, k := range rs.Keys {
		if k != KeyKeep && k != KeyDelete {
			invalid = append(invalid, k)
		}
	}
	if len(invalid) > 0 {
		return newError(KindInvalidKey, "Invalid key(s) in prunePath: %s", joinNames(invalid))
	}

	if isList(rs.Keep) || isList(rs.Delete) {
		return newError(KindLegacyShape,
			"%s and %s must be mappings keyed by %q or function names, e.g. %s: {%s: [...]}",
			KeyKeep, KeyDelete, TargetAll, KeyKeep, TargetAll)
	}

	if allWithOthers(rs.Keep) || allWithOthers(rs.Delete) {
		return newError(KindAllExclusivity,
			"The '%s' keyword in %s or %s cannot be used alongside specific function paths. "+
				"Please use '%s' alone or specify individual functions.",
			TargetAll, KeyKeep, KeyDelete, TargetAll)
	}

	if len(functions) == 0 {
		return newError(KindNoTargets,
			"No functions found in service functions. "+
				"Please add at least one function in the 'functions' section of your configuration file.")
	}

	for _, c := range []struct {
		key string
		cat *Category
	}{{KeyKeep, rs.Keep}, {KeyDelete, rs.Delete}} {
		var unknown []string
		for _, target := range c.cat.Keys() {
			if target != TargetAll && !slices.Contains(functions, target) {
				unknown = append(unknown, target)
			}
		}
		if len(unknown) > 0 {
			return newError(KindUnknownTarget, "Invalid function name(s) in %s: %s", c.key, joinNames(unknown))
		}
	}

	return nil
}

// CheckPaths rejects rule groups without paths and paths that point at the
// package root or outside of it. Keep is checked before delete.
func CheckPaths(rs *RuleSet) error {
	for _, cat := range []*Category{rs.Keep, rs.Delete} {
		for _, target := range cat.Keys() {
			if len(cat.Targets[target]) == 0 {
				return newError(KindEmptyValue, "Empty value for key: %s", target)
			}
		}
	}

	for _, cat := range []*Category{rs.Keep, rs.Delete} {
		if cat == nil {
			continue
		}
		raw := cat.List
		for _, target := range cat.Order {
			raw = append(raw, cat.Targets[target]...)
		}
		for _, p := range raw {
			if err := CheckPath(p); err != nil {
				return err
			}
		}
	}
	return nil
}

// CheckPath rejects a single rule path that is empty, names the package
// root or points outside of it.
func CheckPath(p string) error {
	if p == "" || p == "/" || paths.Normalize(p) == "" {
		return newError(KindInvalidPath, "Empty path or root path is not allowed")
	}
	if paths.Escapes(p) {
		return EscapesRoot(p)
	}
	return nil
}

func isList(c *Category) bool {
	return c != nil && c.Kind == KindList
}

func allWithOthers(c *Category) bool {
	keys := c.Keys()
	return slices.Contains(keys, TargetAll) && len(keys) > 1
}
