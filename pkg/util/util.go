package util

import (
	"reflect"
)

// Coalesce returns the first non-zero value.
func Coalesce[T any](vals ...T) T {
	var zero T
	for _, v := range vals {
		r := reflect.ValueOf(v)
		if r.IsValid() && !r.IsZero() {
			return v
		}
	}
	return zero
}

// UniqString creates an array of string with unique values.
func UniqString(a []string) []string {
	var (
		length  = len(a)
		seen    = make(map[string]struct{}, length)
		results = make([]string, 0)
	)

	for i := 0; i < length; i++ {
		v := a[i]

		if _, ok := seen[v]; ok {
			continue
		}

		seen[v] = struct{}{}
		results = append(results, v)
	}

	return results
}
