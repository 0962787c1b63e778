// Package helpers holds small utilities shared by services.
package helpers

import "slices"

// UniqueIDs drops repeated ids, keeping the first occurrence of each.
func UniqueIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// MissingID returns the first id in want that is not in found.
func MissingID(want, found []int64) (int64, bool) {
	for _, id := range want {
		if !slices.Contains(found, id) {
			return id, true
		}
	}
	return 0, false
}
