// Package strings holds small list helpers shared by config parsing and lookups.
package strings

import (
	"strings"
)

// Unique drops repeated values, keeping the first occurrence of each.
func Unique[K comparable](values []K) []K {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[K]struct{}, len(values))
	out := make([]K, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// SplitList splits a comma separated value, trimming each element and
// dropping empties and duplicates. Order is preserved.
//
//	SplitList(" kafka-1:9092, ,kafka-2:9092,kafka-1:9092")
//	// []string{"kafka-1:9092", "kafka-2:9092"}
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return Unique(out)
}
