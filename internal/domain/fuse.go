package domain

import "sort"

// FuseStreams merges readings from multiple sources into a single slice
// ordered by timestamp. The sort is stable so readings sharing a timestamp
// keep their per-stream order.
func FuseStreams(streams ...[]Reading) []Reading {
	var total int
	for _, s := range streams {
		total += len(s)
	}

	fused := make([]Reading, 0, total)
	for _, s := range streams {
		fused = append(fused, s...)
	}

	sort.SliceStable(fused, func(i, j int) bool {
		return fused[i].Timestamp.Before(fused[j].Timestamp)
	})
	return fused
}

// CountBySource tallies fused readings per source name.
func CountBySource(readings []Reading) map[string]int {
	counts := make(map[string]int)
	for i := range readings {
		counts[readings[i].Source]++
	}
	return counts
}
