package metrics

import "sort"

// LabelCount is one row of a per-label breakdown (status group or error kind).
type LabelCount struct {
	Label string
	Count int
}

// SortedCounts converts a label->count map into rows sorted by descending
// count, then by label for stability.
func SortedCounts(counts map[string]int) []LabelCount {
	if len(counts) == 0 {
		return nil
	}
	rows := make([]LabelCount, 0, len(counts))
	for label, count := range counts {
		rows = append(rows, LabelCount{Label: label, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count == rows[j].Count {
			return rows[i].Label < rows[j].Label
		}
		return rows[i].Count > rows[j].Count
	})
	return rows
}
