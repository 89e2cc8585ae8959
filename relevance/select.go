package relevance

import (
	"cmp"
	"slices"
)

// Scored pairs a record with its relevance score for the duration of one
// query. Key is the record's identity; candidates sharing a non-empty Key are
// collapsed to the first (best-ranked) occurrence.
type Scored[T any] struct {
	Item  T
	Key   string
	Score float64
}

// Rank scores every item and returns the pairs in input order.
func Rank[T any](items []T, key func(T) string, score func(T) float64) []Scored[T] {
	scored := make([]Scored[T], len(items))
	for i, item := range items {
		scored[i] = Scored[T]{Item: item, Key: key(item), Score: score(item)}
	}
	return scored
}

// Select returns at most limit items ordered by descending score.
//
// When at least limit candidates score >= threshold, the best limit of those
// are returned. Otherwise the best limit candidates are returned regardless
// of score, so a non-empty batch never yields an empty page. Ties keep the
// input order. Scores are not part of the result.
func Select[T any](scored []Scored[T], limit int, threshold float64) []T {
	if limit <= 0 || len(scored) == 0 {
		return []T{}
	}

	ranked := slices.Clone(scored)
	slices.SortStableFunc(ranked, func(a, b Scored[T]) int {
		return cmp.Compare(b.Score, a.Score)
	})
	ranked = dedupe(ranked)

	// Sorted descending, so high-relevance candidates form a prefix.
	high := 0
	for high < len(ranked) && ranked[high].Score >= threshold {
		high++
	}

	if high >= limit {
		return items(ranked[:limit])
	}
	return items(ranked[:min(limit, len(ranked))])
}

func dedupe[T any](ranked []Scored[T]) []Scored[T] {
	seen := make(map[string]struct{}, len(ranked))
	out := ranked[:0]
	for _, s := range ranked {
		if s.Key != "" {
			if _, ok := seen[s.Key]; ok {
				continue
			}
			seen[s.Key] = struct{}{}
		}
		out = append(out, s)
	}
	return out
}

func items[T any](scored []Scored[T]) []T {
	out := make([]T, len(scored))
	for i, s := range scored {
		out[i] = s.Item
	}
	return out
}
