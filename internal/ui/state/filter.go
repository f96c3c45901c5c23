package state

import (
	"strings"

	"github.com/atomicstack/tmux-popup-path/internal/completion"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// matchQuery strips what a label can never contain literally: surrounding
// blanks and a leading home shorthand.
func matchQuery(value string) string {
	trimmed := strings.TrimSpace(value)
	return strings.TrimPrefix(trimmed, "~")
}

// FilterItems narrows items to those whose label fuzzily contains query,
// falling back to a substring match on label or detail. When nothing matches the full list is kept so the user is never
// left looking at an empty picker while the generator still has answers.
func FilterItems(items []completion.Candidate, query string) []completion.Candidate {
	trimmed := matchQuery(query)
	if trimmed == "" {
		return CloneItems(items)
	}
	keys := make([]string, len(items))
	for i, item := range items {
		keys[i] = item.Label
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, keys)
	if len(ranks) > 0 {
		matches := make(map[int]struct{}, len(ranks))
		for _, rank := range ranks {
			matches[rank.OriginalIndex] = struct{}{}
		}
		filtered := make([]completion.Candidate, 0, len(matches))
		for idx, item := range items {
			if _, ok := matches[idx]; ok {
				filtered = append(filtered, item)
			}
		}
		if len(filtered) > 0 {
			return filtered
		}
	}
	lower := strings.ToLower(trimmed)
	filtered := make([]completion.Candidate, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Label), lower) || strings.Contains(strings.ToLower(item.Detail), lower) {
			filtered = append(filtered, item)
		}
	}
	if len(filtered) == 0 {
		return CloneItems(items)
	}
	return filtered
}

// BestMatchIndex returns the best index for the query among the provided items.
func BestMatchIndex(items []completion.Candidate, query string) int {
	if len(items) == 0 {
		return -1
	}
	trimmed := matchQuery(query)
	if trimmed == "" {
		return 0
	}
	lower := strings.ToLower(trimmed)
	for i, item := range items {
		if strings.EqualFold(item.Label, trimmed) {
			return i
		}
	}
	for i, item := range items {
		if strings.HasSuffix(strings.ToLower(item.Label), lower) {
			return i
		}
	}
	for i, item := range items {
		if strings.HasPrefix(strings.ToLower(item.Label), lower) {
			return i
		}
	}
	for i, item := range items {
		if strings.Contains(strings.ToLower(item.Label), lower) {
			return i
		}
	}
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, labels)
	if len(ranks) == 0 {
		return 0
	}
	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rank.Distance < best.Distance {
			best = rank
			continue
		}
		if rank.Distance == best.Distance && rank.OriginalIndex < best.OriginalIndex {
			best = rank
		}
	}
	if best.OriginalIndex < 0 || best.OriginalIndex >= len(items) {
		return 0
	}
	return best.OriginalIndex
}
