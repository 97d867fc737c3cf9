package chat

import (
	"regexp"
	"strings"
)

// maxSearchQueries bounds the number of decomposition-derived search calls
// per request.
const maxSearchQueries = 4

var (
	// questionSplitPattern marks clause boundaries: a question mark followed
	// by a continuation phrase, or a bare coordinating conjunction.
	questionSplitPattern = regexp.MustCompile(`(?i)(?:\?\s*(?:and|also|what about|how about|who is|what is|where is|when is))|(?:\band\b|\bor\b|\balso\b)`)

	// fillerPrefixPattern strips leading connective filler from fragments.
	fillerPrefixPattern = regexp.MustCompile(`(?i)^(?:and|or|also|what about|how about)\s*`)

	// subQuestionPattern finds self-contained wh-questions embedded in the
	// input.
	subQuestionPattern = regexp.MustCompile(`(?i)(?:who|what|where|when|how|why)\s+[^?]+\?`)
)

// DecomposeQuestion splits a multi-part question into search queries. The
// unmodified question is always the first entry; a single-clause question
// decomposes to exactly itself. The result is deduplicated (case-sensitive)
// and capped at maxSearchQueries.
func DecomposeQuestion(question string) []string {
	queries := []string{question}

	parts := questionSplitPattern.Split(question, -1)
	fragments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); len(part) > 10 {
			fragments = append(fragments, part)
		}
	}

	if len(fragments) > 1 {
		for _, fragment := range fragments {
			clean := strings.TrimSpace(fillerPrefixPattern.ReplaceAllString(fragment, ""))
			if clean != "" && !strings.HasSuffix(clean, "?") {
				clean += "?"
			}
			if len(clean) > 15 {
				queries = append(queries, clean)
			}
		}
	}

	for _, sub := range subQuestionPattern.FindAllString(question, -1) {
		sub = strings.TrimSpace(sub)
		if sub != "" && !contains(queries, sub) {
			queries = append(queries, sub)
		}
	}

	return capQueries(dedupe(queries), maxSearchQueries)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// dedupe removes duplicates preserving first-seen order.
func dedupe(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, item := range list {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

func capQueries(list []string, limit int) []string {
	if len(list) > limit {
		return list[:limit]
	}
	return list
}
