package chat

import (
	"regexp"
	"strings"
)

const (
	// maxExpansionQueries bounds the lexical-variant searches issued when
	// decomposition recall is insufficient.
	maxExpansionQueries = 8

	// minResultsBeforeExpansion is the deduplicated result count below which
	// expansion queries are issued.
	minResultsBeforeExpansion = 3
)

var (
	// properNounPattern matches runs of 2-4 consecutive capitalized words,
	// candidate names worth searching on their own.
	properNounPattern = regexp.MustCompile(`[A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3}`)

	// whPrefixPattern strips a leading wh-phrase plus auxiliary verb.
	whPrefixPattern = regexp.MustCompile(`(?i)^(?:who|what|where|when|how)\s+(?:is|are|was|were|does|do|did)\s+`)

	tokenSplitPattern = regexp.MustCompile(`[^A-Za-z]+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "of": {}, "for": {}, "to": {}, "in": {},
	"on": {}, "at": {}, "and": {}, "or": {}, "with": {}, "about": {},
	"who": {}, "what": {}, "where": {}, "when": {}, "how": {}, "is": {},
	"are": {}, "was": {}, "were": {}, "does": {}, "do": {}, "did": {},
	"whats": {}, "who's": {}, "what's": {},
}

// BuildExpansions derives lexical search variants from a low-recall
// question: proper-noun runs, a wh-stripped form, an organization-tagged
// form when the organization is not already mentioned, and stop-word
// filtered 1-grams and adjacent 2-grams. Deduplicated and capped at
// maxExpansionQueries.
func BuildExpansions(question, orgName string) []string {
	normalized := strings.TrimSpace(whitespacePattern.ReplaceAllString(question, " "))

	var expansions []string

	expansions = append(expansions, properNounPattern.FindAllString(normalized, -1)...)

	stripped := whPrefixPattern.ReplaceAllString(normalized, "")
	if stripped != "" && stripped != normalized {
		expansions = append(expansions, stripped)
	}

	if orgName != "" && !strings.Contains(strings.ToLower(normalized), strings.ToLower(orgName)) {
		base := stripped
		if base == "" {
			base = normalized
		}
		expansions = append(expansions, base+" "+orgName)
	}

	tokens := make([]string, 0)
	for _, token := range tokenSplitPattern.Split(normalized, -1) {
		if len(token) <= 2 {
			continue
		}
		if _, stop := stopWords[strings.ToLower(token)]; stop {
			continue
		}
		tokens = append(tokens, token)
	}

	for i, token := range tokens {
		expansions = append(expansions, token)
		if i+1 < len(tokens) {
			expansions = append(expansions, token+" "+tokens[i+1])
		}
	}

	return capQueries(dedupe(expansions), maxExpansionQueries)
}
