package chat

import (
	"fmt"
	"strings"

	"github.com/whymaker/chat-backend/internal/entity"
	"github.com/whymaker/chat-backend/internal/pkg/structvalue"
)

// Flat-shape field names worth collecting directly.
var snippetFieldCandidates = []string{"snippet", "content", "text", "title", "description"}

// textCarrierKey limits the typed-value tree walk to top-level fields that
// plausibly carry answer text, so unrelated structured metadata is not
// pulled into the grounding context.
func textCarrierKey(key string) bool {
	lower := strings.ToLower(key)
	return strings.Contains(lower, "snippet") ||
		strings.Contains(lower, "extract") ||
		strings.Contains(lower, "text") ||
		strings.Contains(lower, "content")
}

// ExtractSnippets normalizes a result document's derived payload into flat
// text snippets. It handles both payload shapes the index produces and
// never fails: a shape mismatch yields fewer (or zero) snippets.
func ExtractSnippets(doc entity.Document) []string {
	ds := doc.DerivedStructData
	if len(ds) == 0 {
		return nil
	}

	var out []string

	if fields, ok := ds["fields"].(map[string]any); ok {
		// Typed-value tree: collect string leaves beneath text-carrier keys.
		tree := structvalue.Decode(fields)
		for _, name := range tree.FieldNames() {
			if !textCarrierKey(name) {
				continue
			}
			if field, ok := tree.Field(name); ok {
				field.CollectStrings(&out)
			}
		}
	} else {
		// Flat mapping: direct string-valued candidate fields.
		for _, key := range snippetFieldCandidates {
			if s, ok := ds[key].(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
	}

	// Explicit structured carriers, read by their well-known sub-fields
	// regardless of the generic walk. Indexes vary in how they nest answer
	// text, so this redundancy is deliberate.
	out = append(out, carrierStrings(ds, "extractiveAnswers", "content")...)
	out = append(out, carrierStrings(ds, "snippets", "snippet")...)
	out = append(out, carrierStrings(ds, "extractiveSegments", "content")...)

	return out
}

func carrierStrings(ds map[string]any, field, subField string) []string {
	items, ok := ds[field].([]any)
	if !ok {
		return nil
	}

	var out []string
	for _, item := range items {
		value := structvalue.Decode(item)
		sub, ok := value.Field(subField)
		if !ok {
			continue
		}
		if s, ok := sub.StringVal(); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// FallbackDescriptor builds a traceability line for a document that yielded
// no snippet material, from its title (or resource name) and URI. Empty
// when the document has neither.
func FallbackDescriptor(doc entity.Document) string {
	title, _ := doc.StructData["title"].(string)
	if title == "" {
		title = doc.Name
	}
	if title == "" {
		return ""
	}
	return fmt.Sprintf("From %s: %s", title, doc.URI)
}
