package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/whymaker/chat-backend/internal/entity"
)

func TestExtractSnippetsFlatShape(t *testing.T) {
	doc := entity.Document{
		ID: "doc-1",
		DerivedStructData: map[string]any{
			"snippet": "Robotics kits ship within two weeks.",
			"title":   "Shipping FAQ",
			"link":    "gs://docs/shipping.pdf",
		},
	}

	snippets := ExtractSnippets(doc)

	assert.Equal(t, []string{
		"Robotics kits ship within two weeks.",
		"Shipping FAQ",
	}, snippets)
}

func TestExtractSnippetsTypedTree(t *testing.T) {
	doc := entity.Document{
		ID: "doc-2",
		DerivedStructData: map[string]any{
			"fields": map[string]any{
				"snippets": map[string]any{
					"listValue": map[string]any{
						"values": []any{
							map[string]any{
								"structValue": map[string]any{
									"fields": map[string]any{
										"snippet": map[string]any{"stringValue": "Lisa leads partnerships."},
									},
								},
							},
						},
					},
				},
				"link": map[string]any{"stringValue": "gs://docs/team.pdf"},
			},
		},
	}

	snippets := ExtractSnippets(doc)

	assert.Equal(t, []string{"Lisa leads partnerships."}, snippets)
}

func TestExtractSnippetsExplicitCarriers(t *testing.T) {
	doc := entity.Document{
		ID: "doc-3",
		DerivedStructData: map[string]any{
			"extractiveAnswers": []any{
				map[string]any{"content": "Workshops cost $500 per day."},
			},
			"snippets": []any{
				map[string]any{"snippet": "Professional development overview."},
			},
			"extractiveSegments": []any{
				map[string]any{"content": "Full-day sessions include materials."},
			},
		},
	}

	snippets := ExtractSnippets(doc)

	assert.Contains(t, snippets, "Workshops cost $500 per day.")
	assert.Contains(t, snippets, "Professional development overview.")
	assert.Contains(t, snippets, "Full-day sessions include materials.")
}

func TestExtractSnippetsMalformedPayload(t *testing.T) {
	cases := map[string]map[string]any{
		"nil payload":        nil,
		"wrong types":        {"fields": 42, "extractiveAnswers": "not-a-list", "snippet": 7},
		"empty carriers":     {"extractiveAnswers": []any{}, "snippets": []any{nil, "bare"}},
		"null typed leaves":  {"fields": map[string]any{"snippet": map[string]any{"nullValue": nil}}},
		"blank flat snippet": {"snippet": "   "},
	}

	for name, ds := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Empty(t, ExtractSnippets(entity.Document{DerivedStructData: ds}))
		})
	}
}

func TestFallbackDescriptor(t *testing.T) {
	withTitle := entity.Document{
		URI:        "gs://docs/pricing.pdf",
		StructData: map[string]any{"title": "Pricing Guide"},
	}
	assert.Equal(t, "From Pricing Guide: gs://docs/pricing.pdf", FallbackDescriptor(withTitle))

	withName := entity.Document{Name: "documents/123", URI: "gs://docs/x.pdf"}
	assert.Equal(t, "From documents/123: gs://docs/x.pdf", FallbackDescriptor(withName))

	assert.Empty(t, FallbackDescriptor(entity.Document{URI: "gs://docs/x.pdf"}))
}
