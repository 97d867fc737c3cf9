package entity

// Search request/response shapes of the document index's v1alpha REST
// surface. DerivedStructData is deliberately loose: depending on the index
// configuration it arrives either as a flat field mapping or as a
// protobuf-Struct-style typed-value tree.

type SearchRequest struct {
	Query               string               `json:"query"`
	PageSize            int                  `json:"pageSize"`
	LanguageCode        string               `json:"languageCode,omitempty"`
	QueryExpansionSpec  *QueryExpansionSpec  `json:"queryExpansionSpec,omitempty"`
	SpellCorrectionSpec *SpellCorrectionSpec `json:"spellCorrectionSpec,omitempty"`
	ContentSearchSpec   *ContentSearchSpec   `json:"contentSearchSpec,omitempty"`
	UserInfo            *UserInfo            `json:"userInfo,omitempty"`
}

type QueryExpansionSpec struct {
	Condition string `json:"condition"`
}

type SpellCorrectionSpec struct {
	Mode string `json:"mode"`
}

type ContentSearchSpec struct {
	SnippetSpec           *SnippetSpec           `json:"snippetSpec,omitempty"`
	ExtractiveContentSpec *ExtractiveContentSpec `json:"extractiveContentSpec,omitempty"`
}

type SnippetSpec struct {
	ReturnSnippet   bool `json:"returnSnippet"`
	MaxSnippetCount int  `json:"maxSnippetCount"`
}

type ExtractiveContentSpec struct {
	MaxExtractiveAnswerCount  int `json:"maxExtractiveAnswerCount"`
	MaxExtractiveSegmentCount int `json:"maxExtractiveSegmentCount"`
	NumPreviousSegments       int `json:"numPreviousSegments"`
	NumNextSegments           int `json:"numNextSegments"`
}

type UserInfo struct {
	TimeZone string `json:"timeZone,omitempty"`
}

type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Summary *SearchSummary `json:"summary,omitempty"`
}

type SearchResult struct {
	Document Document `json:"document"`
}

type Document struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	URI               string         `json:"uri"`
	DerivedStructData map[string]any `json:"derivedStructData"`
	StructData        map[string]any `json:"structData"`
}

// Identity returns the key used for cross-query deduplication. Empty when
// the index returned a document without id or name.
func (d Document) Identity() string {
	if d.ID != "" {
		return d.ID
	}
	return d.Name
}

type SearchSummary struct {
	SummaryText string `json:"summaryText"`
}

// SearchTargetKind distinguishes the two addressing schemes of the index,
// plus an operator-supplied override path.
type SearchTargetKind string

const (
	TargetEngine    SearchTargetKind = "engine"
	TargetDataStore SearchTargetKind = "data-store"
	TargetOverride  SearchTargetKind = "override"
)

// SearchTarget is one addressable serving config of the document index.
type SearchTarget struct {
	Kind SearchTargetKind
	Path string
}

// SearchTargets holds the serving configs a request may address: a primary
// and, for engine-scoped primaries, an optional data-store fallback. No
// fallback exists when an explicit serving-config override is configured.
type SearchTargets struct {
	Primary  SearchTarget
	Fallback *SearchTarget
}
