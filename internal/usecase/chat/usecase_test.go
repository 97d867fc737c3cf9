package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whymaker/chat-backend/internal/auth"
	"github.com/whymaker/chat-backend/internal/config"
	"github.com/whymaker/chat-backend/internal/entity"
	"golang.org/x/oauth2"
)

type fakeResolver struct {
	cred      *auth.Credential
	err       error
	gotTokens []*auth.UserToken
}

func (f *fakeResolver) Resolve(_ context.Context, userToken *auth.UserToken) (*auth.Credential, error) {
	f.gotTokens = append(f.gotTokens, userToken)
	if f.err != nil {
		return nil, f.err
	}
	return f.cred, nil
}

type searchCall struct {
	target entity.SearchTarget
	query  string
}

type fakeSearchConnector struct {
	targets *entity.SearchTargets
	search  func(target entity.SearchTarget, query string) (*entity.SearchResponse, error)
	calls   []searchCall
}

func (f *fakeSearchConnector) Targets() (*entity.SearchTargets, error) {
	return f.targets, nil
}

func (f *fakeSearchConnector) Search(_ context.Context, target entity.SearchTarget, query string, _ oauth2.TokenSource) (*entity.SearchResponse, error) {
	f.calls = append(f.calls, searchCall{target: target, query: query})
	return f.search(target, query)
}

type fakeLLMConnector struct {
	chunks       []entity.StreamChunk
	streamErr    error
	gotModel     string
	gotMessages  []entity.ModelMessage
	completeResp string
	completeErr  error
}

func (f *fakeLLMConnector) StreamAnswer(_ context.Context, model string, messages []entity.ModelMessage) (<-chan entity.StreamChunk, error) {
	f.gotModel = model
	f.gotMessages = messages
	if f.streamErr != nil {
		return nil, f.streamErr
	}

	out := make(chan entity.StreamChunk, len(f.chunks))
	for _, chunk := range f.chunks {
		out <- chunk
	}
	close(out)
	return out, nil
}

func (f *fakeLLMConnector) Complete(_ context.Context, _ string, _ []entity.ModelMessage, _ int, _ float32) (string, error) {
	return f.completeResp, f.completeErr
}

type passthroughExtractor struct{}

func (passthroughExtractor) Text(_ string, content []byte) string {
	return string(content)
}

func singleTarget() *entity.SearchTargets {
	return &entity.SearchTargets{
		Primary: entity.SearchTarget{Kind: entity.TargetEngine, Path: "projects/p/engines/e"},
	}
}

func docWithSnippet(id, snippet string) entity.SearchResult {
	return entity.SearchResult{Document: entity.Document{
		ID:                id,
		DerivedStructData: map[string]any{"snippet": snippet},
	}}
}

func newTestUsecase(search *fakeSearchConnector, llm *fakeLLMConnector) (*Usecase, *fakeResolver) {
	resolver := &fakeResolver{cred: &auth.Credential{
		Mode:   auth.ModeEndUser,
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok"}),
	}}

	uc := NewUsecase(
		resolver,
		search,
		llm,
		passthroughExtractor{},
		config.ChatConfig{OrgName: "WhyMaker"},
		config.FileUploadConfig{MaxFileCount: 4, MaxFileChars: 8000},
	)
	return uc, resolver
}

func collectStream(t *testing.T, stream *AnswerStream) string {
	t.Helper()
	var sb strings.Builder
	for {
		delta, ok := stream.Next()
		if !ok {
			return sb.String()
		}
		sb.WriteString(delta)
	}
}

func TestAnswerDeduplicatesAcrossQueries(t *testing.T) {
	snippet := "Lisa leads partnerships at WhyMaker."
	search := &fakeSearchConnector{
		targets: singleTarget(),
		search: func(entity.SearchTarget, string) (*entity.SearchResponse, error) {
			return &entity.SearchResponse{Results: []entity.SearchResult{
				docWithSnippet("doc-1", snippet),
			}}, nil
		},
	}
	llm := &fakeLLMConnector{chunks: []entity.StreamChunk{{Delta: "ok"}}}
	uc, _ := newTestUsecase(search, llm)

	stream, err := uc.Answer(context.Background(), &entity.ChatRequest{
		Question: "Who is Lisa Pitura and what is WhyMaker?",
	}, nil)
	require.NoError(t, err)
	collectStream(t, stream)

	require.NotEmpty(t, llm.gotMessages)
	system := llm.gotMessages[0].Content
	assert.Equal(t, 1, strings.Count(system, snippet),
		"document returned for every query must ground the context once")
}

func TestAnswerSkipsExpansionWhenEnoughResults(t *testing.T) {
	search := &fakeSearchConnector{
		targets: singleTarget(),
		search: func(entity.SearchTarget, string) (*entity.SearchResponse, error) {
			return &entity.SearchResponse{Results: []entity.SearchResult{
				docWithSnippet("doc-1", "first"),
				docWithSnippet("doc-2", "second"),
				docWithSnippet("doc-3", "third"),
			}}, nil
		},
	}
	llm := &fakeLLMConnector{chunks: []entity.StreamChunk{{Delta: "ok"}}}
	uc, _ := newTestUsecase(search, llm)

	stream, err := uc.Answer(context.Background(), &entity.ChatRequest{
		Question: "What is the refund policy?",
	}, nil)
	require.NoError(t, err)
	collectStream(t, stream)

	assert.Len(t, search.calls, 1, "expansion must not run with sufficient recall")
}

func TestAnswerExpandsOnLowRecall(t *testing.T) {
	search := &fakeSearchConnector{
		targets: singleTarget(),
		search: func(entity.SearchTarget, string) (*entity.SearchResponse, error) {
			return &entity.SearchResponse{}, nil
		},
	}
	llm := &fakeLLMConnector{chunks: []entity.StreamChunk{{Delta: "ok"}}}
	uc, _ := newTestUsecase(search, llm)

	question := "What is the refund policy?"
	stream, err := uc.Answer(context.Background(), &entity.ChatRequest{Question: question}, nil)
	require.NoError(t, err)
	collectStream(t, stream)

	expected := len(DecomposeQuestion(question)) + len(BuildExpansions(question, "WhyMaker"))
	assert.Len(t, search.calls, expected)
}

func TestAnswerUsesFallbackTarget(t *testing.T) {
	fallback := entity.SearchTarget{Kind: entity.TargetDataStore, Path: "projects/p/dataStores/d"}
	search := &fakeSearchConnector{
		targets: &entity.SearchTargets{
			Primary:  entity.SearchTarget{Kind: entity.TargetEngine, Path: "projects/p/engines/e"},
			Fallback: &fallback,
		},
		search: func(target entity.SearchTarget, _ string) (*entity.SearchResponse, error) {
			if target.Kind == entity.TargetEngine {
				return nil, fmt.Errorf("search: %w", entity.ErrTargetNotFound)
			}
			return &entity.SearchResponse{Results: []entity.SearchResult{
				docWithSnippet("doc-1", "from fallback"),
				docWithSnippet("doc-2", "more"),
				docWithSnippet("doc-3", "even more"),
			}}, nil
		},
	}
	llm := &fakeLLMConnector{chunks: []entity.StreamChunk{{Delta: "ok"}}}
	uc, _ := newTestUsecase(search, llm)

	stream, err := uc.Answer(context.Background(), &entity.ChatRequest{
		Question: "What is the refund policy?",
	}, nil)
	require.NoError(t, err)
	collectStream(t, stream)

	require.Len(t, search.calls, 2)
	assert.Equal(t, entity.TargetDataStore, search.calls[1].target.Kind)
	assert.Contains(t, llm.gotMessages[0].Content, "from fallback")
}

func TestAnswerStreamsDeltas(t *testing.T) {
	search := &fakeSearchConnector{
		targets: singleTarget(),
		search: func(entity.SearchTarget, string) (*entity.SearchResponse, error) {
			return &entity.SearchResponse{Results: []entity.SearchResult{
				docWithSnippet("doc-1", "a"),
				docWithSnippet("doc-2", "b"),
				docWithSnippet("doc-3", "c"),
			}}, nil
		},
	}
	llm := &fakeLLMConnector{chunks: []entity.StreamChunk{{Delta: "Hello "}, {Delta: "world"}}}
	uc, _ := newTestUsecase(search, llm)

	stream, err := uc.Answer(context.Background(), &entity.ChatRequest{
		Question: "What is the refund policy?",
		Model:    "o3-mini",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Hello world", collectStream(t, stream))
	assert.Equal(t, StreamClosed, stream.State())
	assert.NoError(t, stream.Err())
	assert.Equal(t, "o3-mini", llm.gotModel)
}

func TestAnswerStreamError(t *testing.T) {
	search := &fakeSearchConnector{
		targets: singleTarget(),
		search: func(entity.SearchTarget, string) (*entity.SearchResponse, error) {
			return &entity.SearchResponse{Results: []entity.SearchResult{
				docWithSnippet("doc-1", "a"),
				docWithSnippet("doc-2", "b"),
				docWithSnippet("doc-3", "c"),
			}}, nil
		},
	}
	llm := &fakeLLMConnector{chunks: []entity.StreamChunk{
		{Delta: "partial"},
		{Err: fmt.Errorf("%w: connection reset", entity.ErrStreamInterrupted)},
	}}
	uc, _ := newTestUsecase(search, llm)

	stream, err := uc.Answer(context.Background(), &entity.ChatRequest{
		Question: "What is the refund policy?",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "partial", collectStream(t, stream))
	assert.Equal(t, StreamErrored, stream.State())
	assert.ErrorIs(t, stream.Err(), entity.ErrStreamInterrupted)
}

func TestAnswerMissingCredentials(t *testing.T) {
	search := &fakeSearchConnector{targets: singleTarget()}
	llm := &fakeLLMConnector{}
	uc, resolver := newTestUsecase(search, llm)
	resolver.err = entity.ErrMissingCredentials

	_, err := uc.Answer(context.Background(), &entity.ChatRequest{
		Question: "What is the refund policy?",
	}, nil)

	assert.ErrorIs(t, err, entity.ErrMissingCredentials)
	assert.Empty(t, search.calls, "no search may run without credentials")
}

func TestAnswerIncludesUploads(t *testing.T) {
	search := &fakeSearchConnector{
		targets: singleTarget(),
		search: func(entity.SearchTarget, string) (*entity.SearchResponse, error) {
			return &entity.SearchResponse{Results: []entity.SearchResult{
				docWithSnippet("doc-1", "a"),
				docWithSnippet("doc-2", "b"),
				docWithSnippet("doc-3", "c"),
			}}, nil
		},
	}
	llm := &fakeLLMConnector{chunks: []entity.StreamChunk{{Delta: "ok"}}}
	uc, _ := newTestUsecase(search, llm)

	stream, err := uc.Answer(context.Background(), &entity.ChatRequest{
		Question: "Summarize my notes",
		Files: []entity.FileData{
			{Filename: "notes.txt", Content: []byte("robot curriculum notes")},
		},
	}, nil)
	require.NoError(t, err)
	collectStream(t, stream)

	system := llm.gotMessages[0].Content
	assert.Contains(t, system, "UPLOADED FILES")
	assert.Contains(t, system, "File: notes.txt\nrobot curriculum notes")
}

func TestExtractUploadsTruncatesAndSkips(t *testing.T) {
	uc := NewUsecase(
		&fakeResolver{},
		&fakeSearchConnector{},
		&fakeLLMConnector{},
		passthroughExtractor{},
		config.ChatConfig{OrgName: "WhyMaker"},
		config.FileUploadConfig{MaxFileCount: 2, MaxFileChars: 5},
	)

	out := uc.extractUploads(context.Background(), []entity.FileData{
		{Filename: "a.txt", Content: []byte("abcdefghij")},
		{Filename: "empty.txt", Content: nil},
		{Filename: "dropped.txt", Content: []byte("beyond the file count cap")},
	})

	assert.Equal(t, "File: a.txt\nabcde", out)
}

func TestExtractUploadsTruncatesOnRuneBoundary(t *testing.T) {
	uc := NewUsecase(
		&fakeResolver{},
		&fakeSearchConnector{},
		&fakeLLMConnector{},
		passthroughExtractor{},
		config.ChatConfig{OrgName: "WhyMaker"},
		config.FileUploadConfig{MaxFileCount: 1, MaxFileChars: 5},
	)

	out := uc.extractUploads(context.Background(), []entity.FileData{
		{Filename: "memo.txt", Content: []byte("日本語のメモです")},
	})

	assert.Equal(t, "File: memo.txt\n日本語のメ", out)
	assert.True(t, utf8.ValidString(out))
}

func TestTitle(t *testing.T) {
	uc, _ := newTestUsecase(&fakeSearchConnector{}, &fakeLLMConnector{completeResp: `"Robotics Pricing"`})
	assert.Equal(t, "Robotics Pricing", uc.Title(context.Background(), "How much do the robotics kits cost?"))
}

func TestTitleFallbackOnError(t *testing.T) {
	llm := &fakeLLMConnector{completeErr: errors.New("model unavailable")}
	uc, _ := newTestUsecase(&fakeSearchConnector{}, llm)

	question := "How much do the robotics kits cost for a full classroom set?"
	title := uc.Title(context.Background(), question)

	assert.Equal(t, string([]rune(question)[:30])+"...", title)
}

func TestTitleFallbackShortQuestion(t *testing.T) {
	llm := &fakeLLMConnector{completeErr: errors.New("model unavailable")}
	uc, _ := newTestUsecase(&fakeSearchConnector{}, llm)

	assert.Equal(t, "Short question", uc.Title(context.Background(), "Short question"))
}
