package chat

import (
	"context"

	"github.com/whymaker/chat-backend/internal/auth"
	"github.com/whymaker/chat-backend/internal/entity"
	"golang.org/x/oauth2"
)

type CredentialResolver interface {
	Resolve(ctx context.Context, userToken *auth.UserToken) (*auth.Credential, error)
}

type SearchIndexConnector interface {
	Targets() (*entity.SearchTargets, error)
	Search(ctx context.Context, target entity.SearchTarget, query string, source oauth2.TokenSource) (*entity.SearchResponse, error)
}

type LLMConnector interface {
	StreamAnswer(ctx context.Context, model string, messages []entity.ModelMessage) (<-chan entity.StreamChunk, error)
	Complete(ctx context.Context, model string, messages []entity.ModelMessage, maxTokens int, temperature float32) (string, error)
}

type TextExtractor interface {
	Text(filename string, content []byte) string
}
