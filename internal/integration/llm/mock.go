package llm

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/whymaker/chat-backend/internal/entity"
	"go.uber.org/zap"
)

// MockConnector streams a canned answer for local development.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) StreamAnswer(
	ctx context.Context,
	model string,
	messages []entity.ModelMessage,
) (<-chan entity.StreamChunk, error) {
	ctxzap.Info(ctx, "[MOCK] streaming answer",
		zap.String("model", model),
		zap.Int("message_count", len(messages)),
	)

	deltas := []string{"This ", "is ", "a ", "mock ", "answer ", "based ", "on ", "the ", "retrieved ", "context."}

	chunks := make(chan entity.StreamChunk)
	go func() {
		defer close(chunks)
		for _, delta := range deltas {
			select {
			case chunks <- entity.StreamChunk{Delta: delta}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return chunks, nil
}

func (m *MockConnector) Complete(
	ctx context.Context,
	model string,
	messages []entity.ModelMessage,
	maxTokens int,
	temperature float32,
) (string, error) {
	ctxzap.Info(ctx, "[MOCK] completing", zap.String("model", model))
	return "Mock Chat Title", nil
}
