package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	openai "github.com/sashabaranov/go-openai"
	"github.com/whymaker/chat-backend/internal/config"
	"github.com/whymaker/chat-backend/internal/entity"
	"go.uber.org/zap"
)

type Connector struct {
	client *openai.Client
	config config.LLMConnectorConfig
	logger *zap.Logger
}

func NewConnector(cfg config.LLMConnectorConfig, logger *zap.Logger) *Connector {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Connector{
		client: openai.NewClientWithConfig(clientCfg),
		config: cfg,
		logger: logger,
	}
}

// StreamAnswer starts a streaming completion and forwards each text delta
// through the returned channel as it arrives. The channel closes on graceful
// completion; an upstream failure is delivered as a terminal chunk with Err
// set. Cancelling ctx stops the producer and releases the upstream stream.
func (c *Connector) StreamAnswer(
	ctx context.Context,
	model string,
	messages []entity.ModelMessage,
) (<-chan entity.StreamChunk, error) {
	if model == "" {
		model = c.config.DefaultModel
	}

	ctxzap.Info(ctx, "starting answer stream",
		zap.String("model", model),
		zap.Bool("reasoning_family", IsReasoningModel(model)),
		zap.Int("message_count", len(messages)),
	)

	stream, err := c.client.CreateChatCompletionStream(ctx, completionRequest(model, messages))
	if err != nil {
		return nil, fmt.Errorf("create completion stream: %w", err)
	}

	chunks := make(chan entity.StreamChunk)

	go func() {
		defer close(chunks)
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				ctxzap.Debug(ctx, "answer stream completed")
				return
			}
			if err != nil {
				ctxzap.Error(ctx, "answer stream failed", zap.Error(err))
				select {
				case chunks <- entity.StreamChunk{Err: fmt.Errorf("%w: %v", entity.ErrStreamInterrupted, err)}:
				case <-ctx.Done():
				}
				return
			}

			if len(resp.Choices) == 0 {
				continue
			}

			delta := resp.Choices[0].Delta.Content
			if delta == "" {
				continue
			}

			select {
			case chunks <- entity.StreamChunk{Delta: delta}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return chunks, nil
}

// Complete runs a small non-streaming completion, used for auxiliary calls
// like title generation.
func (c *Connector) Complete(
	ctx context.Context,
	model string,
	messages []entity.ModelMessage,
	maxTokens int,
	temperature float32,
) (string, error) {
	if model == "" {
		model = c.config.TitleModel
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    toOpenAIMessages(messages),
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("create completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", entity.ErrEmptyCompletion
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
