package llm

import (
	"regexp"

	openai "github.com/sashabaranov/go-openai"
	"github.com/whymaker/chat-backend/internal/entity"
)

const (
	// maxAnswerTokens caps the completion length for both model families.
	maxAnswerTokens = 1400

	// Reasoning models reject caller-controlled sampling; standard models
	// get a lower temperature for grounded answering.
	reasoningTemperature = 1
	standardTemperature  = 0.6
)

// reasoningModelPattern matches model identifiers whose API contract uses
// max_completion_tokens and a fixed temperature (o1/o3/o4 and gpt-5 series).
var reasoningModelPattern = regexp.MustCompile(`(?i)^(?:o[134]|gpt-5)`)

// IsReasoningModel reports whether the identifier names a reasoning-family
// model.
func IsReasoningModel(model string) bool {
	return reasoningModelPattern.MatchString(model)
}

// completionRequest maps an ordered message list onto a chat completion
// request with family-specific sampling parameters applied.
func completionRequest(model string, messages []entity.ModelMessage) openai.ChatCompletionRequest {
	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: toOpenAIMessages(messages),
	}

	if IsReasoningModel(model) {
		req.Temperature = reasoningTemperature
		req.MaxCompletionTokens = maxAnswerTokens
	} else {
		req.Temperature = standardTemperature
		req.MaxTokens = maxAnswerTokens
	}

	return req
}

func toOpenAIMessages(messages []entity.ModelMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		out = append(out, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	return out
}
