package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/whymaker/chat-backend/internal/auth"
	"github.com/whymaker/chat-backend/internal/config"
	"github.com/whymaker/chat-backend/internal/entity"
	"github.com/whymaker/chat-backend/internal/pkg/logger"
	"go.uber.org/zap"
)

const (
	titleMaxTokens   = 15
	titleTemperature = 0.2
	titleTruncateLen = 30
)

const titlePromptTemplate = "Summarize the following user question into a 3-5 word title. " +
	"Be concise and representative of the main topic.\n\nQuestion: '%s'"

type Usecase struct {
	resolver   CredentialResolver
	searchConn SearchIndexConnector
	llmConn    LLMConnector
	extractor  TextExtractor
	chatCfg    config.ChatConfig
	uploadCfg  config.FileUploadConfig
}

func NewUsecase(
	resolver CredentialResolver,
	searchConn SearchIndexConnector,
	llmConn LLMConnector,
	extractor TextExtractor,
	chatCfg config.ChatConfig,
	uploadCfg config.FileUploadConfig,
) *Usecase {
	return &Usecase{
		resolver:   resolver,
		searchConn: searchConn,
		llmConn:    llmConn,
		extractor:  extractor,
		chatCfg:    chatCfg,
		uploadCfg:  uploadCfg,
	}
}

// Answer runs the full retrieval pipeline for one question and returns a
// stream of answer deltas. Search failures degrade to a smaller context;
// only credential, configuration, and generation start errors abort the
// request.
func (uc *Usecase) Answer(ctx context.Context, req *entity.ChatRequest, userToken *auth.UserToken) (*AnswerStream, error) {
	ctx = logger.AddFields(ctx, zap.String("pipeline_id", uuid.NewString()))

	cred, err := uc.resolver.Resolve(ctx, userToken)
	if err != nil {
		return nil, fmt.Errorf("resolving search credentials: %w", err)
	}

	targets, err := uc.searchConn.Targets()
	if err != nil {
		return nil, fmt.Errorf("resolving search targets: %w", err)
	}

	queries := DecomposeQuestion(req.Question)
	ctxzap.Info(ctx, "question decomposed",
		zap.Int("query_count", len(queries)),
		zap.String("auth_mode", string(cred.Mode)),
	)

	acc := newSearchAccumulator()
	for _, query := range queries {
		resp, _ := uc.searchQuery(ctx, targets, query, cred.Source)
		acc.add(resp)
	}

	if acc.count() < minResultsBeforeExpansion {
		expansions := BuildExpansions(req.Question, uc.chatCfg.OrgName)
		ctxzap.Info(ctx, "expanding search",
			zap.Int("result_count", acc.count()),
			zap.Int("expansion_count", len(expansions)),
		)
		for _, query := range expansions {
			resp, _ := uc.searchQuery(ctx, targets, query, cred.Source)
			acc.add(resp)
		}
	}

	snippets := make([]string, 0, len(acc.results))
	for _, result := range acc.results {
		parts := ExtractSnippets(result.Document)
		if len(parts) == 0 {
			if desc := FallbackDescriptor(result.Document); desc != "" {
				parts = []string{desc}
			}
		}
		snippets = append(snippets, parts...)
	}

	groundingContext := BuildGroundingContext(snippets, acc.summary)
	uploadsContext := uc.extractUploads(ctx, req.Files)

	ctxzap.Info(ctx, "context assembled",
		zap.Int("document_count", acc.count()),
		zap.Int("snippet_count", len(snippets)),
		zap.Int("context_chars", len(groundingContext)),
		zap.Int("upload_chars", len(uploadsContext)),
	)

	systemPrompt := buildSystemMessage(uc.chatCfg.OrgName, groundingContext, uploadsContext)
	messages := buildMessages(systemPrompt, req.ChatHistory, req.Question)

	chunks, err := uc.llmConn.StreamAnswer(ctx, req.Model, messages)
	if err != nil {
		return nil, fmt.Errorf("starting answer stream: %w", err)
	}

	return NewAnswerStream(chunks), nil
}

// Title produces a short conversation title for a question. It never
// fails: on any model error it falls back to a truncated question.
func (uc *Usecase) Title(ctx context.Context, question string) string {
	messages := []entity.ModelMessage{
		{
			Role:    entity.RoleSystem,
			Content: fmt.Sprintf("You are a title generator for %s.", uc.chatCfg.OrgName),
		},
		{
			Role:    entity.RoleUser,
			Content: fmt.Sprintf(titlePromptTemplate, question),
		},
	}

	title, err := uc.llmConn.Complete(ctx, "", messages, titleMaxTokens, titleTemperature)
	if err != nil {
		ctxzap.Warn(ctx, "title generation failed, using fallback", zap.Error(err))
		return fallbackTitle(question)
	}

	title = strings.Trim(strings.TrimSpace(title), `"`)
	if title == "" {
		return fallbackTitle(question)
	}

	return title
}

func fallbackTitle(question string) string {
	runes := []rune(strings.TrimSpace(question))
	if len(runes) <= titleTruncateLen {
		return string(runes)
	}
	return string(runes[:titleTruncateLen]) + "..."
}
