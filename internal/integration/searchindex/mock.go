package searchindex

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/whymaker/chat-backend/internal/entity"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// MockConnector is a stand-in document index for local development.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Targets() (*entity.SearchTargets, error) {
	fallback := &entity.SearchTarget{Kind: entity.TargetDataStore, Path: "mock/dataStores/mock/servingConfigs/default_search"}
	return &entity.SearchTargets{
		Primary:  entity.SearchTarget{Kind: entity.TargetEngine, Path: "mock/engines/mock/servingConfigs/default_search"},
		Fallback: fallback,
	}, nil
}

func (m *MockConnector) Search(
	ctx context.Context,
	target entity.SearchTarget,
	query string,
	source oauth2.TokenSource,
) (*entity.SearchResponse, error) {
	ctxzap.Info(ctx, "[MOCK] searching document index",
		zap.String("target_kind", string(target.Kind)),
		zap.String("query", query),
	)

	return &entity.SearchResponse{
		Results: []entity.SearchResult{
			{
				Document: entity.Document{
					ID:  "mock-doc-1",
					URI: "gs://mock-bucket/handbook.pdf",
					DerivedStructData: map[string]any{
						"snippets": []any{
							map[string]any{"snippet": "Mock snippet matching: " + query},
						},
					},
					StructData: map[string]any{"title": "Employee Handbook"},
				},
			},
			{
				Document: entity.Document{
					ID:  "mock-doc-2",
					URI: "gs://mock-bucket/faq.pdf",
					DerivedStructData: map[string]any{
						"extractiveAnswers": []any{
							map[string]any{"content": "Mock extractive answer for: " + query},
						},
					},
					StructData: map[string]any{"title": "FAQ"},
				},
			},
		},
		Summary: &entity.SearchSummary{SummaryText: "Mock summary of retrieved documents."},
	}, nil
}
