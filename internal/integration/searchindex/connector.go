package searchindex

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/whymaker/chat-backend/internal/config"
	"github.com/whymaker/chat-backend/internal/entity"
	pkghttp "github.com/whymaker/chat-backend/pkg/http"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Search specs requested on every index call.
const (
	maxSnippetCount           = 5
	maxExtractiveAnswerCount  = 3
	maxExtractiveSegmentCount = 10
	numSurroundingSegments    = 1
)

type Connector struct {
	config    *config.SearchConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(cfg *config.SearchConnectorConfig, logger *zap.Logger) *Connector {
	connCfg := &pkghttp.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.Url,
	}

	return &Connector{
		config: cfg,
		connector: pkghttp.NewConnector(
			connCfg,
			pkghttp.WithRequestTimeout(cfg.RequestTimeout),
			pkghttp.WithConnClientTimeout(cfg.ConnTimeout),
			pkghttp.WithClientKeepAlive(cfg.KeepAlive),
			pkghttp.WithIdleConnTimeout(cfg.IdleConnTimeout),
			pkghttp.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
			pkghttp.WithRequestLogging(),
		),
		logger: logger,
	}
}

// Targets returns the serving configs this deployment can address.
func (c *Connector) Targets() (*entity.SearchTargets, error) {
	return BuildTargets(c.config)
}

// Search issues one search call against the given serving config. A 404
// from the index is reported as entity.ErrTargetNotFound so the caller can
// fall back to the secondary target. Transient failures are retried.
func (c *Connector) Search(
	ctx context.Context,
	target entity.SearchTarget,
	query string,
	source oauth2.TokenSource,
) (*entity.SearchResponse, error) {
	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("obtain access token: %w", err)
	}

	req := &entity.SearchRequest{
		Query:               query,
		PageSize:            c.config.PageSize,
		LanguageCode:        c.config.LanguageCode,
		QueryExpansionSpec:  &entity.QueryExpansionSpec{Condition: "AUTO"},
		SpellCorrectionSpec: &entity.SpellCorrectionSpec{Mode: "AUTO"},
		ContentSearchSpec: &entity.ContentSearchSpec{
			SnippetSpec: &entity.SnippetSpec{
				ReturnSnippet:   true,
				MaxSnippetCount: maxSnippetCount,
			},
			ExtractiveContentSpec: &entity.ExtractiveContentSpec{
				MaxExtractiveAnswerCount:  maxExtractiveAnswerCount,
				MaxExtractiveSegmentCount: maxExtractiveSegmentCount,
				NumPreviousSegments:       numSurroundingSegments,
				NumNextSegments:           numSurroundingSegments,
			},
		},
		UserInfo: &entity.UserInfo{TimeZone: c.config.TimeZone},
	}

	url := fmt.Sprintf("%s/%s:search", c.config.Url, target.Path)

	ctxzap.Debug(ctx, "searching document index",
		zap.String("target_kind", string(target.Kind)),
		zap.String("query", query),
	)

	var resp entity.SearchResponse
	err = retry.Do(
		func() error {
			return c.connector.DoRequest(ctx, http.MethodPost, "", req, &resp,
				pkghttp.WithURL(url),
				pkghttp.WithHeader("Authorization", "Bearer "+token.AccessToken),
			)
		},
		append(c.config.Retry.ToRetryOptions(),
			retry.Context(ctx),
			retry.RetryIf(isTransient),
		)...,
	)
	if err != nil {
		var httpErr *pkghttp.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", entity.ErrTargetNotFound, target.Path)
		}
		return nil, err
	}

	ctxzap.Debug(ctx, "document index search completed",
		zap.String("target_kind", string(target.Kind)),
		zap.Int("result_count", len(resp.Results)),
	)

	return &resp, nil
}

// isTransient reports whether a search failure is worth retrying: network
// errors, throttling and server-side failures. Client errors are not.
func isTransient(err error) bool {
	var netErr *pkghttp.NetworkError
	if errors.As(err, &netErr) {
		return true
	}

	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= 500
	}

	return false
}
