package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	gocache "github.com/patrickmn/go-cache"
	"github.com/whymaker/chat-backend/internal/config"
	"github.com/whymaker/chat-backend/internal/entity"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
)

// Mode identifies which authorization mechanism a request runs under.
// Exactly one mode applies per request; the two are never mixed.
type Mode string

const (
	ModeEndUser          Mode = "end-user"
	ModeServicePrincipal Mode = "service-principal"
)

// Credential is the single authorization mechanism chosen for one request.
type Credential struct {
	Mode   Mode
	Source oauth2.TokenSource
}

// Resolver chooses between an end-user token and a minted service-principal
// token for document index calls. Minted tokens are cached until shortly
// before expiry.
type Resolver struct {
	cfg    config.AuthConfig
	jwtCfg *jwt.Config
	tokens *gocache.Cache
	logger *zap.Logger
}

func NewResolver(cfg config.AuthConfig, logger *zap.Logger) (*Resolver, error) {
	var jwtCfg *jwt.Config
	if cfg.ServiceAccountJSON != "" {
		parsed, err := google.JWTConfigFromJSON([]byte(cfg.ServiceAccountJSON), cfg.Scope)
		if err != nil {
			return nil, fmt.Errorf("parse service account key: %w", err)
		}
		jwtCfg = parsed
	}

	return &Resolver{
		cfg:    cfg,
		jwtCfg: jwtCfg,
		tokens: gocache.New(gocache.NoExpiration, 10*time.Minute),
		logger: logger,
	}, nil
}

// Resolve picks the authorization mechanism for one request. A valid,
// non-expired end-user token wins; otherwise a service-principal token is
// minted (or served from cache). The chosen mode is logged for operational
// visibility.
func (r *Resolver) Resolve(ctx context.Context, userToken *UserToken) (*Credential, error) {
	if userToken.Valid(time.Now()) {
		ctxzap.Info(ctx, "authorizing index calls with end-user token")
		return &Credential{
			Mode:   ModeEndUser,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: userToken.AccessToken}),
		}, nil
	}

	if r.jwtCfg == nil {
		return nil, entity.ErrMissingCredentials
	}

	ctxzap.Info(ctx, "authorizing index calls as service principal",
		zap.String("client_email", r.jwtCfg.Email),
	)

	token, err := r.serviceToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("mint service principal token: %w", err)
	}

	return &Credential{
		Mode:   ModeServicePrincipal,
		Source: oauth2.StaticTokenSource(token),
	}, nil
}

func (r *Resolver) serviceToken(ctx context.Context) (*oauth2.Token, error) {
	cacheKey := "sa:" + r.cfg.Scope

	if cached, ok := r.tokens.Get(cacheKey); ok {
		return cached.(*oauth2.Token), nil
	}

	token, err := r.jwtCfg.TokenSource(ctx).Token()
	if err != nil {
		return nil, err
	}

	if ttl := time.Until(token.Expiry) - r.cfg.TokenCacheSkew; ttl > 0 {
		r.tokens.Set(cacheKey, token, ttl)
	}

	return token, nil
}
