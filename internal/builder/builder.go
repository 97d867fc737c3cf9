package builder

import (
	"fmt"
	"net/http"
	"time"

	"github.com/whymaker/chat-backend/internal/api"
	chatapi "github.com/whymaker/chat-backend/internal/api/chat"
	titleapi "github.com/whymaker/chat-backend/internal/api/title"
	"github.com/whymaker/chat-backend/internal/auth"
	"github.com/whymaker/chat-backend/internal/config"
	"github.com/whymaker/chat-backend/internal/integration/llm"
	"github.com/whymaker/chat-backend/internal/integration/searchindex"
	"github.com/whymaker/chat-backend/internal/pkg/extract"
	"github.com/whymaker/chat-backend/internal/pkg/validator"
	chatuc "github.com/whymaker/chat-backend/internal/usecase/chat"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Initialize credential resolver for search index calls
	resolver, err := auth.NewResolver(cfg.AuthCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup credential resolver: %w", err)
	}

	// Initialize external service connectors (with mock support)
	var searchConnector chatuc.SearchIndexConnector
	var llmConnector chatuc.LLMConnector

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		searchConnector = searchindex.NewMockConnector(logger)
		llmConnector = llm.NewMockConnector(logger)
	} else {
		logger.Info("Using real connectors for external services")
		searchConnector = searchindex.NewConnector(&cfg.SearchConnectorCfg, logger)
		llmConnector = llm.NewConnector(cfg.LLMConnectorCfg, logger)
	}

	// Initialize validators and extraction
	chatValidator := validator.NewValidator(cfg.FileUploadCfg)
	extractor := extract.NewExtractor()
	logger.Info("Validators initialized")

	// Initialize use cases
	chatUC := chatuc.NewUsecase(
		resolver,
		searchConnector,
		llmConnector,
		extractor,
		cfg.ChatCfg,
		cfg.FileUploadCfg,
	)
	logger.Info("Use cases initialized")

	// Setup API handlers
	chatHandler := chatapi.NewHandler(chatUC, chatValidator, cfg.AuthCfg, cfg.FileUploadCfg)
	titleHandler := titleapi.NewHandler(chatUC)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(chatHandler, titleHandler, logger, cfg.CORSAllowedOrigin)
	logger.Info("HTTP router configured")

	// Create HTTP server. Write timeout covers the whole streamed answer,
	// not a single write, so it has to outlast a slow generation.
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		logger: logger,
	}, nil
}
