package title

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/whymaker/chat-backend/internal/entity"
	"github.com/whymaker/chat-backend/internal/pkg/logger"
	"github.com/whymaker/chat-backend/internal/pkg/response"
	"go.uber.org/zap"
)

type TitleUsecase interface {
	Title(ctx context.Context, question string) string
}

type Handler struct {
	usecase TitleUsecase
}

func NewHandler(usecase TitleUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// Generate handles POST /api/title - Generate a short conversation title
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GenerateTitle")

	var req entity.TitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		ctxzap.Error(ctx, "missing question", zap.Error(entity.ErrMissingQuestion))
		response.Error(w, http.StatusBadRequest, "question is required")
		return
	}

	title := h.usecase.Title(ctx, req.Question)

	ctxzap.Info(ctx, "title generated", zap.String("title", title))
	response.Success(w, entity.TitleResponse{Title: title})
}
