package chat

import (
	"context"

	"github.com/whymaker/chat-backend/internal/auth"
	"github.com/whymaker/chat-backend/internal/entity"
	chatuc "github.com/whymaker/chat-backend/internal/usecase/chat"
)

type ChatUsecase interface {
	Answer(ctx context.Context, req *entity.ChatRequest, userToken *auth.UserToken) (*chatuc.AnswerStream, error)
}
