package chat

import (
	"context"
	"errors"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/whymaker/chat-backend/internal/auth"
	"github.com/whymaker/chat-backend/internal/config"
	"github.com/whymaker/chat-backend/internal/entity"
	"github.com/whymaker/chat-backend/internal/pkg/logger"
	"github.com/whymaker/chat-backend/internal/pkg/response"
	"github.com/whymaker/chat-backend/internal/pkg/validator"
	chatuc "github.com/whymaker/chat-backend/internal/usecase/chat"
	"go.uber.org/zap"
)

type Handler struct {
	usecase   ChatUsecase
	validator *validator.Validator
	authCfg   config.AuthConfig
	uploadCfg config.FileUploadConfig
}

func NewHandler(
	usecase ChatUsecase,
	validator *validator.Validator,
	authCfg config.AuthConfig,
	uploadCfg config.FileUploadConfig,
) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
		authCfg:   authCfg,
		uploadCfg: uploadCfg,
	}
}

// Chat handles POST /api/chat - Answer a question with a streamed response
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Chat")

	req, fileHeaders, err := parseChatRequest(r, h.uploadCfg.MaxUploadSize)
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateChatRequest(req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}

	if len(fileHeaders) > 0 {
		if err := h.validator.ValidateUpload(fileHeaders); err != nil {
			h.respondError(ctx, w, http.StatusBadRequest, "invalid file upload", err)
			return
		}

		req.Files, err = readFiles(fileHeaders)
		if err != nil {
			h.respondError(ctx, w, http.StatusBadRequest, "failed to read uploaded files", err)
			return
		}
	}

	ctxzap.Info(ctx, "handling chat request",
		zap.Int("history_len", len(req.ChatHistory)),
		zap.Int("file_count", len(req.Files)),
		zap.String("model", req.Model),
	)

	userToken := auth.UserTokenFromRequest(r, h.authCfg.CookieName)

	stream, err := h.usecase.Answer(ctx, req, userToken)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.writeStream(ctx, w, stream)
}

// writeStream flushes answer deltas as they arrive. Headers are sent on
// the first delta; if the stream errors before producing anything the
// client still gets a proper error status.
func (h *Handler) writeStream(ctx context.Context, w http.ResponseWriter, stream *chatuc.AnswerStream) {
	flusher, canFlush := w.(http.Flusher)

	wrote := false
	for {
		delta, ok := stream.Next()
		if !ok {
			break
		}

		if !wrote {
			response.StreamHeaders(w)
			wrote = true
		}

		if _, err := w.Write([]byte(delta)); err != nil {
			ctxzap.Warn(ctx, "client disconnected mid-stream", zap.Error(err))
			return
		}
		if canFlush {
			flusher.Flush()
		}
	}

	if stream.State() == chatuc.StreamErrored {
		ctxzap.Error(ctx, "answer stream failed", zap.Error(stream.Err()))
		if !wrote {
			response.Error(w, http.StatusInternalServerError, "answer generation failed")
			return
		}
		// Headers are already out; abort the connection so the client
		// does not mistake a truncated answer for a complete one.
		panic(http.ErrAbortHandler)
	}

	if !wrote {
		response.StreamHeaders(w)
	}

	ctxzap.Info(ctx, "chat response streamed successfully")
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	ctxzap.Error(ctx, message, zap.Error(err))
	response.Error(w, status, message)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrMissingQuestion),
		errors.Is(err, entity.ErrInvalidHistory),
		errors.Is(err, entity.ErrInvalidFormat),
		errors.Is(err, entity.ErrMissingField):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request", err)
	default:
		// Configuration and credential problems are server faults and
		// must not leak details to the client.
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
