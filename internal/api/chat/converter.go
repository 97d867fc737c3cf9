package chat

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/whymaker/chat-backend/internal/entity"
)

// parseChatRequest assembles the logical chat payload from either a JSON
// body or a multipart form. In the multipart case the chat history arrives
// as a JSON-encoded form field and attachments under the "files" key; file
// contents are not read here, only the headers are returned so they can be
// validated before buffering.
func parseChatRequest(r *http.Request, maxUploadSize int64) (*entity.ChatRequest, []*multipart.FileHeader, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		return parseMultipartRequest(r, maxUploadSize)
	}

	var req entity.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", entity.ErrInvalidFormat, err)
	}

	return &req, nil, nil
}

func parseMultipartRequest(r *http.Request, maxUploadSize int64) (*entity.ChatRequest, []*multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", entity.ErrInvalidFormat, err)
	}

	req := entity.ChatRequest{
		Question: r.FormValue("question"),
		Model:    r.FormValue("model"),
	}

	if history := r.FormValue("chat_history"); history != "" {
		if err := json.Unmarshal([]byte(history), &req.ChatHistory); err != nil {
			return nil, nil, fmt.Errorf("%w: chat_history: %v", entity.ErrInvalidFormat, err)
		}
	}

	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		headers = r.MultipartForm.File["files"]
	}

	return &req, headers, nil
}

// readFiles buffers validated attachments into memory.
func readFiles(headers []*multipart.FileHeader) ([]entity.FileData, error) {
	files := make([]entity.FileData, 0, len(headers))

	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: opening %s: %v", entity.ErrInvalidFile, fh.Filename, err)
		}

		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", entity.ErrInvalidFile, fh.Filename, err)
		}

		files = append(files, entity.FileData{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     content,
		})
	}

	return files, nil
}
