package title

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whymaker/chat-backend/internal/entity"
)

type fakeTitler struct {
	title string
}

func (f *fakeTitler) Title(_ context.Context, _ string) string {
	return f.title
}

func TestGenerateTitle(t *testing.T) {
	h := NewHandler(&fakeTitler{title: "Robotics Pricing"})

	r := httptest.NewRequest(http.MethodPost, "/api/title", strings.NewReader(`{"question":"How much do kits cost?"}`))
	w := httptest.NewRecorder()
	h.Generate(w, r)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp entity.TitleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Robotics Pricing", resp.Title)
}

func TestGenerateTitleMissingQuestion(t *testing.T) {
	h := NewHandler(&fakeTitler{title: "unused"})

	r := httptest.NewRequest(http.MethodPost, "/api/title", strings.NewReader(`{"question":"  "}`))
	w := httptest.NewRecorder()
	h.Generate(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateTitleMalformedBody(t *testing.T) {
	h := NewHandler(&fakeTitler{title: "unused"})

	r := httptest.NewRequest(http.MethodPost, "/api/title", strings.NewReader("{broken"))
	w := httptest.NewRecorder()
	h.Generate(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
