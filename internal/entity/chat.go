package entity

// Message roles replayed verbatim to the generation service.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatTurn is one prior conversation turn. Insertion order matters: the
// history is replayed to the generation service in the order received.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the logical payload of POST /api/chat, assembled from
// either a JSON body or multipart form data.
type ChatRequest struct {
	Question    string     `json:"question"`
	ChatHistory []ChatTurn `json:"chat_history"`
	Model       string     `json:"model"`
	Files       []FileData `json:"-"`
}

// ModelMessage is one entry of the ordered message list sent to the
// generation service: system first, history turns, current question last.
type ModelMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// FileData carries one uploaded attachment.
type FileData struct {
	Filename    string
	ContentType string
	Content     []byte
}

// StreamChunk is one increment of the generated answer. Err is set on the
// terminal chunk when the upstream stream failed mid-answer.
type StreamChunk struct {
	Delta string
	Err   error
}

type TitleRequest struct {
	Question string `json:"question"`
}

type TitleResponse struct {
	Title string `json:"title"`
}
