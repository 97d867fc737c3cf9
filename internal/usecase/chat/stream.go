package chat

import "github.com/whymaker/chat-backend/internal/entity"

type StreamState int

const (
	StreamPending StreamState = iota
	StreamStreaming
	StreamClosed
	StreamErrored
)

// AnswerStream is a pull-style wrapper over the connector's chunk channel.
// Once it reports StreamClosed or StreamErrored no further deltas follow.
type AnswerStream struct {
	chunks <-chan entity.StreamChunk
	state  StreamState
	err    error
}

func NewAnswerStream(chunks <-chan entity.StreamChunk) *AnswerStream {
	return &AnswerStream{
		chunks: chunks,
		state:  StreamPending,
	}
}

// Next blocks for the next answer delta. It returns ok=false when the
// stream finished, either cleanly or with an error; check State and Err
// to tell which.
func (s *AnswerStream) Next() (string, bool) {
	if s.state == StreamClosed || s.state == StreamErrored {
		return "", false
	}

	chunk, ok := <-s.chunks
	if !ok {
		s.state = StreamClosed
		return "", false
	}

	if chunk.Err != nil {
		s.state = StreamErrored
		s.err = chunk.Err
		return "", false
	}

	s.state = StreamStreaming
	return chunk.Delta, true
}

func (s *AnswerStream) State() StreamState {
	return s.state
}

// Err returns the terminal error, non-nil only after StreamErrored.
func (s *AnswerStream) Err() error {
	return s.err
}
