// Package transcribe wraps the hosted speech-to-text collaborator. The
// pipeline itself consumes only the resulting transcript text.
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// MaxAudioBytes is the upload ceiling enforced before any network call.
const MaxAudioBytes = 25 << 20

var (
	ErrAudioTooLarge        = errors.New("audio exceeds the 25 MB limit")
	ErrUnsupportedAudioType = errors.New("unsupported audio type")
	ErrNotConfigured        = errors.New("transcription service is not configured")
)

var allowedMimeTypes = map[string]struct{}{
	"audio/webm":  {},
	"video/webm":  {},
	"audio/mp4":   {},
	"audio/mpeg":  {},
	"audio/mpga":  {},
	"audio/wav":   {},
	"audio/wave":  {},
	"audio/m4a":   {},
	"audio/x-m4a": {},
}

var allowedExtensions = map[string]struct{}{
	".webm": {},
	".mp4":  {},
	".mp3":  {},
	".mpga": {},
	".mpeg": {},
	".wav":  {},
	".m4a":  {},
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename, mimeType string, size int64) (string, error)
}

// ValidateAudio checks the upload against the size ceiling and mime
// whitelist. The mime type wins when recognized; the filename extension is
// the fallback for clients that send a generic content type.
func ValidateAudio(filename, mimeType string, size int64) error {
	if size > MaxAudioBytes {
		return ErrAudioTooLarge
	}
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if _, ok := allowedMimeTypes[mt]; ok {
		return nil
	}
	if _, ok := allowedExtensions[strings.ToLower(filepath.Ext(filename))]; ok {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedAudioType, mimeType)
}

// WhisperClient transcribes audio through the OpenAI audio API.
type WhisperClient struct {
	client *openai.Client
	model  string
}

func NewWhisperClientFromEnv() (*WhisperClient, error) {
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY missing: %w", ErrNotConfigured)
	}
	return &WhisperClient{client: openai.NewClient(apiKey), model: openai.Whisper1}, nil
}

func (c *WhisperClient) Transcribe(ctx context.Context, audio io.Reader, filename, mimeType string, size int64) (string, error) {
	if err := ValidateAudio(filename, mimeType, size); err != nil {
		return "", err
	}
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		Reader:   audio,
		FilePath: filename,
	})
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}
