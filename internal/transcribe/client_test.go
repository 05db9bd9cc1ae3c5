package transcribe

import (
	"errors"
	"testing"
)

func TestValidateAudio(t *testing.T) {
	for _, tc := range []struct {
		name     string
		filename string
		mimeType string
		size     int64
		wantErr  error
	}{
		{name: "webm ok", filename: "note.webm", mimeType: "audio/webm", size: 1024},
		{name: "wav ok", filename: "note.wav", mimeType: "audio/wav", size: 1024},
		{name: "m4a ok", filename: "note.m4a", mimeType: "audio/m4a", size: 1024},
		{name: "mime with codec params", filename: "note.webm", mimeType: "audio/webm; codecs=opus", size: 1024},
		{name: "extension fallback", filename: "note.mp3", mimeType: "application/octet-stream", size: 1024},
		{name: "exactly at limit", filename: "note.wav", mimeType: "audio/wav", size: MaxAudioBytes},
		{name: "over limit", filename: "note.wav", mimeType: "audio/wav", size: MaxAudioBytes + 1, wantErr: ErrAudioTooLarge},
		{name: "unsupported type", filename: "note.flac", mimeType: "audio/flac", size: 1024, wantErr: ErrUnsupportedAudioType},
		{name: "no hints at all", filename: "note", mimeType: "", size: 1024, wantErr: ErrUnsupportedAudioType},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAudio(tc.filename, tc.mimeType, tc.size)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestNewWhisperClientFromEnvMissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := NewWhisperClientFromEnv()
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
