package s3

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"acs-toolkit/internal/communication/chat"
	"acs-toolkit/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptKey(t *testing.T) {
	log := zerolog.Nop()
	service, err := NewService(&config.Config{S3Storage: config.S3Storage{
		Region:           "us-east-1",
		Bucket:           "bucket",
		FolderTranscript: "transcripts",
	}}, &log)
	require.NoError(t, err)

	at := time.Unix(1700000000, 0)
	assert.Equal(t, "transcripts/19:abc@thread.v2/1700000000.jsonl", service.TranscriptKey("19:abc@thread.v2", at))
}

func TestEncodeTranscript(t *testing.T) {
	body, err := encodeTranscript([]chat.ChatMessage{
		{ID: "1", Content: "hello"},
		{ID: "2", Content: "bye"},
	})
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(body), []byte("\n"))
	require.Len(t, lines, 2)
	var second chat.ChatMessage
	require.NoError(t, json.Unmarshal(lines[1], &second))
	assert.Equal(t, "bye", second.Content)

	empty, err := encodeTranscript(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
