package transcription

import (
	"bytes"
	"context"
	"log"

	openai "github.com/sashabaranov/go-openai"
)

// Transcriber converts one audio chunk into a ChunkTranscript.
type Transcriber interface {
	// Transcribe sends a single chunk to the speech-to-text provider.
	// fileName is the display name reported to the provider; its extension
	// tells the provider the audio format.
	Transcribe(ctx context.Context, chunk Chunk, fileName string) (*ChunkTranscript, error)
	// Name returns the provider name.
	Name() string
}

// OpenAIClient transcribes chunks through the OpenAI audio transcription API.
// Each call is independent: no retry, no caching, no rate limiting.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a client for the given API key. model defaults to
// whisper-1 when empty.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if model == "" {
		model = openai.Whisper1
	}
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// NewOpenAIClientWithConfig creates a client from a full client config. Used
// by tests to point the client at a local server.
func NewOpenAIClientWithConfig(cfg openai.ClientConfig, model string) *OpenAIClient {
	if model == "" {
		model = openai.Whisper1
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (c *OpenAIClient) Name() string {
	return "openai"
}

// Transcribe requests a verbose structured response (text + segments +
// language) rather than plain text: the merger needs per-segment timestamps.
func (c *OpenAIClient) Transcribe(ctx context.Context, chunk Chunk, fileName string) (*ChunkTranscript, error) {
	log.Printf("[transcribe-openai] sending chunk %d (%d bytes) as %s", chunk.Index, len(chunk.Data), fileName)

	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		FilePath: fileName,
		Reader:   bytes.NewReader(chunk.Data),
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, &ProviderError{Message: err.Error()}
	}

	// A verbose_json response carries text and segments; a response with
	// neither is malformed.
	if resp.Text == "" && len(resp.Segments) == 0 {
		return nil, &ProviderError{Message: "malformed response: missing text and segments"}
	}

	segments := make([]Segment, len(resp.Segments))
	for i, s := range resp.Segments {
		segments[i] = Segment{
			ID:               s.ID,
			Seek:             s.Seek,
			Start:            s.Start,
			End:              s.End,
			Text:             s.Text,
			Tokens:           s.Tokens,
			Temperature:      s.Temperature,
			AvgLogprob:       s.AvgLogprob,
			CompressionRatio: s.CompressionRatio,
			NoSpeechProb:     s.NoSpeechProb,
		}
	}

	return &ChunkTranscript{
		Text:     resp.Text,
		Segments: segments,
		Language: resp.Language,
	}, nil
}
