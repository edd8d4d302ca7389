package transcription

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func testClient(t *testing.T, handler http.HandlerFunc) (*OpenAIClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return NewOpenAIClientWithConfig(cfg, "whisper-1"), srv
}

func TestOpenAIClient_Transcribe(t *testing.T) {
	var gotPath string
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("Expected a multipart request: %v", err)
		}
		if format := r.FormValue("response_format"); format != "verbose_json" {
			t.Errorf("Expected verbose_json response format, got %q", format)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"task": "transcribe",
			"language": "en",
			"duration": 4.2,
			"text": "hello world",
			"segments": [
				{"id": 0, "seek": 0, "start": 0.0, "end": 2.1, "text": "hello", "tokens": [1, 2], "temperature": 0.0, "avg_logprob": -0.3, "compression_ratio": 1.1, "no_speech_prob": 0.01},
				{"id": 1, "seek": 210, "start": 2.1, "end": 4.2, "text": "world", "tokens": [3], "temperature": 0.0, "avg_logprob": -0.25, "compression_ratio": 1.0, "no_speech_prob": 0.02}
			]
		}`))
	})

	chunk := Chunk{Data: []byte("fake audio"), MIMEType: "audio/mpeg", Index: 0}
	transcript, err := client.Transcribe(context.Background(), chunk, "clip.mp3")
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}

	if gotPath != "/v1/audio/transcriptions" {
		t.Errorf("Request hit %q, expected the transcription endpoint", gotPath)
	}
	if transcript.Text != "hello world" {
		t.Errorf("Wrong text: %q", transcript.Text)
	}
	if transcript.Language != "en" {
		t.Errorf("Wrong language: %q", transcript.Language)
	}
	if len(transcript.Segments) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(transcript.Segments))
	}
	seg := transcript.Segments[1]
	if seg.ID != 1 || seg.Start != 2.1 || seg.End != 4.2 || seg.Text != "world" {
		t.Errorf("Segment not mapped: %+v", seg)
	}
	if len(seg.Tokens) != 1 || seg.Tokens[0] != 3 {
		t.Errorf("Tokens not mapped: %v", seg.Tokens)
	}
	if seg.AvgLogprob != -0.25 || seg.NoSpeechProb != 0.02 {
		t.Errorf("Confidence fields not mapped: %+v", seg)
	}
}

func TestOpenAIClient_HTTPError(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limit exceeded", "type": "requests"}}`))
	})

	chunk := Chunk{Data: []byte("fake audio"), MIMEType: "audio/mpeg", Index: 0}
	_, err := client.Transcribe(context.Background(), chunk, "clip.mp3")
	if err == nil {
		t.Fatal("Expected an error")
	}
	var pErr *ProviderError
	if !errors.As(err, &pErr) {
		t.Fatalf("Expected a ProviderError, got %T", err)
	}
	if !strings.Contains(pErr.Message, "rate limit") {
		t.Errorf("Expected the upstream message to survive, got %q", pErr.Message)
	}
}

func TestOpenAIClient_MalformedResponse(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	})

	chunk := Chunk{Data: []byte("fake audio"), MIMEType: "audio/mpeg", Index: 0}
	_, err := client.Transcribe(context.Background(), chunk, "clip.mp3")
	if err == nil {
		t.Fatal("Expected an error for an empty response")
	}
	var pErr *ProviderError
	if !errors.As(err, &pErr) {
		t.Fatalf("Expected a ProviderError, got %T", err)
	}
	if !strings.Contains(pErr.Message, "malformed") {
		t.Errorf("Unexpected message: %q", pErr.Message)
	}
}
