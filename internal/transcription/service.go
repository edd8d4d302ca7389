package transcription

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/echoscript/backend/internal/db/models"
)

// allowedMIMETypes is the fixed upload allow-list.
var allowedMIMETypes = map[string]bool{
	"audio/mpeg":   true,
	"audio/mp3":    true,
	"audio/wav":    true,
	"audio/wave":   true,
	"audio/x-wav":  true,
	"audio/mp4":    true,
	"audio/m4a":    true,
	"audio/x-m4a":  true,
	"audio/webm":   true,
	"audio/aiff":   true,
	"audio/x-aiff": true,
	"audio/aac":    true,
	"audio/ogg":    true,
}

// AllowedMIMEType reports whether a declared content type is accepted.
func AllowedMIMEType(mimeType string) bool {
	return allowedMIMETypes[mimeType]
}

// ValidatePayload rejects unsupported types and oversized files before any
// work is done.
func ValidatePayload(payload *AudioPayload) error {
	if !AllowedMIMEType(payload.MIMEType) {
		return fmt.Errorf("%w: unsupported file type: %s", ErrInvalidInput, payload.MIMEType)
	}
	if payload.Size() > MaxPayloadSize {
		return fmt.Errorf("%w: file exceeds the %d MB limit", ErrInvalidInput, MaxPayloadSize/(1024*1024))
	}
	return nil
}

// RecordStore persists completed submissions. Implemented by the db package.
type RecordStore interface {
	CreateTranscription(rec *models.Transcription) error
}

// SubmissionResult is what a submission returns to the caller. Error and
// Message coexist on partial success: the transcript is usable but some
// chunks failed.
type SubmissionResult struct {
	Error   string                `json:"error,omitempty"`
	Message string                `json:"message,omitempty"`
	Record  *models.Transcription `json:"record,omitempty"`
}

// Service runs one submission end to end: validate, chunk, transcribe each
// chunk sequentially, merge, persist. Submissions are independent of each
// other; nothing is shared across them.
type Service struct {
	transcriber Transcriber
	store       RecordStore
}

func NewService(transcriber Transcriber, store RecordStore) *Service {
	return &Service{transcriber: transcriber, store: store}
}

// Submit processes one validated upload. Per-chunk provider failures are
// collected as warnings and do not abort the remaining chunks; the submission
// fails outright only when validation fails, the payload is oversized, every
// chunk fails, or the record cannot be saved.
func (s *Service) Submit(ctx context.Context, payload *AudioPayload, teamID, userID int64) (result *SubmissionResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[transcribe] submission panicked: %v", r)
			result = &SubmissionResult{Error: "transcription failed due to an internal error"}
		}
	}()

	if err := ValidatePayload(payload); err != nil {
		return &SubmissionResult{Error: err.Error()}
	}

	chunks, err := SplitPayload(payload)
	if err != nil {
		return &SubmissionResult{Error: err.Error()}
	}
	log.Printf("[transcribe] %s: %d bytes in %d chunk(s)", payload.FileName, payload.Size(), len(chunks))

	// Strictly sequential, in chunk order. Failed chunks are recorded with
	// their 1-based index and the loop keeps going.
	var transcripts []*ChunkTranscript
	var failures []string
	for _, chunk := range chunks {
		t, err := s.transcriber.Transcribe(ctx, chunk, payload.FileName)
		if err != nil {
			log.Printf("[transcribe] %s: chunk %d failed: %v", payload.FileName, chunk.Index+1, err)
			failures = append(failures, fmt.Sprintf("segment %d: %v", chunk.Index+1, err))
			continue
		}
		transcripts = append(transcripts, t)
	}

	if len(transcripts) == 0 {
		return &SubmissionResult{Error: ErrNoTranscripts.Error()}
	}

	combined, err := MergeTranscripts(transcripts)
	if err != nil {
		return &SubmissionResult{Error: err.Error()}
	}

	record := buildRecord(payload, combined, teamID, userID, failures)
	if err := s.store.CreateTranscription(record); err != nil {
		log.Printf("[transcribe] %s: save failed: %v", payload.FileName, err)
		return &SubmissionResult{Error: "failed to save transcription"}
	}

	result = &SubmissionResult{Record: record}
	if len(failures) > 0 {
		result.Message = fmt.Sprintf("transcription completed with %d failed segment(s)", len(failures))
		result.Error = strings.Join(failures, "\n")
	} else {
		result.Message = "transcription complete"
	}
	log.Printf("[transcribe] %s: saved record %s (%s)", payload.FileName, record.ID, record.Status)
	return result
}

// buildRecord converts a combined transcript into a persistable record.
// Segment times are rounded to millisecond precision here, at the persistence
// boundary, not inside the merge.
func buildRecord(payload *AudioPayload, combined *CombinedTranscript, teamID, userID int64, failures []string) *models.Transcription {
	segments := make([]models.TranscriptSegment, len(combined.Segments))
	for i, seg := range combined.Segments {
		segments[i] = models.TranscriptSegment{
			ID:               seg.ID,
			Seek:             seg.Seek,
			Start:            round3(seg.Start),
			End:              round3(seg.End),
			Text:             seg.Text,
			Tokens:           seg.Tokens,
			Temperature:      seg.Temperature,
			AvgLogprob:       seg.AvgLogprob,
			CompressionRatio: seg.CompressionRatio,
			NoSpeechProb:     seg.NoSpeechProb,
		}
	}

	status := models.StatusComplete
	if len(failures) > 0 {
		status = models.StatusPartial
	}

	return &models.Transcription{
		ID:       uuid.New().String(),
		TeamID:   teamID,
		UserID:   userID,
		FileName: payload.FileName,
		Text:     combined.Text,
		Segments: segments,
		Duration: int(math.Round(combined.Duration)),
		Language: combined.Language,
		FileType: payload.MIMEType,
		FileSize: payload.Size(),
		Status:   status,
		ErrorLog: strings.Join(failures, "\n"),
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
