package models

import "time"

// Transcription status values. A record's status is fixed at creation time
// based on whether every chunk succeeded; it is never mutated afterward.
const (
	StatusComplete = "complete"
	StatusPartial  = "partial"
)

// TranscriptSegment is one persisted span of recognized speech. Start/End are
// global-timeline seconds rounded to millisecond precision.
type TranscriptSegment struct {
	ID               int     `json:"id"`
	Seek             int     `json:"seek"`
	Start            float64 `json:"start"`
	End              float64 `json:"end"`
	Text             string  `json:"text"`
	Tokens           []int   `json:"tokens,omitempty"`
	Temperature      float64 `json:"temperature"`
	AvgLogprob       float64 `json:"avg_logprob"`
	CompressionRatio float64 `json:"compression_ratio"`
	NoSpeechProb     float64 `json:"no_speech_prob"`
}

// Transcription is a persisted transcription record.
type Transcription struct {
	ID        string              `json:"id"`
	TeamID    int64               `json:"team_id"`
	UserID    int64               `json:"user_id"`
	FileName  string              `json:"file_name"`
	Text      string              `json:"text"`
	Segments  []TranscriptSegment `json:"segments"`
	Duration  int                 `json:"duration"` // whole seconds
	Language  string              `json:"language"`
	FileType  string              `json:"file_type"`
	FileSize  int64               `json:"file_size"`
	Status    string              `json:"status"` // complete or partial
	ErrorLog  string              `json:"error_log,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}
