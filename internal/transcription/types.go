package transcription

// AudioPayload is one uploaded audio file as received from the API layer.
type AudioPayload struct {
	Data     []byte
	FileName string
	MIMEType string
}

// Size returns the payload size in bytes.
func (p *AudioPayload) Size() int64 {
	return int64(len(p.Data))
}

// Chunk is a contiguous byte range of an AudioPayload sized for the provider.
// Chunks are byte-offset cuts, not silence-aware: a boundary may fall mid-word.
type Chunk struct {
	Data     []byte
	MIMEType string
	Index    int // zero-based position in the original payload
}

// Segment is one provider-recognized span of speech. Start/End are seconds on
// the provider-local clock, which restarts at 0 for every chunk.
type Segment struct {
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

// ChunkTranscript is the provider's response for a single chunk.
type ChunkTranscript struct {
	Text     string
	Segments []Segment
	Language string
}

// CombinedTranscript spans the whole original payload: chunk texts space-joined
// and every segment re-based onto one global timeline.
type CombinedTranscript struct {
	Text     string
	Segments []Segment
	Language string
	Duration float64 // max segment end in seconds, 0 when there are no segments
}
