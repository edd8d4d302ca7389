package transcription

// MergeTranscripts stitches per-chunk transcripts back into one transcript on
// a global timeline. Input must hold only successful transcripts, in original
// chunk order; the caller filters out failed chunks first.
//
// Each chunk's segments are re-based by a running offset, and after a chunk is
// consumed the offset advances to that chunk's own last reported segment end.
// The offset is driven by what the provider reported, not by the chunk's audio
// length, so a chunk with no segments carries the offset through unchanged.
func MergeTranscripts(transcripts []*ChunkTranscript) (*CombinedTranscript, error) {
	if len(transcripts) == 0 {
		return nil, ErrNoTranscripts
	}

	// A single chunk's local timeline is already global.
	if len(transcripts) == 1 {
		t := transcripts[0]
		return &CombinedTranscript{
			Text:     t.Text,
			Segments: t.Segments,
			Language: t.Language,
			Duration: maxSegmentEnd(t.Segments),
		}, nil
	}

	combined := &CombinedTranscript{
		Language: transcripts[0].Language,
	}

	timeOffset := 0.0
	for i, t := range transcripts {
		if i > 0 {
			combined.Text += " "
		}
		combined.Text += t.Text

		for _, seg := range t.Segments {
			seg.Start += timeOffset
			seg.End += timeOffset
			combined.Segments = append(combined.Segments, seg)
		}

		// The next offset is this chunk's own last reported segment end,
		// before re-basing. Segmentless chunks leave it untouched.
		if n := len(t.Segments); n > 0 {
			timeOffset = t.Segments[n-1].End
		}
	}

	combined.Duration = maxSegmentEnd(combined.Segments)
	return combined, nil
}

func maxSegmentEnd(segments []Segment) float64 {
	max := 0.0
	for _, seg := range segments {
		if seg.End > max {
			max = seg.End
		}
	}
	return max
}
