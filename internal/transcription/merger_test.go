package transcription

import (
	"errors"
	"reflect"
	"testing"
)

func TestMergeTranscripts_EmptyInput(t *testing.T) {
	_, err := MergeTranscripts(nil)
	if !errors.Is(err, ErrNoTranscripts) {
		t.Fatalf("Expected ErrNoTranscripts, got %v", err)
	}
}

func TestMergeTranscripts_SingleChunkIdentity(t *testing.T) {
	in := &ChunkTranscript{
		Text: "hello world",
		Segments: []Segment{
			{ID: 0, Start: 0.0, End: 1.5, Text: "hello"},
			{ID: 1, Start: 1.5, End: 3.2, Text: "world"},
		},
		Language: "en",
	}

	combined, err := MergeTranscripts([]*ChunkTranscript{in})
	if err != nil {
		t.Fatalf("MergeTranscripts failed: %v", err)
	}
	if combined.Text != in.Text {
		t.Errorf("Text changed: %q", combined.Text)
	}
	if !reflect.DeepEqual(combined.Segments, in.Segments) {
		t.Errorf("Segments changed: %+v", combined.Segments)
	}
	if combined.Language != "en" {
		t.Errorf("Language changed: %q", combined.Language)
	}
	if combined.Duration != 3.2 {
		t.Errorf("Expected duration 3.2, got %v", combined.Duration)
	}
}

func TestMergeTranscripts_RebasesSecondChunk(t *testing.T) {
	a := &ChunkTranscript{
		Text:     "first part",
		Segments: []Segment{{Start: 0.0, End: 10.0, Text: "first part"}},
		Language: "en",
	}
	b := &ChunkTranscript{
		Text:     "second part",
		Segments: []Segment{{Start: 0.0, End: 2.0, Text: "second part"}},
		Language: "en",
	}

	combined, err := MergeTranscripts([]*ChunkTranscript{a, b})
	if err != nil {
		t.Fatalf("MergeTranscripts failed: %v", err)
	}
	if combined.Text != "first part second part" {
		t.Errorf("Expected space-joined text, got %q", combined.Text)
	}
	if len(combined.Segments) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(combined.Segments))
	}
	seg := combined.Segments[1]
	if seg.Start != 10.0 || seg.End != 12.0 {
		t.Errorf("Expected rebased segment [10, 12], got [%v, %v]", seg.Start, seg.End)
	}
	if combined.Duration != 12.0 {
		t.Errorf("Expected duration 12, got %v", combined.Duration)
	}
	// Inputs must not be mutated by the rebase.
	if b.Segments[0].Start != 0.0 || b.Segments[0].End != 2.0 {
		t.Errorf("Input transcript was mutated: %+v", b.Segments[0])
	}
}

func TestMergeTranscripts_SegmentlessChunkKeepsOffset(t *testing.T) {
	a := &ChunkTranscript{
		Text:     "a",
		Segments: []Segment{{Start: 0.0, End: 5.0, Text: "a"}},
		Language: "en",
	}
	silent := &ChunkTranscript{Text: "", Segments: nil, Language: "en"}
	c := &ChunkTranscript{
		Text:     "c",
		Segments: []Segment{{Start: 0.0, End: 1.0, Text: "c"}},
		Language: "en",
	}

	combined, err := MergeTranscripts([]*ChunkTranscript{a, silent, c})
	if err != nil {
		t.Fatalf("MergeTranscripts failed: %v", err)
	}
	last := combined.Segments[len(combined.Segments)-1]
	if last.Start != 5.0 || last.End != 6.0 {
		t.Errorf("Expected offset to carry over the silent chunk, got [%v, %v]", last.Start, last.End)
	}
}

func TestMergeTranscripts_OffsetFollowsLastReportedEnd(t *testing.T) {
	// The running offset is each chunk's own last reported segment end, not
	// an accumulated total.
	a := &ChunkTranscript{Text: "a", Segments: []Segment{{Start: 0, End: 10.0}}, Language: "en"}
	b := &ChunkTranscript{Text: "b", Segments: []Segment{{Start: 0, End: 8.0}}, Language: "en"}
	c := &ChunkTranscript{Text: "c", Segments: []Segment{{Start: 0, End: 1.0}}, Language: "en"}

	combined, err := MergeTranscripts([]*ChunkTranscript{a, b, c})
	if err != nil {
		t.Fatalf("MergeTranscripts failed: %v", err)
	}
	segB := combined.Segments[1]
	if segB.Start != 10.0 || segB.End != 18.0 {
		t.Errorf("Expected chunk 2 rebased to [10, 18], got [%v, %v]", segB.Start, segB.End)
	}
	segC := combined.Segments[2]
	if segC.Start != 8.0 || segC.End != 9.0 {
		t.Errorf("Expected chunk 3 rebased by chunk 2's reported end, got [%v, %v]", segC.Start, segC.End)
	}
	if combined.Duration != 18.0 {
		t.Errorf("Expected duration 18, got %v", combined.Duration)
	}
}

func TestMergeTranscripts_LanguageFromFirstChunk(t *testing.T) {
	a := &ChunkTranscript{Text: "hola", Language: "es"}
	b := &ChunkTranscript{Text: "hello", Language: "en"}

	combined, err := MergeTranscripts([]*ChunkTranscript{a, b})
	if err != nil {
		t.Fatalf("MergeTranscripts failed: %v", err)
	}
	if combined.Language != "es" {
		t.Errorf("Expected language from first chunk, got %q", combined.Language)
	}
	if combined.Duration != 0 {
		t.Errorf("Expected duration 0 with no segments, got %v", combined.Duration)
	}
}
