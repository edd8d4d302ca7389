package transcription

import "fmt"

const (
	// MaxPayloadSize is the absolute upload ceiling. Larger payloads are
	// rejected before any chunking work.
	MaxPayloadSize = 500 * 1024 * 1024

	// providerSizeLimit is the per-request file size the provider accepts.
	providerSizeLimit = 25 * 1024 * 1024

	// targetChunkSize is the soft chunk size used when splitting, leaving
	// headroom under the provider limit.
	targetChunkSize = 20 * 1024 * 1024
)

// SplitPayload partitions a payload into provider-sized chunks. Payloads at or
// under the provider limit come back as a single chunk sharing the payload's
// backing array; larger ones are cut into consecutive ranges of at most
// targetChunkSize, the last possibly smaller. Ranges are contiguous with no
// gaps or overlaps, so concatenating the chunks reproduces the payload.
func SplitPayload(payload *AudioPayload) ([]Chunk, error) {
	if payload.Size() > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d byte limit", ErrPayloadTooLarge, payload.Size(), MaxPayloadSize)
	}

	if len(payload.Data) <= providerSizeLimit {
		return []Chunk{{Data: payload.Data, MIMEType: payload.MIMEType, Index: 0}}, nil
	}

	var chunks []Chunk
	for offset := 0; offset < len(payload.Data); offset += targetChunkSize {
		end := offset + targetChunkSize
		if end > len(payload.Data) {
			end = len(payload.Data)
		}
		chunks = append(chunks, Chunk{
			Data:     payload.Data[offset:end],
			MIMEType: payload.MIMEType,
			Index:    len(chunks),
		})
	}
	return chunks, nil
}
