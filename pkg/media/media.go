// Package media defines the chunk types that flow between capture
// sources, the live session, and the realtime channel.
package media

import "fmt"

// Kind identifies the payload carried by a Chunk.
type Kind int

const (
	KindAudio Kind = iota
	KindImage
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindAudio:
		return "audio"
	case KindImage:
		return "image"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Chunk is a single unit of outbound media. Audio and image chunks
// carry Data with a MIME type; text chunks carry Text.
type Chunk struct {
	Kind     Kind
	Data     []byte
	MIMEType string
	Text     string
}

// Audio wraps raw little-endian 16-bit PCM in a chunk, tagging it with
// the sample rate the bytes were encoded at.
func Audio(data []byte, sampleRate int) Chunk {
	return Chunk{
		Kind:     KindAudio,
		Data:     data,
		MIMEType: fmt.Sprintf("audio/pcm;rate=%d", sampleRate),
	}
}

// Image wraps an encoded still frame (typically image/jpeg).
func Image(data []byte, mimeType string) Chunk {
	return Chunk{
		Kind:     KindImage,
		Data:     data,
		MIMEType: mimeType,
	}
}

// Text wraps a typed user message.
func Text(s string) Chunk {
	return Chunk{Kind: KindText, Text: s}
}
