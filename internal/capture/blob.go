package capture

import (
	"bytes"
	"io"
)

// ContentType is the container produced by every Encoder.
const ContentType = "video/webm"

// Blob is an immutable finished recording.
type Blob struct {
	data []byte
}

func newBlob(chunks [][]byte) *Blob {
	var n int
	for _, c := range chunks {
		n += len(c)
	}
	data := make([]byte, 0, n)
	for _, c := range chunks {
		data = append(data, c...)
	}
	return &Blob{data: data}
}

func (b *Blob) Type() string { return ContentType }

func (b *Blob) Size() int64 { return int64(len(b.data)) }

// Reader returns a fresh reader over the recording.
func (b *Blob) Reader() io.Reader { return bytes.NewReader(b.data) }

// Bytes returns a copy of the recording.
func (b *Blob) Bytes() []byte { return bytes.Clone(b.data) }
