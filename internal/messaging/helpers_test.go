package messaging

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

// readFrames decodes every frame written to buf.
func readFrames(t *testing.T, buf *bytes.Buffer) []RawEnvelope {
	t.Helper()
	reader := NewFrameReader(bytes.NewReader(buf.Bytes()))
	var envelopes []RawEnvelope
	for {
		envelope, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return envelopes
		}
		if err != nil {
			t.Fatalf("reading frame %d: %v", len(envelopes), err)
		}
		envelopes = append(envelopes, envelope)
	}
}

// methods lists the method of each envelope in order.
func methods(envelopes []RawEnvelope) []string {
	names := make([]string, len(envelopes))
	for i, envelope := range envelopes {
		names[i] = envelope.Method
	}
	return names
}

func countMethod(envelopes []RawEnvelope, method string) int {
	count := 0
	for _, envelope := range envelopes {
		if envelope.Method == method {
			count++
		}
	}
	return count
}

type failingWriter struct {
	err error
}

func (w failingWriter) Write([]byte) (int, error) {
	return 0, w.err
}
