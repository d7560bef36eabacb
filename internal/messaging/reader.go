package messaging

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"strconv"
)

// maxFrameSize bounds the body a FrameReader will allocate for.
const maxFrameSize = 64 << 20

// RawEnvelope is a decoded frame whose params have not been
// interpreted yet. Decode the params with DecodeParams once the method
// is known.
type RawEnvelope struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Frame is one undecoded message as it appeared on the wire.
type Frame struct {
	ContentLength int
	ContentType   string
	Body          []byte
}

// FrameReader splits a stream written by a Framer back into frames.
type FrameReader struct {
	reader *textproto.Reader
}

// NewFrameReader returns a FrameReader reading from r.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{reader: textproto.NewReader(bufio.NewReader(r))}
}

// NextFrame reads one frame. It returns io.EOF only when the stream
// ends cleanly between frames.
func (r *FrameReader) NextFrame() (Frame, error) {
	header, err := r.reader.ReadMIMEHeader()
	if err != nil {
		if errors.Is(err, io.EOF) && len(header) == 0 {
			return Frame{}, io.EOF
		}
		return Frame{}, fmt.Errorf("reading frame header: %w", err)
	}

	lengthText := header.Get("Content-Length")
	if lengthText == "" {
		return Frame{}, errors.New("frame header has no Content-Length")
	}
	length, err := strconv.Atoi(lengthText)
	if err != nil || length < 0 {
		return Frame{}, fmt.Errorf("invalid Content-Length %q", lengthText)
	}
	if length > maxFrameSize {
		return Frame{}, fmt.Errorf("frame of %d bytes exceeds limit of %d", length, maxFrameSize)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r.reader.R, body); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return Frame{}, fmt.Errorf("reading %d byte frame body: %w", length, err)
	}

	return Frame{
		ContentLength: length,
		ContentType:   header.Get("Content-Type"),
		Body:          body,
	}, nil
}

// Next reads one frame and decodes its envelope.
func (r *FrameReader) Next() (RawEnvelope, error) {
	frame, err := r.NextFrame()
	if err != nil {
		return RawEnvelope{}, err
	}
	var envelope RawEnvelope
	if err := json.Unmarshal(frame.Body, &envelope); err != nil {
		return RawEnvelope{}, fmt.Errorf("decoding frame body: %w", err)
	}
	return envelope, nil
}

// DecodeParams unmarshals the envelope's params into target.
func (e RawEnvelope) DecodeParams(target any) error {
	if len(e.Params) == 0 {
		return fmt.Errorf("%s message has no params", e.Method)
	}
	if err := json.Unmarshal(e.Params, target); err != nil {
		return fmt.Errorf("decoding %s params: %w", e.Method, err)
	}
	return nil
}
