package messaging

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"sync"
)

// ContentType is the value of the Content-Type header on every frame.
const ContentType = "application/vscode-jsonrpc; charset=utf-8"

// Sender accepts messages for delivery. Framer is the only
// implementation that writes to the real output channel.
type Sender interface {
	Send(message Message) error
}

// Framer writes Content-Length framed messages to a shared writer.
// Each frame reaches the writer in a single Write call made while
// holding the Framer's lock, so concurrent senders never interleave.
type Framer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewFramer returns a Framer writing to out. The Framer takes no
// ownership of out and never closes it.
func NewFramer(out io.Writer) *Framer {
	return &Framer{out: out}
}

// Send encodes message compactly and writes it as one frame.
func (f *Framer) Send(message Message) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("encoding %s message: %w", message.Method(), err)
	}
	frame := AppendFrame(make([]byte, 0, len(body)+96), body)

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.out.Write(frame); err != nil {
		return fmt.Errorf("writing %s message: %w", message.Method(), err)
	}
	return nil
}

// AppendFrame appends the header block and body to dst. The declared
// length is len(body) in bytes. Nothing follows the body.
func AppendFrame(dst, body []byte) []byte {
	dst = append(dst, "Content-Length: "...)
	dst = strconv.AppendInt(dst, int64(len(body)), 10)
	dst = append(dst, "\r\nContent-Type: "...)
	dst = append(dst, ContentType...)
	dst = append(dst, "\r\n\r\n"...)
	return append(dst, body...)
}
