// Package protocol implements the CRLF line framing of the chat wire protocol.
//
// A frame is the bytes strictly before a "\r\n" terminator. There is no length
// prefix and no escaping: a CRLF inside a logical message is a frame boundary.
package protocol

import (
	"bytes"
	goerrors "errors"
	"io"
	"lanchat/errors"
)

var terminator = []byte("\r\n")

// Encode appends the terminator to a line.
func Encode(line string) []byte {
	frame := make([]byte, 0, len(line)+len(terminator))
	frame = append(frame, line...)
	return append(frame, terminator...)
}

// LineDecoder accumulates received bytes and splits them into frames.
type LineDecoder struct {
	buf []byte
}

// Feed appends freshly received bytes.
func (d *LineDecoder) Feed(p []byte) {
	d.buf = append(d.buf, p...)
}

// Next pops the first complete frame. false means more data is needed.
func (d *LineDecoder) Next() ([]byte, bool) {
	i := bytes.Index(d.buf, terminator)
	if i < 0 {
		return nil, false
	}
	frame := make([]byte, i)
	copy(frame, d.buf[:i])
	n := copy(d.buf, d.buf[i+len(terminator):])
	d.buf = d.buf[:n]
	return frame, true
}

// Pending returns the number of buffered bytes not yet part of a frame.
func (d *LineDecoder) Pending() int {
	return len(d.buf)
}

// ReadFrames reads from r until the stream ends, handing every complete frame to fn
// before the next read. A clean end of stream returns nil and drops unterminated bytes.
func ReadFrames(r io.Reader, d *LineDecoder, buf []byte, fn func(frame []byte)) error {
	for {
		n, err := r.Read(buf)
		if n > 0 {
			d.Feed(buf[:n])
			for frame, ok := d.Next(); ok; frame, ok = d.Next() {
				fn(frame)
			}
		}
		if goerrors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// LineEncoder buffers outgoing frames until they are flushed to the socket.
type LineEncoder struct {
	buf []byte
}

// Buffer queues a frame for the next Flush. It never touches the socket.
func (e *LineEncoder) Buffer(frame []byte) {
	e.buf = append(e.buf, frame...)
}

// Buffered returns the number of bytes waiting for Flush.
func (e *LineEncoder) Buffered() int {
	return len(e.buf)
}

// Flush writes buffered bytes to w, dropping exactly the bytes w accepted.
// Unwritten bytes stay buffered for the next call.
func (e *LineEncoder) Flush(w io.Writer) error {
	for len(e.buf) > 0 {
		n, err := w.Write(e.buf)
		if n > 0 {
			rest := copy(e.buf, e.buf[n:])
			e.buf = e.buf[:rest]
		}
		if err != nil {
			return err
		}
		if n == 0 {
			return errors.ErrZeroWrite
		}
	}
	return nil
}
