package ollama

import (
	"bytes"
	"errors"
	"io"
	"log"

	"github.com/tidwall/gjson"

	"proof/internal/models"
)

const readChunkSize = 4 << 10

// LineDecoder splits an arbitrarily fragmented byte stream into
// newline-terminated lines. Bytes that do not yet form a full line are kept
// until a later Feed completes them.
type LineDecoder struct {
	buf []byte
}

// Feed appends p and returns every line completed by it, in arrival order.
// Returned lines include their trailing newline and do not alias p or the
// decoder's buffer.
func (d *LineDecoder) Feed(p []byte) [][]byte {
	d.buf = append(d.buf, p...)

	var lines [][]byte
	start := 0
	for {
		i := bytes.IndexByte(d.buf[start:], '\n')
		if i < 0 {
			break
		}
		end := start + i + 1
		line := make([]byte, end-start)
		copy(line, d.buf[start:end])
		lines = append(lines, line)
		start = end
	}
	if start > 0 {
		n := copy(d.buf, d.buf[start:])
		d.buf = d.buf[:n]
	}
	return lines
}

// Flush returns the buffered partial line, if any, and resets the decoder.
func (d *LineDecoder) Flush() []byte {
	if len(d.buf) == 0 {
		return nil
	}
	rest := make([]byte, len(d.buf))
	copy(rest, d.buf)
	d.buf = d.buf[:0]
	return rest
}

// Buffered reports how many bytes are waiting for a newline.
func (d *LineDecoder) Buffered() int {
	return len(d.buf)
}

// StreamListener receives the events decoded from a generation stream.
type StreamListener interface {
	OnToken(fragment string)
	OnDone()
}

// ListenerFuncs adapts plain functions to StreamListener. Nil fields are
// ignored.
type ListenerFuncs struct {
	Token func(fragment string)
	Done  func()
}

func (l ListenerFuncs) OnToken(fragment string) {
	if l.Token != nil {
		l.Token(fragment)
	}
}

func (l ListenerFuncs) OnDone() {
	if l.Done != nil {
		l.Done()
	}
}

// lineKind classifies one decoded stream line.
type lineKind int

const (
	lineSkip lineKind = iota
	lineToken
	lineDone
)

// ParseChunk interprets one stream line. ok is false for blank lines, lines
// that are not JSON, and objects that carry neither a string "response" nor
// "done": true.
func ParseChunk(line []byte) (chunk models.GenerationChunk, ok bool) {
	kind, fragment := classifyLine(line)
	switch kind {
	case lineDone:
		return models.GenerationChunk{Done: true}, true
	case lineToken:
		return models.GenerationChunk{Response: fragment}, true
	}
	return models.GenerationChunk{}, false
}

func classifyLine(line []byte) (lineKind, string) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return lineSkip, ""
	}
	if !gjson.ValidBytes(line) {
		log.Printf("ollama: discarding malformed stream line: %q", line)
		return lineSkip, ""
	}
	res := gjson.ParseBytes(line)
	if !res.IsObject() {
		log.Printf("ollama: discarding non-object stream line: %q", line)
		return lineSkip, ""
	}
	if done := res.Get("done"); done.Type == gjson.True {
		return lineDone, ""
	}
	if resp := res.Get("response"); resp.Type == gjson.String {
		return lineToken, resp.String()
	}
	return lineSkip, ""
}

// DecodeStream reads r fragment by fragment and relays token and done events
// to l. It stops after the first done line or at end of input; a trailing
// line without a newline is still decoded. Read errors other than io.EOF are
// returned unchanged.
func DecodeStream(r io.Reader, l StreamListener) error {
	var (
		dec LineDecoder
		buf = make([]byte, readChunkSize)
	)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			for _, line := range dec.Feed(buf[:n]) {
				if relayLine(line, l) {
					return nil
				}
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				if rest := dec.Flush(); rest != nil {
					relayLine(rest, l)
				}
				return nil
			}
			return err
		}
	}
}

// relayLine emits the event for line and reports whether it ended the stream.
func relayLine(line []byte, l StreamListener) bool {
	chunk, ok := ParseChunk(line)
	if !ok {
		return false
	}
	if chunk.Done {
		l.OnDone()
		return true
	}
	l.OnToken(chunk.Response)
	return false
}
