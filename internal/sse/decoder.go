// ABOUTME: Incremental decoder for "data: "-prefixed SSE frames.
// ABOUTME: Carries residual text across chunk boundaries so split frames survive.

package sse

import "strings"

// dataPrefix marks protocol-relevant frame lines. Everything else on the
// stream (blank lines, ": keep-alive" comments) is discarded.
const dataPrefix = "data: "

// Decoder reassembles an SSE chunk stream into complete frame payloads.
// A frame is complete only when its terminating newline has been observed;
// text after the last newline in a chunk is buffered and prepended to the
// next chunk. The zero value is ready to use.
type Decoder struct {
	residual string
}

// NewDecoder returns an empty Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed consumes one delivery chunk and returns the payloads of every frame
// completed by it, in stream order. The returned payloads have the "data: "
// prefix and line terminator stripped. Chunks may split frames at any byte;
// Feed never yields a partial frame.
func (d *Decoder) Feed(chunk string) []string {
	d.residual += chunk

	var payloads []string
	for {
		i := strings.IndexByte(d.residual, '\n')
		if i < 0 {
			break
		}
		line := d.residual[:i]
		d.residual = d.residual[i+1:]

		// Tolerate CRLF line endings from proxies.
		line = strings.TrimSuffix(line, "\r")

		if strings.HasPrefix(line, dataPrefix) {
			payloads = append(payloads, strings.TrimPrefix(line, dataPrefix))
		}
	}
	return payloads
}

// Residual returns any buffered text that has not yet been terminated by a
// newline. At end-of-stream a non-empty residual is an incomplete frame and
// must be discarded, never parsed.
func (d *Decoder) Residual() string {
	return d.residual
}
