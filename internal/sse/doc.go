// Package sse decodes Server-Sent Event frames from a chunked byte stream.
//
// # Overview
//
// The council backend streams deliberation results as newline-terminated
// frames of the form:
//
//	data: {"type":"stage1","responses":[...]}
//
// The network delivers those frames in chunks whose boundaries have no
// relationship to frame boundaries: a chunk may end mid-frame, mid-field,
// or carry several complete frames at once. Decoder reassembles the chunk
// stream into complete frame payloads, carrying any unterminated residual
// text across Feed calls so that a frame split between two reads is never
// dropped or corrupted.
//
// Lines that do not begin with the "data: " prefix (blank keep-alive lines,
// SSE comments) are discarded.
//
// # Usage
//
//	dec := sse.NewDecoder()
//	for each network chunk {
//		for _, payload := range dec.Feed(chunk) {
//			// payload is one complete frame body, prefix and
//			// terminator stripped
//		}
//	}
package sse
