// ABOUTME: Stream session: drives the SSE decode → parse → reduce pipeline.
// ABOUTME: Synthesizes an error when the stream ends without done/error.

package client

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/2389/council-client/internal/council"
	"github.com/2389/council-client/internal/sse"
)

// ErrCanceled is returned by Wait when the caller canceled the stream.
var ErrCanceled = errors.New("stream canceled")

// ErrInterrupted is returned by Wait when the connection ended before the
// backend sent a terminal done or error event.
var ErrInterrupted = errors.New("stream ended before completion")

// ProtocolError is an explicit error event sent by the backend. It is
// terminal for the affected message.
type ProtocolError struct {
	Message string
}

func (e *ProtocolError) Error() string {
	return "council error: " + e.Message
}

// Stream is one live deliberation session. It owns its decode buffer and
// the response body, and is the sole writer of the target message's stage
// slots until it finishes.
//
// Events are delivered on Events() in stream order, one at a time, after
// the reducer has applied them; a consumer that observes an event may read
// the conversation state it produced. The channel closes when the session
// ends; Wait then reports the terminal resolution.
type Stream struct {
	id       string
	conv     *council.Conversation
	msgIndex int
	events   chan council.Event
	done     chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *slog.Logger

	// err is written once by run before done is closed.
	err error
}

// Events returns the session's event channel. It is closed when the stream
// terminates, whether normally, by error, or by cancellation.
func (s *Stream) Events() <-chan council.Event {
	return s.events
}

// MessageIndex returns the index of the assistant message this session
// writes to.
func (s *Stream) MessageIndex() int {
	return s.msgIndex
}

// Cancel stops the session. The read loop exits at its next suspension
// point and the connection is released. State already applied by the
// reducer is kept; only the still-pending loading flags are cleared.
func (s *Stream) Cancel() {
	s.cancel()
}

// Wait blocks until the session ends and returns its terminal resolution:
// nil after a done event, a *ProtocolError after a backend error event,
// ErrCanceled after Cancel, or ErrInterrupted when the connection dropped
// mid-stream.
func (s *Stream) Wait() error {
	<-s.done
	return s.err
}

// run is the session read loop. It consumes the response body chunk by
// chunk, feeds the frame decoder, and dispatches each parsed event. One
// malformed frame is logged and skipped; it never aborts the session.
func (s *Stream) run(body io.ReadCloser) {
	defer close(s.done)
	defer s.cancel()

	dec := sse.NewDecoder()
	buf := make([]byte, 4096)
	var readErr error
	terminal := false

loop:
	for {
		n, err := body.Read(buf)
		if n > 0 {
			for _, payload := range dec.Feed(string(buf[:n])) {
				ev, perr := council.ParseEvent([]byte(payload))
				if perr != nil {
					s.logger.Warn("skipping malformed frame", "error", perr)
					continue
				}
				s.dispatch(ev)
				if ev.Terminal() {
					if ev.Type == council.EventError {
						s.err = &ProtocolError{Message: ev.Message}
					}
					terminal = true
					break loop
				}
			}
		}
		if err != nil {
			if err != io.EOF {
				readErr = err
			}
			break
		}
	}

	body.Close()

	if terminal {
		close(s.events)
		return
	}

	if residual := dec.Residual(); residual != "" {
		s.logger.Debug("discarding incomplete frame at end of stream",
			"residual_bytes", len(residual))
	}

	if s.ctx.Err() != nil {
		// Canceled by the caller: clear the loading flags so the message
		// is never stuck pending, but dispatch nothing further.
		s.conv.Apply(s.msgIndex, council.Event{
			Type:    council.EventError,
			Message: "canceled",
		})
		s.err = ErrCanceled
		close(s.events)
		return
	}

	// The connection ended without a terminal event. Synthesize an error
	// so the message cannot remain loading forever; stages that already
	// arrived stay visible.
	ev := council.Event{Type: council.EventError, Message: ErrInterrupted.Error()}
	if readErr != nil {
		ev.Message = readErr.Error()
		s.logger.Warn("stream read failed", "error", readErr)
	}
	s.dispatch(ev)
	s.err = ErrInterrupted
	close(s.events)
}

// dispatch applies ev to the target message, then hands it to the consumer.
// Delivery is non-blocking: a consumer that stopped draining a full buffer
// loses the notification but the reducer state is already current.
func (s *Stream) dispatch(ev council.Event) {
	s.conv.Apply(s.msgIndex, ev)
	select {
	case s.events <- ev:
	default:
		s.logger.Warn("dropping event for slow consumer", "type", string(ev.Type))
	}
}
