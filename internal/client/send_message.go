// ABOUTME: Opens one streaming deliberation: POST message/stream and wire up the session.
// ABOUTME: Appends the pending assistant message synchronously before dialing.

package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/2389/council-client/internal/council"
)

// streamBufferSize is the event channel buffer for a stream session. A
// deliberation emits a handful of events; 64 gives slow consumers slack.
const streamBufferSize = 64

// sendMessageRequest is the JSON body for POST /conversations/{id}/message/stream.
// A nil PersonaIDs marshals as null, letting the backend pick its defaults.
type sendMessageRequest struct {
	Content    string   `json:"content"`
	PersonaIDs []string `json:"persona_ids"`
}

// OpenStream sends content as a new user message on conv and streams the
// council's staged response into a freshly appended assistant message.
//
// The user message and a pending assistant message are appended to conv
// before any network activity, so renderers can show the loading state
// immediately. While the returned Stream is live it is the sole writer of
// that assistant message's stage slots.
//
// If the connection cannot be established, or the server answers with a
// non-success status, the pending message is transitioned to failed and an
// error is returned; it never stays loading.
func (c *Client) OpenStream(ctx context.Context, conv *council.Conversation, content string, personaIDs []string) (*Stream, error) {
	if conv == nil || conv.ID == "" {
		return nil, fmt.Errorf("conversation with an id is required")
	}
	if content == "" {
		return nil, fmt.Errorf("message content is required")
	}

	conv.AppendUser(content)
	msgIndex := conv.AppendPendingAssistant()

	ctx, cancel := context.WithCancel(ctx)

	path := "/conversations/" + url.PathEscape(conv.ID) + "/message/stream"
	req, err := c.newRequest(ctx, http.MethodPost, path, sendMessageRequest{
		Content:    content,
		PersonaIDs: personaIDs,
	})
	if err != nil {
		cancel()
		conv.Apply(msgIndex, council.Event{Type: council.EventError, Message: err.Error()})
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpc.Do(req)
	if err != nil {
		cancel()
		conv.Apply(msgIndex, council.Event{Type: council.EventError, Message: err.Error()})
		return nil, fmt.Errorf("opening stream: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := readAPIError(resp)
		resp.Body.Close()
		cancel()
		conv.Apply(msgIndex, council.Event{Type: council.EventError, Message: apiErr.Error()})
		return nil, apiErr
	}

	s := &Stream{
		id:       uuid.New().String(),
		conv:     conv,
		msgIndex: msgIndex,
		events:   make(chan council.Event, streamBufferSize),
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
	s.logger = c.logger.With("stream_id", s.id, "conversation_id", conv.ID)

	go s.run(resp.Body)

	return s, nil
}
