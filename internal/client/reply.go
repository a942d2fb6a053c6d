// ABOUTME: Non-streaming reply sub-flow addressed at one persona.
// ABOUTME: Carries a persona identity snapshot, not a live reference.

package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/2389/council-client/internal/council"
)

// replyRequest is the JSON body for POST /conversations/{id}/reply.
type replyRequest struct {
	Content string          `json:"content"`
	Persona council.Persona `json:"persona"`
}

// Reply sends a user-authored reply targeted at the given persona identity.
// The persona is a snapshot taken when the user chose to reply; it stays
// valid even if the underlying response object has since been replaced.
//
// On success the backend has accepted and stored the exchange; callers
// re-fetch the conversation to observe it. On failure nothing was mutated.
func (c *Client) Reply(ctx context.Context, conversationID, content string, persona council.Persona) (*council.PersonaResponse, error) {
	if conversationID == "" {
		return nil, fmt.Errorf("conversation id is required")
	}
	if content == "" {
		return nil, fmt.Errorf("reply content is required")
	}

	path := "/conversations/" + url.PathEscape(conversationID) + "/reply"
	var ack council.PersonaResponse
	if err := c.doJSON(ctx, http.MethodPost, path, replyRequest{Content: content, Persona: persona}, &ack); err != nil {
		return nil, fmt.Errorf("sending reply: %w", err)
	}
	return &ack, nil
}
