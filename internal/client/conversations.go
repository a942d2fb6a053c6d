// ABOUTME: Conversation CRUD calls: create, list, and fetch.
// ABOUTME: Simple request/response wrappers with no client-side state mutation.

package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/2389/council-client/internal/council"
)

// CreateConversation creates an empty conversation on the backend and
// returns it.
func (c *Client) CreateConversation(ctx context.Context) (*council.Conversation, error) {
	var conv council.Conversation
	if err := c.doJSON(ctx, http.MethodPost, "/conversations", struct{}{}, &conv); err != nil {
		return nil, fmt.Errorf("creating conversation: %w", err)
	}
	return &conv, nil
}

// ListConversations returns metadata for every conversation.
func (c *Client) ListConversations(ctx context.Context) ([]council.ConversationMetadata, error) {
	var list []council.ConversationMetadata
	if err := c.doJSON(ctx, http.MethodGet, "/conversations", nil, &list); err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	return list, nil
}

// GetConversation fetches one conversation with its full message history.
func (c *Client) GetConversation(ctx context.Context, id string) (*council.Conversation, error) {
	if id == "" {
		return nil, fmt.Errorf("conversation id is required")
	}
	var conv council.Conversation
	if err := c.doJSON(ctx, http.MethodGet, "/conversations/"+url.PathEscape(id), nil, &conv); err != nil {
		return nil, fmt.Errorf("fetching conversation: %w", err)
	}
	return &conv, nil
}
