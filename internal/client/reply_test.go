// ABOUTME: Tests for the persona reply sub-flow.
// ABOUTME: Covers the identity snapshot body, failures, and stream independence.

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/council-client/internal/council"
)

func TestReply_SendsPersonaSnapshot(t *testing.T) {
	var got replyRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/conversations/conv-1/reply", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"model":"m1","persona_name":"Skeptic","response":"fine, but consider..."}`)
	}))

	persona := council.Persona{Name: "Skeptic", Model: "m1", SystemPrompt: "You are The Skeptic."}
	ack, err := c.Reply(context.Background(), "conv-1", "but why?", persona)

	require.NoError(t, err)
	assert.Equal(t, "but why?", got.Content)
	assert.Equal(t, "Skeptic", got.Persona.Name)
	assert.Equal(t, "m1", got.Persona.Model)
	assert.Equal(t, "fine, but consider...", ack.Response)
}

func TestReply_FailurePropagatesWithoutMutation(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `{"detail":"persona model unavailable"}`)
	}))

	_, err := c.Reply(context.Background(), "conv-1", "hello?", council.Persona{Model: "m1"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
}

func TestReply_RequiresContentAndConversation(t *testing.T) {
	c, err := New(Config{BaseURL: "http://localhost:0"})
	require.NoError(t, err)

	_, err = c.Reply(context.Background(), "", "hi", council.Persona{})
	assert.Error(t, err)

	_, err = c.Reply(context.Background(), "conv-1", "", council.Persona{})
	assert.Error(t, err)
}

// A reply is a one-shot request independent of any in-flight stream: it must
// complete while another conversation's deliberation is still streaming.
func TestReply_IndependentOfConcurrentStream(t *testing.T) {
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/api/conversations/streaming/message/stream", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		<-release
		fmt.Fprint(w, "data: {\"type\":\"done\"}\n")
	})
	mux.HandleFunc("/api/conversations/other/reply", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"model":"m1","persona_name":"Skeptic","response":"ack"}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL + "/api", Timeout: 5 * time.Second})
	require.NoError(t, err)

	conv := &council.Conversation{ID: "streaming"}
	s, err := c.OpenStream(context.Background(), conv, "slow question", nil)
	require.NoError(t, err)

	// While the stream is held open, the reply still goes through.
	ack, err := c.Reply(context.Background(), "other", "quick reply",
		council.Persona{Name: "Skeptic", Model: "m1"})
	require.NoError(t, err)
	assert.Equal(t, "ack", ack.Response)

	close(release)
	collectEvents(t, s)
	require.NoError(t, s.Wait())
}
