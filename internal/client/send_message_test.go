// ABOUTME: Tests for the streaming deliberation session.
// ABOUTME: Covers event ordering, split frames, interruption, cancellation, and status failures.

package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/council-client/internal/council"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL + "/api"})
	require.NoError(t, err)
	return c
}

// sseHandler writes each chunk followed by a flush, so the client observes
// the exact chunk boundaries the test chooses.
func sseHandler(chunks ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		flusher := w.(http.Flusher)
		for _, chunk := range chunks {
			fmt.Fprint(w, chunk)
			flusher.Flush()
		}
	})
}

func collectEvents(t *testing.T, s *Stream) []council.Event {
	t.Helper()
	var events []council.Event
	for ev := range s.Events() {
		events = append(events, ev)
	}
	return events
}

func TestOpenStream_FullDeliberation(t *testing.T) {
	c := newTestClient(t, sseHandler(
		`data: {"type":"stage1","responses":[{"model":"m1","persona_name":"Skeptic","response":"no"}]}`+"\n",
		`data: {"type":"stage2","responses":[{"model":"m1","response":"still no"}]}`+"\n",
		`data: {"type":"stage3","response":{"model":"chair","response":"on balance, no"}}`+"\n",
		`data: {"type":"done"}`+"\n",
	))

	conv := &council.Conversation{ID: "conv-1"}
	s, err := c.OpenStream(context.Background(), conv, "should we?", []string{"skeptic"})
	require.NoError(t, err)

	events := collectEvents(t, s)
	require.NoError(t, s.Wait())

	types := make([]council.EventType, len(events))
	for i, ev := range events {
		types[i] = ev.Type
	}
	assert.Equal(t, []council.EventType{
		council.EventStage1, council.EventStage2, council.EventStage3, council.EventDone,
	}, types)

	require.Len(t, conv.Messages, 2)
	assert.Equal(t, council.RoleUser, conv.Messages[0].Role)
	assert.Equal(t, "should we?", conv.Messages[0].Content)

	m := conv.Messages[s.MessageIndex()]
	assert.False(t, m.Loading.Any())
	assert.True(t, m.Complete)
	require.Len(t, m.Stage1, 1)
	assert.Equal(t, "no", m.Stage1[0].Response)
	require.NotNil(t, m.Stage3)
	assert.Equal(t, "on balance, no", m.Stage3.Response)
}

func TestOpenStream_FrameSplitAcrossChunks(t *testing.T) {
	// One frame delivered in two arbitrary pieces must decode identically.
	c := newTestClient(t, sseHandler(
		`data: {"type":"stage1","respon`,
		`ses":[{"model":"m1","response":"hi"}]}`+"\n",
		`data: {"type":"done"}`+"\n",
	))

	conv := &council.Conversation{ID: "conv-1"}
	s, err := c.OpenStream(context.Background(), conv, "hello", nil)
	require.NoError(t, err)

	events := collectEvents(t, s)
	require.NoError(t, s.Wait())

	require.Len(t, events, 2)
	assert.Equal(t, council.EventStage1, events[0].Type)
	require.Len(t, events[0].Responses, 1)
	assert.Equal(t, "hi", events[0].Responses[0].Response)

	m := conv.Messages[s.MessageIndex()]
	require.Len(t, m.Stage1, 1)
	assert.Equal(t, "m1", m.Stage1[0].Model)
	assert.False(t, m.Loading.Any())
	assert.True(t, m.Complete)
}

func TestOpenStream_PendingMessageAppendedBeforeEvents(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		// Emit nothing; hold the stream open until the client goes away.
		<-r.Context().Done()
	}))

	conv := &council.Conversation{ID: "conv-1"}
	s, err := c.OpenStream(context.Background(), conv, "question", nil)
	require.NoError(t, err)

	// The stream has produced nothing yet, but both messages exist and the
	// assistant message is fully pending, ready for a loading indicator.
	require.Len(t, conv.Messages, 2)
	m := conv.Messages[s.MessageIndex()]
	assert.Equal(t, council.RoleAssistant, m.Role)
	assert.True(t, m.Loading.Stage1)
	assert.True(t, m.Loading.Stage2)
	assert.True(t, m.Loading.Stage3)

	s.Cancel()
	assert.ErrorIs(t, s.Wait(), ErrCanceled)
	assert.False(t, conv.Messages[s.MessageIndex()].Loading.Any())
}

func TestOpenStream_NonSuccessStatusFailsImmediately(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"detail":"Conversation not found"}`)
	}))

	conv := &council.Conversation{ID: "missing"}
	_, err := c.OpenStream(context.Background(), conv, "hello", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Contains(t, apiErr.Message, "Conversation not found")

	// The pending message must not be left dangling in loading state.
	require.Len(t, conv.Messages, 2)
	m := conv.Messages[1]
	assert.True(t, m.Failed)
	assert.False(t, m.Loading.Any())
}

func TestOpenStream_AbruptEndSynthesizesError(t *testing.T) {
	c := newTestClient(t, sseHandler(
		`data: {"type":"stage1","responses":[{"model":"m1","response":"partial"}]}`+"\n",
		// Connection closes with no done/error event.
	))

	conv := &council.Conversation{ID: "conv-1"}
	s, err := c.OpenStream(context.Background(), conv, "hello", nil)
	require.NoError(t, err)

	events := collectEvents(t, s)
	assert.ErrorIs(t, s.Wait(), ErrInterrupted)

	require.Len(t, events, 2)
	assert.Equal(t, council.EventStage1, events[0].Type)
	assert.Equal(t, council.EventError, events[1].Type)

	m := conv.Messages[s.MessageIndex()]
	assert.True(t, m.Failed)
	assert.False(t, m.Loading.Any(), "loading.stage1 must not stay true forever")
	require.Len(t, m.Stage1, 1, "received stages are retained")
	assert.Equal(t, "partial", m.Stage1[0].Response)
}

func TestOpenStream_MalformedFrameIsSkipped(t *testing.T) {
	c := newTestClient(t, sseHandler(
		`data: {"type":"stage1","responses":[{"model":"m1","response":"ok"}]}`+"\n",
		"data: {not json at all\n",
		`data: {"no_type_field":true}`+"\n",
		`data: {"type":"done"}`+"\n",
	))

	conv := &council.Conversation{ID: "conv-1"}
	s, err := c.OpenStream(context.Background(), conv, "hello", nil)
	require.NoError(t, err)

	events := collectEvents(t, s)
	require.NoError(t, s.Wait())

	require.Len(t, events, 2, "both valid frames survive the bad ones")
	assert.Equal(t, council.EventStage1, events[0].Type)
	assert.Equal(t, council.EventDone, events[1].Type)
	assert.True(t, conv.Messages[s.MessageIndex()].Complete)
}

func TestOpenStream_UnknownEventTypeIgnored(t *testing.T) {
	c := newTestClient(t, sseHandler(
		`data: {"type":"stage1_start"}`+"\n",
		`data: {"type":"stage1","responses":[{"model":"m1","response":"ok"}]}`+"\n",
		`data: {"type":"done"}`+"\n",
	))

	conv := &council.Conversation{ID: "conv-1"}
	s, err := c.OpenStream(context.Background(), conv, "hello", nil)
	require.NoError(t, err)

	events := collectEvents(t, s)
	require.NoError(t, s.Wait())

	require.Len(t, events, 3)
	assert.Equal(t, council.EventType("stage1_start"), events[0].Type)
	m := conv.Messages[s.MessageIndex()]
	require.Len(t, m.Stage1, 1)
}

func TestOpenStream_CancelStopsSessionAndKeepsState(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		flusher := w.(http.Flusher)
		fmt.Fprint(w, `data: {"type":"stage1","responses":[{"model":"m1","response":"early"}]}`+"\n")
		flusher.Flush()
		// Hold the stream open until the client goes away.
		<-r.Context().Done()
	}))

	conv := &council.Conversation{ID: "conv-1"}
	s, err := c.OpenStream(context.Background(), conv, "hello", nil)
	require.NoError(t, err)

	select {
	case ev := <-s.Events():
		require.Equal(t, council.EventStage1, ev.Type)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for stage1")
	}

	s.Cancel()
	assert.ErrorIs(t, s.Wait(), ErrCanceled)

	m := conv.Messages[s.MessageIndex()]
	assert.False(t, m.Loading.Any(), "cancellation must not leave the message loading")
	require.Len(t, m.Stage1, 1, "already-applied state survives cancellation")
}

func TestOpenStream_TitleEventUpdatesConversation(t *testing.T) {
	c := newTestClient(t, sseHandler(
		`data: {"type":"title","title":"First question"}`+"\n",
		`data: {"type":"done"}`+"\n",
	))

	conv := &council.Conversation{ID: "conv-1"}
	s, err := c.OpenStream(context.Background(), conv, "hello", nil)
	require.NoError(t, err)

	collectEvents(t, s)
	require.NoError(t, s.Wait())
	assert.Equal(t, "First question", conv.Title)
}

func TestOpenStream_ProtocolErrorResolution(t *testing.T) {
	c := newTestClient(t, sseHandler(
		`data: {"type":"error","message":"model quota exceeded"}`+"\n",
	))

	conv := &council.Conversation{ID: "conv-1"}
	s, err := c.OpenStream(context.Background(), conv, "hello", nil)
	require.NoError(t, err)

	collectEvents(t, s)

	var protoErr *ProtocolError
	require.ErrorAs(t, s.Wait(), &protoErr)
	assert.Equal(t, "model quota exceeded", protoErr.Message)

	m := conv.Messages[s.MessageIndex()]
	assert.True(t, m.Failed)
	assert.Equal(t, "model quota exceeded", m.FailureReason)
}
