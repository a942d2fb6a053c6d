// Package client implements the HTTP client for the council backend.
//
// # Overview
//
// The client wraps the backend's REST surface (personas, conversation CRUD,
// the reply sub-flow) and the streaming deliberation endpoint. Simple calls
// are one-shot request/response wrappers. OpenStream is the interesting
// path: it drives the SSE decode → event parse → reducer pipeline for one
// deliberation, surfacing events to the caller in stream order and
// resolving a terminal success or failure when the connection ends.
//
// # Operations
//
//   - ListPersonas: fetch the server's persona catalog
//   - CreateConversation / ListConversations / GetConversation
//   - OpenStream: send a question and stream the three council stages
//   - Reply: append a user reply addressed at one persona
//
// # Configuration
//
// All state is explicit: a Client is built from a Config carrying the base
// URL, bearer token, timeout, and logger. There is no package-level default
// client and no ambient base URL.
//
//	c, err := client.New(client.Config{BaseURL: "http://localhost:8001"})
//	stream, err := c.OpenStream(ctx, conv, "should we?", nil)
//	for ev := range stream.Events() {
//		// render conv; ev arrived in stream order
//	}
//	err = stream.Wait()
package client
