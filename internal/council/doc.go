// Package council defines the deliberation domain model and the reducer
// that folds stream events into conversation state.
//
// # Overview
//
// A council conversation is an ordered list of messages. User messages carry
// plain content; assistant messages are filled in stage by stage while a
// deliberation streams: stage1 holds the individual persona responses,
// stage2 the optional cross-examination round, and stage3 the chairman's
// synthesis. Each stage slot is either absent or fully populated; stages
// arrive atomically, never incrementally within a stage.
//
// # Events
//
// ParseEvent turns one decoded frame payload into a typed Event. The
// reducer, Conversation.Apply, consumes events in stream order and mutates
// exactly one message, addressed by index. Applying the same event twice is
// safe: events carry full replacement values, so the reducer is idempotent.
// Unrecognized event types are deliberate no-ops for forward compatibility.
//
// # Ownership
//
// A Conversation is owned by the caller. While a stream session is active it
// is the sole writer of the target message's stage slots; renderers observe
// state only after the session hands them an event.
package council
