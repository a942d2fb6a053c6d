// ABOUTME: Typed stream event union and the frame-payload parser.
// ABOUTME: One JSON frame payload becomes one Event; bad frames fail locally.

package council

import (
	"encoding/json"
	"fmt"
)

// EventType discriminates stream events.
type EventType string

// Recognized event types. Anything else on the wire is carried through as
// an unrecognized Event and ignored by the reducer.
const (
	EventStage1 EventType = "stage1"
	EventStage2 EventType = "stage2"
	EventStage3 EventType = "stage3"
	EventDone   EventType = "done"
	EventError  EventType = "error"
	EventTitle  EventType = "title"
)

// Event is one decoded deliberation event. Only the fields relevant to its
// Type are populated: Responses for stage1/stage2, Response for stage3,
// Message for error, Title for title.
type Event struct {
	Type      EventType
	Responses []PersonaResponse
	Response  *PersonaResponse
	Message   string
	Title     string
}

// Terminal reports whether the event ends the stream for its message.
func (e Event) Terminal() bool {
	return e.Type == EventDone || e.Type == EventError
}

// wireEvent is the superset JSON shape of every event type.
type wireEvent struct {
	Type      string            `json:"type"`
	Responses []PersonaResponse `json:"responses"`
	Response  *PersonaResponse  `json:"response"`
	Message   string            `json:"message"`
	Title     string            `json:"title"`
}

// ParseEvent parses one frame payload into an Event. A payload that is not
// valid JSON or lacks the type discriminator is a frame error: the caller
// logs and skips it, and the stream continues. Unknown type values parse
// successfully so the reducer can treat them as no-ops.
func ParseEvent(payload []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(payload, &w); err != nil {
		return Event{}, fmt.Errorf("parsing event payload: %w", err)
	}
	if w.Type == "" {
		return Event{}, fmt.Errorf("event payload missing type field")
	}
	return Event{
		Type:      EventType(w.Type),
		Responses: w.Responses,
		Response:  w.Response,
		Message:   w.Message,
		Title:     w.Title,
	}, nil
}
