// ABOUTME: Reducer folding stream events into a conversation's message state.
// ABOUTME: Idempotent; stage events replace slots wholesale and clear loading flags.

package council

// Apply folds one event into the message at index. Events are consumed in
// stream order; applying the same event twice leaves the state unchanged
// because stage events carry full replacement values.
//
// Stage slices are copied on write so no two messages ever alias the same
// backing array. An index outside the message list is ignored.
func (c *Conversation) Apply(index int, ev Event) {
	if index < 0 || index >= len(c.Messages) {
		return
	}
	m := &c.Messages[index]

	switch ev.Type {
	case EventStage1:
		m.Stage1 = append([]PersonaResponse(nil), ev.Responses...)
		m.Loading.Stage1 = false

	case EventStage2:
		m.Stage2 = append([]PersonaResponse(nil), ev.Responses...)
		m.Loading.Stage2 = false

	case EventStage3:
		if ev.Response != nil {
			r := *ev.Response
			m.Stage3 = &r
		}
		m.Loading.Stage3 = false

	case EventDone:
		// A stage the backend skipped never arrives; clear whatever is
		// still pending so the message cannot stay loading after the
		// stream completes.
		m.Loading = Loading{}
		m.Complete = true

	case EventError:
		m.Failed = true
		m.FailureReason = ev.Message
		m.Loading = Loading{}

	case EventTitle:
		if ev.Title != "" {
			c.Title = ev.Title
		}

	default:
		// Unrecognized event type: no state change.
	}
}
