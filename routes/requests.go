package routes

import (
	"github.com/kbukum/streamhub/sse"
	"github.com/kbukum/streamhub/validation"
)

// EventRequest is the body of POST /streams/:key/events. It takes one of
// three forms:
//
//	{"data": "..."}                    data frame
//	{"event": "...", "data": "..."}    named event
//	{"field": "...", "value": "..."}   bare field line
type EventRequest struct {
	Event string  `json:"event,omitempty" validate:"omitempty,singleline,max=128"`
	Data  *string `json:"data,omitempty"`
	Field string  `json:"field,omitempty" validate:"omitempty,fieldname,max=128"`
	Value *string `json:"value,omitempty" validate:"omitempty,singleline"`
}

// Validate checks the struct tags, then that exactly one form is present.
func (r *EventRequest) Validate() error {
	if err := validation.Validate(r); err != nil {
		return err
	}
	v := validation.New()
	if r.Field != "" {
		v.Custom(r.Value != nil, "value", "is required with field")
		v.Custom(r.Data == nil, "data", "cannot be combined with field")
		v.Custom(r.Event == "", "event", "cannot be combined with field")
	} else {
		v.Custom(r.Data != nil, "data", "is required unless field is set")
		v.Custom(r.Value == nil, "value", "requires field")
	}
	return v.Err()
}

// Kind names the frame the request writes.
func (r *EventRequest) Kind() string {
	switch {
	case r.Field != "":
		return sse.FrameField
	case r.Event != "":
		return sse.FrameEvent
	default:
		return sse.FrameData
	}
}

// WriteTo writes the frame to s. Call Validate first.
func (r *EventRequest) WriteTo(s sse.Stream) error {
	switch r.Kind() {
	case sse.FrameField:
		return s.WriteField(r.Field, *r.Value)
	case sse.FrameEvent:
		return s.WriteEvent(sse.Event{Event: r.Event, Data: *r.Data})
	default:
		return s.Write(*r.Data)
	}
}

// BroadcastRequest is the body of POST /broadcast.
type BroadcastRequest struct {
	Pattern string `json:"pattern" validate:"required,glob"`
	Event   string `json:"event,omitempty" validate:"omitempty,singleline,max=128"`
	Data    string `json:"data"`
}

// Validate checks the struct tags.
func (r *BroadcastRequest) Validate() error {
	return validation.Validate(r)
}

// PublishResponse acknowledges a write.
type PublishResponse struct {
	Key      string `json:"key"`
	StreamID string `json:"stream_id"`
	Kind     string `json:"kind"`
}

// BroadcastResponse reports how many streams accepted a broadcast.
type BroadcastResponse struct {
	Pattern   string `json:"pattern"`
	Delivered int    `json:"delivered"`
}
