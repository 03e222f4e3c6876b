package sse

import (
	"strings"

	apperrors "github.com/kbukum/streamhub/errors"
)

// Frame kinds, used as metric labels and in log fields.
const (
	FrameData    = "data"
	FrameField   = "field"
	FrameEvent   = "event"
	FrameComment = "comment"
)

// KeepAliveComment is the comment text written on the keep-alive interval.
const KeepAliveComment = "keepalive"

// Event is one SSE record: an optional event name and a data payload.
// Multi-line data is written as one data line per line.
type Event struct {
	Event string `json:"event,omitempty"`
	Data  string `json:"data"`
}

// Bytes renders the event as
//
//	event: <name>\n      (only when Event is set)
//	data: <line>\n       (one per line of Data)
//	\n
func (e Event) Bytes() []byte {
	var b strings.Builder
	if e.Event != "" {
		b.WriteString("event: ")
		b.WriteString(e.Event)
		b.WriteByte('\n')
	}
	for _, line := range splitLines(e.Data) {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

// Validate rejects event names that would break the record framing.
func (e Event) Validate() error {
	if strings.ContainsAny(e.Event, "\r\n") {
		return apperrors.InvalidInput("event", "event name must be a single line")
	}
	return nil
}

// DataFrame renders `data: <payload>\n\n`. A payload containing newlines
// is split across several data lines so the frame stays well-formed.
func DataFrame(payload string) []byte {
	return Event{Data: payload}.Bytes()
}

// FieldLine renders a bare `<field>: <value>\n` line with no terminating
// blank line.
func FieldLine(field, value string) ([]byte, error) {
	if field == "" || strings.ContainsAny(field, ":\r\n") {
		return nil, apperrors.InvalidInput("field", "field name must be non-empty and contain no colon or newline")
	}
	if strings.ContainsAny(value, "\r\n") {
		return nil, apperrors.InvalidInput("value", "field value must be a single line")
	}
	return []byte(field + ": " + value + "\n"), nil
}

// Comment renders `: <text>\n\n`. Clients ignore comments, which makes them
// useful for keep-alives.
func Comment(text string) []byte {
	var b strings.Builder
	for _, line := range splitLines(text) {
		b.WriteString(": ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}
