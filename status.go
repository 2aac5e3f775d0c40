package jsonhttp

import (
	"fmt"
	"net/http"
)

// Status is a response status line: a code plus the message transmitted in
// the reason phrase. The message carries pipeline diagnostics ("Expected
// POST got GET", "POST Query OK") and is part of the wire contract even
// though net/http cannot transmit custom reason phrases; the Recorder keeps
// it for transports and tests that can.
type Status struct {
	Code    int
	Message string
}

// StatusOf returns the status for code with its default message
// (http.StatusText).
func StatusOf(code int) Status {
	return Status{Code: code, Message: http.StatusText(code)}
}

// WithMessage returns a copy of s with the given message.
func (s Status) WithMessage(message string) Status {
	s.Message = message
	return s
}

// WithMessageOrDefault returns a copy of s with the given message, keeping
// the default message when the given one is empty. Error values are not
// required to carry a message.
func (s Status) WithMessageOrDefault(message string) Status {
	if message == "" {
		return StatusOf(s.Code)
	}
	s.Message = message
	return s
}

// String renders the status as it would appear in a status line.
func (s Status) String() string {
	return fmt.Sprintf("%d %s", s.Code, s.Message)
}
