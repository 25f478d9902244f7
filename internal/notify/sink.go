// Package notify delivers fire-and-forget notifications about pricing
// changes. The engine never consumes a return value from a sink; delivery
// problems are logged and swallowed.
package notify

import (
	"context"
	"log"
	"time"
)

// Kind tags a notification as a success confirmation or an error.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Event is the serialized notification payload.
type Event struct {
	Kind    Kind      `json:"kind"`
	CourtID string    `json:"court_id"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Sink receives pricing notifications.
type Sink interface {
	Success(ctx context.Context, courtID, message string)
	Error(ctx context.Context, courtID, message string)
}

// LogSink writes notifications to the process log. It is the fallback when
// no message broker is configured.
type LogSink struct{}

// NewLogSink returns a log-backed sink.
func NewLogSink() LogSink {
	return LogSink{}
}

func (LogSink) Success(_ context.Context, courtID, message string) {
	log.Printf("pricing notification [success] court=%s: %s", courtID, message)
}

func (LogSink) Error(_ context.Context, courtID, message string) {
	log.Printf("pricing notification [error] court=%s: %s", courtID, message)
}
