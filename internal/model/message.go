package model

import "time"

// ErrorKind classifies a marketplace failure.
type ErrorKind string

const (
	ErrSessionExpired   ErrorKind = "session_expired"
	ErrPermissionDenied ErrorKind = "permission_denied"
	ErrTransient        ErrorKind = "transient"
)

// Message is the one-directional worker-to-scheduler union. Exactly one
// concrete shape per message; consumers dispatch on the dynamic type.
type Message interface {
	message()
}

// ErrorReport carries a classified marketplace failure out of a worker.
type ErrorReport struct {
	Kind   ErrorKind `json:"kind"`
	Detail string    `json:"detail"`
	Code   int       `json:"code,omitempty"`
}

// CycleResult reports one bidding cycle's outcome.
type CycleResult struct {
	Won  int `json:"won"`
	Sold int `json:"sold"`
}

// PriceSnapshot wraps a watcher aggregate.
type PriceSnapshot struct {
	Snapshot Snapshot `json:"snapshot"`
}

// LogLine is a timestamped human-readable event.
type LogLine struct {
	Time time.Time `json:"time"`
	Text string    `json:"text"`
}

func (ErrorReport) message()   {}
func (CycleResult) message()   {}
func (PriceSnapshot) message() {}
func (LogLine) message()       {}
