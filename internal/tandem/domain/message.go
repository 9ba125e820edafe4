package domain

import "time"

// Message is immutable once stored. ID is a monotonic ULID, so ordering by
// (Timestamp, ID) reproduces insertion order for equal timestamps.
type Message struct {
	ID        string
	Sender    string
	Receiver  string
	Text      string
	Timestamp time.Time
}
