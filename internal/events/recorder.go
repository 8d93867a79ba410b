package events

import (
	"context"
	"sync"
)

// Record is one notification captured by a Recorder.
type Record struct {
	Name    string
	Payload any
}

// Recorder keeps every notification it receives in memory.
// All methods are safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	records []Record
}

// Publish appends the notification.
func (r *Recorder) Publish(_ context.Context, name string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, Record{Name: name, Payload: payload})
	return nil
}

// Records returns a copy of every captured notification in arrival order.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Record(nil), r.records...)
}

// Named returns the payloads of every captured notification called name.
func (r *Recorder) Named(name string) []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []any
	for _, rec := range r.records {
		if rec.Name == name {
			out = append(out, rec.Payload)
		}
	}
	return out
}
