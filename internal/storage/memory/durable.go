package memory

import (
	"context"
	"sync"

	"service_directory/internal/adapters/observability"
)

// Durable is a process-local key-value store. It backs the "memory" storage
// driver and doubles as the storage fake in tests; FailWrites/FailReads
// simulate an unavailable or full backend.
type Durable struct {
	mu   sync.RWMutex
	data map[string]string

	FailReads  error
	FailWrites error
	writes     int
}

func NewDurable() *Durable {
	return &Durable{data: map[string]string{}}
}

func (d *Durable) Get(_ context.Context, key string) (string, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.FailReads != nil {
		observability.ObserveStorage("memory", "get", "error")
		return "", false, d.FailReads
	}
	v, ok := d.data[key]
	if !ok {
		observability.ObserveStorage("memory", "get", "miss")
		return "", false, nil
	}
	observability.ObserveStorage("memory", "get", "ok")
	return v, true, nil
}

func (d *Durable) Set(_ context.Context, key, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailWrites != nil {
		observability.ObserveStorage("memory", "set", "error")
		return d.FailWrites
	}
	d.data[key] = value
	d.writes++
	observability.ObserveStorage("memory", "set", "ok")
	return nil
}

func (d *Durable) Remove(_ context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailWrites != nil {
		return d.FailWrites
	}
	delete(d.data, key)
	observability.ObserveStorage("memory", "del", "ok")
	return nil
}

// Writes reports how many successful Set calls were made.
func (d *Durable) Writes() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.writes
}
