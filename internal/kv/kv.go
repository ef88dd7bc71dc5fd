// Package kv is the persistence adapter: a small key-value contract the
// stores use to load their state at startup and save it after every
// successful mutation. Values are JSON text; the keys below match the
// browser localStorage records earlier releases wrote, so existing data
// stays readable.
package kv

import "context"

// Keys for the three persisted records.
const (
	KeyWorkouts  = "fitness-workouts"
	KeyProgress  = "fitness-progress"
	KeyUserStats = "fitness-user-stats"
)

// Store is the load/save contract. Load returns ok=false when the key has
// never been written. Implementations must serialize writes per key so a
// concurrent host never observes an interleaved partial value.
type Store interface {
	Load(ctx context.Context, key string) (value []byte, ok bool, err error)
	Save(ctx context.Context, key string, value []byte) error
	Close() error
}
