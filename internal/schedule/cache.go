package schedule

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// SnapshotKey is the Redis key holding the active-schedule snapshot.
const SnapshotKey = "schedules:active"

// Snapshot is the point-in-time schedule set shared between the API and the
// refresh worker. Consumers tolerate staleness up to the refresh interval.
type Snapshot struct {
	Schedules   []Schedule `json:"schedules"`
	RefreshedAt time.Time  `json:"refreshedAt"`
}

// Cache stores the schedule snapshot as JSON in Redis.
type Cache struct {
	Client *redis.Client
	TTL    time.Duration
}

// Get loads the snapshot. The second return reports whether a decodable
// snapshot existed; a corrupt payload is treated as a miss.
func (c Cache) Get(ctx context.Context) (Snapshot, bool, error) {
	if c.Client == nil {
		return Snapshot{}, false, nil
	}
	data, err := c.Client.Get(ctx, SnapshotKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, false, nil
	}
	return snap, true, nil
}

// Set stores the snapshot with the configured TTL.
func (c Cache) Set(ctx context.Context, snap Snapshot) error {
	if c.Client == nil {
		return nil
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	ttl := c.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return c.Client.Set(ctx, SnapshotKey, data, ttl).Err()
}
