package viewcache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache holds short-lived snapshots of the derived views the UI renders
// (slot occupancy grids, quota usage badges). The booking ledger stays the
// source of truth: every key is dropped on mutation and a miss falls
// through to a fresh ledger query.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client) *Cache {
	return &Cache{
		rdb: rdb,
		ttl: 60 * time.Second,
	}
}

// Disabled returns a cache that never stores; used when no redis is
// configured (all reads hit the ledger directly).
func Disabled() *Cache {
	return &Cache{}
}

func scheduleKey(resourceType string, isoYear, isoWeek int) string {
	return fmt.Sprintf("schedule:%s:%d-W%02d", resourceType, isoYear, isoWeek)
}

// usageSnapshotKey addresses a user's quota badge. Weekly quotas are
// scoped to their ISO week; a standing cap spans weeks, so its snapshot
// lives under a single week-independent key — otherwise a mutation in one
// week could never invalidate a badge cached under another.
func usageSnapshotKey(userID uint, resourceType string, standing bool, isoYear, isoWeek int) string {
	if standing {
		return fmt.Sprintf("usage:%d:%s:standing", userID, resourceType)
	}
	return fmt.Sprintf("usage:%d:%s:%d-W%02d", userID, resourceType, isoYear, isoWeek)
}

// invalidationKeys lists every snapshot a booking mutation can stale:
// the week's occupancy grid, the owner's usage badge for that week, and
// the owner's standing-cap badge.
func invalidationKeys(userID uint, resourceType string, isoYear, isoWeek int) []string {
	return []string{
		scheduleKey(resourceType, isoYear, isoWeek),
		usageSnapshotKey(userID, resourceType, false, isoYear, isoWeek),
		usageSnapshotKey(userID, resourceType, true, 0, 0),
	}
}

// --------------------------------------------------
// Snapshots
// --------------------------------------------------

func (c *Cache) GetSchedule(ctx context.Context, resourceType string, isoYear, isoWeek int, dest any) bool {
	return c.get(ctx, scheduleKey(resourceType, isoYear, isoWeek), dest)
}

func (c *Cache) SetSchedule(ctx context.Context, resourceType string, isoYear, isoWeek int, value any) {
	c.set(ctx, scheduleKey(resourceType, isoYear, isoWeek), value)
}

func (c *Cache) GetUsage(ctx context.Context, userID uint, resourceType string, standing bool, isoYear, isoWeek int, dest any) bool {
	return c.get(ctx, usageSnapshotKey(userID, resourceType, standing, isoYear, isoWeek), dest)
}

func (c *Cache) SetUsage(ctx context.Context, userID uint, resourceType string, standing bool, isoYear, isoWeek int, value any) {
	c.set(ctx, usageSnapshotKey(userID, resourceType, standing, isoYear, isoWeek), value)
}

// --------------------------------------------------
// Invalidation
// --------------------------------------------------

// InvalidateBooking drops every snapshot a booking mutation can stale.
func (c *Cache) InvalidateBooking(ctx context.Context, userID uint, resourceType string, isoYear, isoWeek int) {
	if c.rdb == nil {
		return
	}

	keys := invalidationKeys(userID, resourceType, isoYear, isoWeek)
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		// Stale cache self-heals at TTL; never fail the booking over it.
		log.Println("viewcache invalidate error:", err)
	}
}

// --------------------------------------------------
// Internals
// --------------------------------------------------

func (c *Cache) get(ctx context.Context, key string, dest any) bool {
	if c.rdb == nil {
		return false
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Println("viewcache get error:", err)
		}
		return false
	}

	return json.Unmarshal(raw, dest) == nil
}

func (c *Cache) set(ctx context.Context, key string, value any) {
	if c.rdb == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Println("viewcache set error:", err)
	}
}
