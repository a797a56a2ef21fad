package scheduling

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"medibook/utils"
)

// AvailabilityCache is a short-TTL read cache over ListOpen. Reads are not
// required to be linearizable with writes (Reserve re-validates atomically),
// so a few seconds of staleness is acceptable; every ledger mutation still
// invalidates eagerly. A nil cache disables caching.
type AvailabilityCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func cacheKey(providerID, date string) string {
	return "avail:" + providerID + ":" + date
}

func (c *AvailabilityCache) get(ctx context.Context, providerID, date string) ([]string, bool) {
	if c == nil || c.Client == nil {
		return nil, false
	}
	raw, err := c.Client.Get(ctx, cacheKey(providerID, date)).Result()
	if err != nil {
		if err != redis.Nil {
			utils.GetLogger().Warn("availability cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var times []string
	if err := json.Unmarshal([]byte(raw), &times); err != nil {
		return nil, false
	}
	return times, true
}

func (c *AvailabilityCache) set(ctx context.Context, providerID, date string, times []string) {
	if c == nil || c.Client == nil {
		return
	}
	raw, err := json.Marshal(times)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, cacheKey(providerID, date), raw, c.TTL).Err(); err != nil {
		utils.GetLogger().Warn("availability cache write failed", zap.Error(err))
	}
}

func (c *AvailabilityCache) invalidate(ctx context.Context, providerID, date string) {
	if c == nil || c.Client == nil {
		return
	}
	if err := c.Client.Del(ctx, cacheKey(providerID, date)).Err(); err != nil {
		utils.GetLogger().Warn("availability cache invalidation failed", zap.Error(err))
	}
}
