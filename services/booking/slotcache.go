package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"maato/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// SlotCache caches the booked-slots lookup. It is strictly a read
// accelerator: the unique slot index stays the source of truth, so a stale
// entry can at worst show a friendly conflict one request late.
type SlotCache interface {
	Get(ctx context.Context, date, municipality, ward string) ([]string, bool)
	Set(ctx context.Context, date, municipality, ward string, slots []string)
	Invalidate(ctx context.Context, date, municipality, ward string)
}

const slotCacheTTL = 30 * time.Second

// RedisSlotCache implements SlotCache on Redis.
type RedisSlotCache struct {
	Client *redis.Client
}

func slotCacheKey(date, municipality, ward string) string {
	return fmt.Sprintf("slots:%s:%s:%s", date, municipality, ward)
}

func (c *RedisSlotCache) Get(ctx context.Context, date, municipality, ward string) ([]string, bool) {
	data, err := c.Client.Get(ctx, slotCacheKey(date, municipality, ward)).Result()
	if err != nil {
		return nil, false
	}
	var slots []string
	if err := json.Unmarshal([]byte(data), &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (c *RedisSlotCache) Set(ctx context.Context, date, municipality, ward string, slots []string) {
	data, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, slotCacheKey(date, municipality, ward), data, slotCacheTTL).Err(); err != nil {
		utils.GetLogger().Debug("slot cache set failed", zap.Error(err))
	}
}

func (c *RedisSlotCache) Invalidate(ctx context.Context, date, municipality, ward string) {
	if err := c.Client.Del(ctx, slotCacheKey(date, municipality, ward)).Err(); err != nil {
		utils.GetLogger().Debug("slot cache invalidate failed", zap.Error(err))
	}
}
