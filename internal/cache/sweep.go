package cache

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
)

// SweepOrphanedSlots deletes mailbox slots whose owning session record has
// expired. Redis TTLs expire the slots on their own schedule; the sweep just
// keeps slots from outliving a dead session within that window.
func SweepOrphanedSlots(ctx context.Context, client *redis.Client) (int, error) {
	removed := 0
	for _, prefix := range []string{"intent:", "notice:"} {
		iter := client.Scan(ctx, 0, prefix+"*", 100).Iterator()
		for iter.Next(ctx) {
			key := iter.Val()
			sid := strings.TrimPrefix(key, prefix)
			exists, err := client.Exists(ctx, "session:"+sid).Result()
			if err != nil {
				return removed, err
			}
			if exists == 0 {
				if err := client.Del(ctx, key).Err(); err != nil {
					return removed, err
				}
				removed++
			}
		}
		if err := iter.Err(); err != nil {
			return removed, err
		}
	}
	return removed, nil
}
