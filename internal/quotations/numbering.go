package quotations

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sequenceKeyPrefix = "vantage:quotations:seq:"

// NumberGenerator issues quote numbers shaped QUO-<year>-<4 digits>.
//
// The suffix comes from a per-year Redis counter so sequential saves cannot
// collide. When Redis is unreachable the generator falls back to the
// historical millisecond-derived suffix, which keeps saves working at the
// cost of a small collision window.
type NumberGenerator struct {
	rdb *redis.Client
	now func() time.Time
}

func NewNumberGenerator(rdb *redis.Client) *NumberGenerator {
	return &NumberGenerator{rdb: rdb, now: time.Now}
}

// Next returns the next quote number.
func (g *NumberGenerator) Next(ctx context.Context) string {
	now := g.now()
	year := now.Year()

	if g.rdb != nil {
		seq, err := g.rdb.Incr(ctx, fmt.Sprintf("%s%d", sequenceKeyPrefix, year)).Result()
		if err == nil {
			return formatQuoteNumber(year, int(seq%10000))
		}
	}
	return formatQuoteNumber(year, int(now.UnixMilli()%10000))
}

func formatQuoteNumber(year, suffix int) string {
	return fmt.Sprintf("QUO-%d-%04d", year, suffix)
}
