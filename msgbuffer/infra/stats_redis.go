package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"message-buffer/msgbuffer/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStatsStore conta outcomes de submit em hashes do Redis:
//
//	<prefix>:total                 outcome -> n
//	<prefix>:minute:<yyyymmddhhmm> outcome -> n (com TTL)
//	<prefix>:author:<author>       outcome -> n (opcional, com TTL)
type RedisStatsStore struct {
	rdb *redis.Client

	prefix string
	// ttl aplica apenas nas chaves por minuto / por autor.
	// total é cumulativo e não expira.
	ttl time.Duration

	bucket string // "minute" (padrão) ou "none"

	trackAuthors bool
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func WithStatsTrackAuthors(track bool) RedisStatsOption {
	return func(s *RedisStatsStore) { s.trackAuthors = track }
}

func NewRedisStatsStore(rdb *redis.Client, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "msgbuffer:stats",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStatsStore) Record(ctx context.Context, ev domain.StatsEvent) error {
	if s == nil || s.rdb == nil || ev.Outcome == "" {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	field := string(ev.Outcome)

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.prefix+":total", field, 1)

	if s.bucket == "minute" {
		bucketKey := fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
		pipe.HIncrBy(ctx, bucketKey, field, 1)
		if s.ttl > 0 {
			pipe.Expire(ctx, bucketKey, s.ttl)
		}
	}

	if s.trackAuthors {
		if a := strings.TrimSpace(ev.Author); a != "" {
			authorKey := s.prefix + ":author:" + a
			pipe.HIncrBy(ctx, authorKey, field, 1)
			if s.ttl > 0 {
				pipe.Expire(ctx, authorKey, s.ttl)
			}
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}
