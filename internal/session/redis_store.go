package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitnessdash/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "fitdash-session||"

var _ Store = (*RedisStore)(nil)

// RedisStore shares sessions between service instances.
type RedisStore struct {
	redisClient *redis.Client
	ttl         time.Duration
	// injectable clock for tests
	NowFunc func() time.Time
}

func NewRedisStore(redisClient *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		redisClient: redisClient,
		ttl:         ttl,
		NowFunc:     time.Now,
	}
}

func (s *RedisStore) Get(ctx context.Context, id string) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "redis.session.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	cmd := s.redisClient.Get(ctx, keyPrefix+id)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	sess := &Session{}
	if err := json.Unmarshal([]byte(cmd.Val()), sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return sess, nil
}

func (s *RedisStore) Save(ctx context.Context, sess *Session) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "redis.session.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	sess.UpdatedAt = s.NowFunc()
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := s.redisClient.Set(ctx, keyPrefix+sess.ID, string(raw), s.ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}
