package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/domain"
)

const (
	tokenKeyPrefix = "token:"
	sortKeyPrefix  = "tokens:sort:"
)

// TokenStore is the durable, TTL-bounded home of a generation: canonical
// records plus one sorted index per (metric, timeframe) pair.
type TokenStore interface {
	// Persist writes a full generation in one submission. Each record's
	// canonical value and all nine of its index entries land in the same
	// pipeline, so readers never see one without the other beyond the
	// duration of the write burst.
	Persist(ctx context.Context, records []domain.TokenRecord) error

	// Get looks up one record. A miss, including after TTL expiry, is
	// (zero, false, nil), not an error.
	Get(ctx context.Context, address string) (domain.TokenRecord, bool, error)

	// RangeByRank returns up to count+1 addresses ordered by score,
	// starting at the zero-based rank start. The extra element lets the
	// caller detect a further page without a second round trip. An
	// expired or never-written index yields an empty slice.
	RangeByRank(ctx context.Context, metric domain.Metric, period domain.Timeframe, dir domain.SortDir, start, count int) ([]string, error)
}

// RedisStore keeps records under token:<address> and scores in
// tokens:sort:<metric>:<timeframe> sorted sets, every key carrying the
// configured TTL, refreshed on each write.
type RedisStore struct {
	client *redis.Client
	cache  *SnapshotCache
	ttl    time.Duration
	logger *logrus.Entry
}

func NewRedisStore(client *redis.Client, cache *SnapshotCache, ttl time.Duration, logger *logrus.Entry) *RedisStore {
	return &RedisStore{
		client: client,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func tokenKey(address string) string {
	return tokenKeyPrefix + address
}

func sortKey(metric domain.Metric, period domain.Timeframe) string {
	return fmt.Sprintf("%s%s:%s", sortKeyPrefix, metric, period)
}

func (s *RedisStore) Persist(ctx context.Context, records []domain.TokenRecord) error {
	pipe := s.client.Pipeline()

	for _, record := range records {
		payload, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshaling record %s: %w", record.Address, err)
		}

		pipe.Set(ctx, tokenKey(record.Address), payload, s.ttl)

		for _, metric := range domain.Metrics {
			for _, period := range domain.Timeframes {
				key := sortKey(metric, period)
				pipe.ZAdd(ctx, key, redis.Z{
					Score:  record.Score(metric, period),
					Member: record.Address,
				})
				pipe.Expire(ctx, key, s.ttl)
			}
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.WithError(err).Error("Failed to persist generation")
		return fmt.Errorf("persisting %d records: %w", len(records), err)
	}

	return nil
}

func (s *RedisStore) Get(ctx context.Context, address string) (domain.TokenRecord, bool, error) {
	if record, ok := s.cache.Get(address); ok {
		return record, true, nil
	}

	payload, err := s.client.Get(ctx, tokenKey(address)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.TokenRecord{}, false, nil
	}
	if err != nil {
		return domain.TokenRecord{}, false, fmt.Errorf("reading token %s: %w", address, err)
	}

	var record domain.TokenRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return domain.TokenRecord{}, false, fmt.Errorf("decoding token %s: %w", address, err)
	}

	s.cache.Set(record)
	return record, true, nil
}

func (s *RedisStore) RangeByRank(ctx context.Context, metric domain.Metric, period domain.Timeframe, dir domain.SortDir, start, count int) ([]string, error) {
	key := sortKey(metric, period)
	stop := int64(start + count)

	var cmd *redis.StringSliceCmd
	if dir == domain.SortAsc {
		cmd = s.client.ZRange(ctx, key, int64(start), stop)
	} else {
		cmd = s.client.ZRevRange(ctx, key, int64(start), stop)
	}

	addresses, err := cmd.Result()
	if err != nil {
		return nil, fmt.Errorf("ranging %s: %w", key, err)
	}
	return addresses, nil
}
