package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/moodpick/moodpick-backend/internal/logger"
	"github.com/moodpick/moodpick-backend/internal/utils"
)

// RevocationStore tracks access tokens invalidated before their JWT expiry.
// Logout writes the token here; the auth middleware consults it on every
// protected request.
type RevocationStore interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	Close() error
}

type revocationStore struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
}

// NewRevocationStore connects using REDIS_ADDR. A missing address is an error;
// callers that want to run without Redis pass a nil store downstream, which
// degrades to trusting JWT expiry alone.
func NewRevocationStore(log *logger.Logger) (RevocationStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(utils.GetEnv("REDIS_ADDR", "", nil))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &revocationStore{
		log:    log.With("service", "RedisRevocationStore"),
		rdb:    rdb,
		prefix: "revoked_token:",
	}, nil
}

func (rs *revocationStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if rs == nil || rs.rdb == nil {
		return fmt.Errorf("revocation store not initialized")
	}
	if token == "" {
		return fmt.Errorf("empty token")
	}
	if ttl <= 0 {
		// Already past JWT expiry, nothing to track.
		return nil
	}
	return rs.rdb.Set(ctx, rs.prefix+token, "1", ttl).Err()
}

func (rs *revocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	if rs == nil || rs.rdb == nil {
		return false, fmt.Errorf("revocation store not initialized")
	}
	n, err := rs.rdb.Exists(ctx, rs.prefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (rs *revocationStore) Close() error {
	if rs == nil || rs.rdb == nil {
		return nil
	}
	return rs.rdb.Close()
}
