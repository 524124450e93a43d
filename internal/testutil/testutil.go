// Package testutil provides shared helpers for console tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisProbeTimeout = 2 * time.Second
	redisLockTTL      = 30 * time.Minute
	redisMaxDB        = 15
)

// TestTime is the fixed instant tests start their clocks at.
func TestTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

// Clock is a manually advanced clock safe for concurrent readers.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock stopped at start.
func NewClock(start time.Time) *Clock { return &Clock{now: start} }

// Now returns the current reading.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func envBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

// redisRequired turns a missing Redis into a failure instead of a skip.
func redisRequired() bool { return envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") }

func pingRedis(addr string, db int) error {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	defer func() { _ = client.Close() }()
	ctx, cancel := context.WithTimeout(context.Background(), redisProbeTimeout)
	defer cancel()
	return client.Ping(ctx).Err()
}

// GetTestRedisAddr returns the first reachable Redis address. REDIS_ADDR is
// tried alone when set; otherwise the compose service name and local ports.
func GetTestRedisAddr(t testing.TB) (string, bool) {
	t.Helper()

	candidates := []string{"redis:6379", "localhost:6379", "localhost:56379"}
	if addr := strings.TrimSpace(os.Getenv("REDIS_ADDR")); addr != "" {
		candidates = []string{addr}
	}
	for _, addr := range candidates {
		err := pingRedis(addr, 0)
		if err == nil {
			return addr, true
		}
		t.Logf("redis not reachable at %s: %v", addr, err)
	}
	return candidates[len(candidates)-1], false
}

// reserveRedisDB picks a database so packages running in parallel do not
// flush each other. TEST_REDIS_DB wins; otherwise a lock key in DB 0 claims
// one of 1..15 until the test ends.
func reserveRedisDB(t testing.TB, addr string) int {
	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil && db >= 0 {
			return db
		}
		t.Logf("ignoring invalid TEST_REDIS_DB=%q", v)
	}

	meta := redis.NewClient(&redis.Options{Addr: addr})
	defer func() { _ = meta.Close() }()

	owner := fmt.Sprintf("%d:%d", os.Getpid(), time.Now().UnixNano())
	dbs := make([]int, 0, redisMaxDB)
	for db := 1; db <= redisMaxDB; db++ {
		dbs = append(dbs, db)
	}
	idx := slices.IndexFunc(dbs, func(db int) bool {
		ctx, cancel := context.WithTimeout(context.Background(), redisProbeTimeout)
		defer cancel()
		ok, err := meta.SetNX(ctx, redisLockKey(db), owner, redisLockTTL).Result()
		return err == nil && ok
	})
	if idx < 0 {
		t.Logf("every redis test db is locked, sharing db 1")
		return 1
	}

	db := dbs[idx]
	t.Cleanup(func() {
		c := redis.NewClient(&redis.Options{Addr: addr})
		defer func() { _ = c.Close() }()
		ctx, cancel := context.WithTimeout(context.Background(), redisProbeTimeout)
		defer cancel()
		if err := c.Del(ctx, redisLockKey(db)).Err(); err != nil {
			t.Logf("release redis test db %d: %v", db, err)
		}
	})
	return db
}

func redisLockKey(db int) string {
	return "lpwan-console:testutil:db_lock:" + strconv.Itoa(db)
}

// SetupTestRedis returns a client on an empty, reserved database and closes
// it when the test ends. The test is skipped when Redis is unreachable
// unless TEST_REQUIRE_REDIS is set.
func SetupTestRedis(t testing.TB) *redis.Client {
	t.Helper()

	addr, ok := GetTestRedisAddr(t)
	if !ok {
		if redisRequired() {
			t.Fatalf("redis required but not reachable at %s", addr)
		}
		t.Skipf("redis not reachable at %s", addr)
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: reserveRedisDB(t, addr)})
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), redisProbeTimeout)
	defer cancel()
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("flush redis test db: %v", err)
	}
	return client
}
