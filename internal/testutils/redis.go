package testutils

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// TestRedisURLEnv names the variable pointing integration tests at a Redis
const TestRedisURLEnv = "TEST_REDIS_URL"

// CreateTestRedisClientOrSkip connects to the Redis named by TEST_REDIS_URL,
// flushing its database before and after the test. The test is skipped when
// the variable is unset or the server does not answer.
func CreateTestRedisClientOrSkip(t *testing.T) redis.UniversalClient {
	t.Helper()

	url := os.Getenv(TestRedisURLEnv)
	if url == "" {
		t.Skipf("%s not set, skipping Redis integration test", TestRedisURLEnv)
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err, "invalid %s", TestRedisURLEnv)

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available for testing: %v", err)
	}

	require.NoError(t, client.FlushDB(ctx).Err(), "Failed to flush test Redis database")

	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})
	return client
}
