package lib

import (
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestNewRedisClientOverridesSingleton(t *testing.T) {
	custom := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	assert.Same(t, custom, NewRedisClient(custom))
	assert.Same(t, custom, GetRedisClient())
}

func TestGetRedisClientRejectsBadConnectionString(t *testing.T) {
	prev := redisClient
	redisClient = nil
	defer func() { redisClient = prev }()

	t.Setenv("REDIS_HOST", "not-a-redis-url")
	assert.Nil(t, GetRedisClient())
}
