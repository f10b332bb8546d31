package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedisOptions(t *testing.T) {
	opts := redisOptions([]string{"redis-1:6379", "redis-2:6379"}, "hunter2", 3)

	assert.Equal(t, "redis-1:6379", opts.Addr)
	assert.Equal(t, "hunter2", opts.Password)
	assert.Equal(t, 3, opts.DB)
}
