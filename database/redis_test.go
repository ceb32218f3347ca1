package database

import (
	"context"
	"testing"

	"coursehub/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRedis_BadURL(t *testing.T) {
	_, err := OpenRedis(context.Background(), &config.Config{RedisURL: "http://nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse redis url")
}

func TestOpenRedis_Unreachable(t *testing.T) {
	_, err := OpenRedis(context.Background(), &config.Config{RedisURL: "redis://127.0.0.1:1/0"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}

func TestGormLogLevel(t *testing.T) {
	assert.NotEqual(t, gormLogLevel("info"), gormLogLevel("debug"))
	assert.Equal(t, gormLogLevel("warn"), gormLogLevel("error"))
}
