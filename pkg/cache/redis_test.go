package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/pkg/config"
)

func TestNewRedisDisabledReturnsNilClient(t *testing.T) {
	client, err := NewRedis(context.Background(), config.RedisConfig{Enabled: false, Host: "unreachable", Port: 1})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestOptionsUsesHostPortByDefault(t *testing.T) {
	opts := Options(config.RedisConfig{Host: "cache", Port: 6380, DB: 2, PoolSize: 4})

	assert.Equal(t, []string{"cache:6380"}, opts.Addrs)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 4, opts.PoolSize)
}

func TestOptionsPrefersAddrs(t *testing.T) {
	opts := Options(config.RedisConfig{
		Host:       "ignored",
		Port:       6379,
		Addrs:      []string{"r1:26379", "r2:26379"},
		MasterName: "timetable",
	})

	assert.Equal(t, []string{"r1:26379", "r2:26379"}, opts.Addrs)
	assert.Equal(t, "timetable", opts.MasterName)
}
