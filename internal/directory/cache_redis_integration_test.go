//go:build integration

package directory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"stocktrail/internal/directory"
	"stocktrail/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *directory.RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.cache = directory.NewRedisCache(s.redis.Client.Client, time.Minute)
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisCacheSuite) TestKindsDoNotCollide() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Set(ctx, directory.KindStaff, map[string]string{"k1": "Ana"}))
	s.Require().NoError(s.cache.Set(ctx, directory.KindBranch, map[string]string{"k1": "Downtown"}))

	staff, err := s.cache.Get(ctx, directory.KindStaff, []string{"k1", "missing"})
	s.Require().NoError(err)
	s.Equal(map[string]string{"k1": "Ana"}, staff)

	branches, err := s.cache.Get(ctx, directory.KindBranch, []string{"k1"})
	s.Require().NoError(err)
	s.Equal("Downtown", branches["k1"])
}

func (s *RedisCacheSuite) TestEntriesExpire() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Set(ctx, directory.KindProduct, map[string]string{"p": "Lamp"}))
	ttl, err := s.redis.Client.TTL(ctx, "stocktrail:name:product:p").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Minute)
}
